package transcripts

import (
	"fmt"
	"math"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// Banner is the first line of every transcript document.
const Banner = "Brought to you by Podflare"

// Format renders caption entries as a plain-text transcript document.
// Entries are written in the order given.
func Format(entries []engine.CaptionEntry, meta engine.VideoMetadata) string {
	var sb strings.Builder
	sb.Grow(128 + len(entries)*48)

	sb.WriteString(Banner + "\n\n")
	fmt.Fprintf(&sb, "Video: %s\n", meta.Title)
	fmt.Fprintf(&sb, "Channel: %s\n", meta.Channel)
	fmt.Fprintf(&sb, "URL: %s\n\n", meta.URL)
	sb.WriteString("Transcript:\n\n")

	for _, e := range entries {
		sb.WriteString(Timestamp(e.Start))
		sb.WriteByte(' ')
		sb.WriteString(e.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Timestamp renders a start offset as [MM:SS].
// Seconds are truncated and minutes are not wrapped at 60.
// Negative and non-finite offsets render as zero; huge ones saturate at MaxInt64 seconds.
func Timestamp(start float64) string {
	var secs int64
	switch {
	case !(start > 0), math.IsInf(start, 1):
	case start >= math.MaxInt64:
		secs = math.MaxInt64
	default:
		secs = int64(math.Floor(start))
	}
	return fmt.Sprintf("[%02d:%02d]", secs/60, secs%60)
}
