package sources

import (
	"regexp"
	"strings"
)

// YouTube implementation is split across files by responsibility:
//   youtube.go             video ID extraction from user-supplied links
//   youtube_innertube.go   Innertube / watch page types, constants and low-level requests
//   youtube_tracks.go      caption track list, lookup and translation
//   youtube_transcript.go  captions client: list tracks, fetch timedtext, direct fetch
//   youtube_metadata.go    title and channel scraping with oEmbed fallback

var videoIDRE = regexp.MustCompile(
	`(?i)(?:youtube(?:-nocookie)?\.com/(?:watch\?(?:.*&)?v=|embed/|shorts/|live/|v/)|youtu\.be/)([a-z0-9_-]{11})(?:[^a-z0-9_-]|$)`,
)

// ExtractVideoID pulls the 11-char video ID from a YouTube link.
// Handles watch?v=, youtu.be/, embed/, shorts/, live/ and v/ shapes with any
// trailing query or path. ok is false when no shape matches.
func ExtractVideoID(rawURL string) (id string, ok bool) {
	m := videoIDRE.FindStringSubmatch(strings.TrimSpace(rawURL))
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}
