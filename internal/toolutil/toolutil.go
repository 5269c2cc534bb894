// Package toolutil provides shared helpers for the HTTP and MCP tool surfaces.
package toolutil

import (
	"errors"
	"strings"

	"golang.org/x/text/language"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// ErrNoURLs is returned by CheckURLs for an empty list.
var ErrNoURLs = errors.New("No URLs provided") //nolint:staticcheck // user-facing sentence

// NormLang normalises a requested caption language to the code YouTube
// uses for caption tracks: empty → engine.Cfg.Language, "en-US" → "en",
// explicit Chinese scripts and Portuguese regions are kept.
// Tags are not canonicalised, so legacy codes such as "iw" survive.
// Unparseable input is returned lowercased.
func NormLang(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return engine.Cfg.Language
	}
	tag, err := language.Raw.Parse(lang)
	if err != nil {
		return strings.ToLower(lang)
	}
	base, _ := tag.Base()
	code := base.String()
	if script, conf := tag.Script(); conf == language.Exact && code == "zh" {
		return code + "-" + script.String()
	}
	if region, conf := tag.Region(); conf == language.Exact && code == "pt" {
		return code + "-" + region.String()
	}
	return code
}

// CheckURLs validates the URL list of a request. Entries are not filtered:
// blank or malformed ones still get their own result.
func CheckURLs(urls []string) error {
	if len(urls) == 0 {
		return ErrNoURLs
	}
	return nil
}
