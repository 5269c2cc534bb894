package engine

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// CleanHTML strips HTML tags and trims whitespace.
func CleanHTML(s string) string {
	return strings.TrimSpace(htmlTagRe.ReplaceAllString(s, ""))
}

// CleanCaption turns decoded timedtext chardata into a single display line.
// Timedtext escapes entities twice, encoding/xml only removes one layer.
func CleanCaption(s string) string {
	s = CleanHTML(html.UnescapeString(s))
	return whitespaceRe.ReplaceAllString(s, " ")
}
