package normalize

import (
	"html"
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?://[^\s\)]+)\)`)
	urlPattern          = regexp.MustCompile(`https?://\S+|www\.\S+`)
	subredditPattern    = regexp.MustCompile(`/r/\w+`)
	userMentionPattern  = regexp.MustCompile(`/u/\w+`)
	htmlTagPattern      = regexp.MustCompile(`<[^>]+>`)
)

// Text canonicalizes raw post text: markdown is rendered away, URLs and
// platform mention tokens are removed, whitespace is collapsed. Both the
// dedup fingerprint and signal extraction hash off this output, so the
// function must stay a pure function of its input.
func Text(raw string) string {
	if raw == "" {
		return ""
	}

	text := markdownToPlain(raw)
	text = RemoveLinks(text)
	text = subredditPattern.ReplaceAllString(text, "")
	text = userMentionPattern.ReplaceAllString(text, "")

	return strings.Join(strings.Fields(text), " ")
}

// RemoveLinks keeps the anchor text of markdown links and strips bare URLs.
func RemoveLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

func markdownToPlain(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	stripped := htmlTagPattern.ReplaceAllString(string(output), " ")
	return html.UnescapeString(stripped)
}
