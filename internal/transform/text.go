package transform

import (
	"regexp"
	"strings"
)

// ExcerptMarker is appended to an excerpt only when the plain text was truncated
const ExcerptMarker = "..."

// entityDecoder makes a single pass, so "&amp;lt;" becomes "&lt;" and not "<"
var entityDecoder = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&amp;", "&",
)

var (
	// Container media elements are dropped together with whatever they enclose
	pairedMediaPattern = regexp.MustCompile(`(?is)<(?:iframe|video|audio|object|picture)\b[^>]*>.*?</(?:iframe|video|audio|object|picture)\s*>`)
	voidMediaPattern   = regexp.MustCompile(`(?i)<(?:img|embed|source)\b[^>]*>`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// ExtractPlainText drops media elements, strips the remaining markup, decodes the
// basic entities and collapses whitespace. Escaped markup survives as text.
func ExtractPlainText(html string) string {
	if html == "" {
		return ""
	}

	text := pairedMediaPattern.ReplaceAllString(html, " ")
	text = voidMediaPattern.ReplaceAllString(text, " ")
	text = tagPattern.ReplaceAllString(text, " ")
	text = entityDecoder.Replace(text)
	text = whitespacePattern.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// DeriveExcerpt returns at most maxLen characters of plain text, followed by
// ExcerptMarker if anything was cut.
func DeriveExcerpt(html string, maxLen int) string {
	text := ExtractPlainText(html)
	if maxLen <= 0 {
		if text == "" {
			return ""
		}
		return ExcerptMarker
	}

	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + ExcerptMarker
}
