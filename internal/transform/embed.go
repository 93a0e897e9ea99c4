// Package transform turns author-entered HTML into display-ready content.
// Every function here is pure and never fails on malformed input.
package transform

import (
	"fmt"
	"regexp"
	"strings"
)

// EmbedBaseURL is the canonical player URL prefix; the video id is appended
const EmbedBaseURL = "https://www.youtube.com/embed/"

const videoIDPattern = `[A-Za-z0-9_-]{11}`

// embedRule pairs a detection pattern with the builder of its replacement.
// The first submatch of every pattern is the video id.
type embedRule struct {
	name    string
	pattern *regexp.Regexp
}

// Rules are tried in order; at a given offset the earliest-starting match wins and
// ties go to the rule listed first.
var embedRules = []embedRule{
	{name: "marker", pattern: regexp.MustCompile(`\[youtube:(` + videoIDPattern + `)\]`)},
	{name: "watch", pattern: regexp.MustCompile(`https?://(?:www\.|m\.)?youtube\.com/watch\?(?:[^\s<>"]*?&)?v=(` + videoIDPattern + `)[^\s<>"]*`)},
	{name: "short", pattern: regexp.MustCompile(`https?://youtu\.be/(` + videoIDPattern + `)[^\s<>"]*`)},
	{name: "embed", pattern: regexp.MustCompile(`https?://(?:www\.)?youtube(?:-nocookie)?\.com/embed/(` + videoIDPattern + `)[^\s<>"]*`)},
}

var (
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
	markerPattern = regexp.MustCompile(`\[youtube:([^\]\s]*)\]`)
	validVideoID  = regexp.MustCompile(`^` + videoIDPattern + `$`)
)

// EmbedBlock renders the 16:9 player block for a video id
func EmbedBlock(videoID string) string {
	return fmt.Sprintf(
		`<div class="video-embed" style="position:relative;padding-bottom:56.25%%;height:0;overflow:hidden;">`+
			`<iframe src="%s%s" style="position:absolute;top:0;left:0;width:100%%;height:100%%;" `+
			`frameborder="0" allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture" allowfullscreen></iframe>`+
			`</div>`,
		EmbedBaseURL, videoID)
}

// NormalizeEmbeds replaces embed markers and raw video URLs in text outside of
// HTML tags with a player block. The output consists of the input's text with
// matches swapped for markup only, so a second pass finds nothing new.
func NormalizeEmbeds(body string) string {
	if body == "" {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))

	last := 0
	for _, loc := range tagPattern.FindAllStringIndex(body, -1) {
		b.WriteString(replaceInText(body[last:loc[0]]))
		b.WriteString(body[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(replaceInText(body[last:]))

	return b.String()
}

func replaceInText(text string) string {
	if text == "" {
		return text
	}

	var b strings.Builder
	for {
		start, end, id := earliestMatch(text)
		if start < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:start])
		b.WriteString(EmbedBlock(id))
		text = text[end:]
	}
}

func earliestMatch(text string) (start, end int, id string) {
	start = -1
	for _, rule := range embedRules {
		m := rule.pattern.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		if start < 0 || m[0] < start {
			start, end, id = m[0], m[1], text[m[2]:m[3]]
		}
	}
	return start, end, id
}

// MalformedEmbedMarkers returns the marker tokens whose id is not a valid video id
func MalformedEmbedMarkers(body string) []string {
	var bad []string
	for _, m := range markerPattern.FindAllStringSubmatch(body, -1) {
		if !validVideoID.MatchString(m[1]) {
			bad = append(bad, m[0])
		}
	}
	return bad
}
