package transform

import "regexp"

var (
	imgTagPattern  = regexp.MustCompile(`(?i)<img\b[^>]*>`)
	srcAttrPattern = regexp.MustCompile(`(?i)\ssrc\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+))`)
)

// ExtractFirstImageURL returns the src of the first img tag that has a non-empty src
func ExtractFirstImageURL(html string) (string, bool) {
	for _, tag := range imgTagPattern.FindAllString(html, -1) {
		m := srcAttrPattern.FindStringSubmatch(tag)
		if m == nil {
			continue
		}
		for _, v := range m[1:] {
			if v != "" {
				return v, true
			}
		}
	}
	return "", false
}
