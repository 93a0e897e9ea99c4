package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFirstImageURL(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"single image", `<p><img src="https://x/img.png"></p>`, "https://x/img.png", true},
		{"first of two", `<img src="/a.png"><img src="/b.png">`, "/a.png", true},
		{"skips empty src", `<img src=""><img alt="x" src='/b.png'>`, "/b.png", true},
		{"unquoted src", `<IMG SRC=/c.jpg width=10>`, "/c.jpg", true},
		{"no image", `<p>text only</p>`, "", false},
		{"data-src is not src", `<img data-src="/lazy.png">`, "", false},
		{"empty input", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractFirstImageURL(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
