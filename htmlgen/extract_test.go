package htmlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHTMLFromFence(t *testing.T) {
	raw := "Here is your page:\n```html\n<div><h1>Hi</h1></div>\n```\nEnjoy!"
	body, ok := ExtractHTML(raw)

	assert.True(t, ok)
	assert.Equal(t, "<div><h1>Hi</h1></div>", body)
}

func TestExtractHTMLUnterminatedFence(t *testing.T) {
	raw := "```html\n<div>open ended</div>"
	body, ok := ExtractHTML(raw)

	assert.True(t, ok)
	assert.Equal(t, "<div>open ended</div>", body)
}

func TestExtractHTMLFailsWithoutFence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"plain html", "<div>no fence</div>"},
		{"wrong fence language", "```json\n{}\n```"},
		{"empty fence", "```html\n\n```"},
		{"empty input", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ExtractHTML(tt.raw)
			assert.False(t, ok)
		})
	}
}
