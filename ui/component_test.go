package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDescriptionValidComponents(t *testing.T) {
	raw := `{
		"components": [
			{"type": "hero", "props": {"title": "Welcome", "subtitle": "Hi"}},
			{"type": "card", "props": {"title": "Card", "content": "Body"}},
			{"type": "gallery", "props": {"title": "Shots", "images": [{"url": "http://a", "caption": "A"}]}},
			{"type": "list", "props": {"title": "Steps", "items": [{"text": "one"}]}},
			{"type": "stats", "props": {"title": "Numbers", "data": [{"value": "42", "label": "answers"}]}},
			{"type": "testimonial", "props": {"quote": "Great", "author": "Sam"}}
		]
	}`

	desc, err := ParseDescription(raw)
	require.NoError(t, err)
	assert.Len(t, desc.Components, 6)
}

func TestParseDescriptionStripsCodeFence(t *testing.T) {
	raw := "```json\n" + `{"components": [{"type": "hero", "props": {"title": "T"}}]}` + "\n```"
	desc, err := ParseDescription(raw)
	require.NoError(t, err)
	assert.Len(t, desc.Components, 1)
}

func TestParseDescriptionRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "hello there"},
		{"no components", `{"components": []}`},
		{"unknown type", `{"components": [{"type": "banner", "props": {"title": "T"}}]}`},
		{"hero missing title", `{"components": [{"type": "hero", "props": {"subtitle": "S"}}]}`},
		{"card missing content", `{"components": [{"type": "card", "props": {"title": "T"}}]}`},
		{"empty title", `{"components": [{"type": "hero", "props": {"title": "  "}}]}`},
		{"gallery empty images", `{"components": [{"type": "gallery", "props": {"title": "T", "images": []}}]}`},
		{"gallery image missing url", `{"components": [{"type": "gallery", "props": {"title": "T", "images": [{"caption": "C"}]}}]}`},
		{"stats item missing label", `{"components": [{"type": "stats", "props": {"title": "T", "data": [{"value": "1"}]}}]}`},
		{"title not string", `{"components": [{"type": "hero", "props": {"title": 42}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDescription(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestTruncateBoundsTitleAndContent(t *testing.T) {
	desc := &Description{Components: []Component{
		{Type: TypeCard, Props: map[string]any{
			"title":   strings.Repeat("x", 100),
			"content": strings.Repeat("y", 400),
		}},
		{Type: TypeHero, Props: map[string]any{
			"title": strings.Repeat("z", 100),
		}},
	}}

	desc.Truncate()

	cardTitle := desc.Components[0].Props["title"].(string)
	cardContent := desc.Components[0].Props["content"].(string)
	heroTitle := desc.Components[1].Props["title"].(string)

	assert.Equal(t, 60, len([]rune(cardTitle)))
	assert.Equal(t, 200, len([]rune(cardContent)))
	assert.Equal(t, 60, len([]rune(heroTitle)))
	assert.True(t, strings.HasSuffix(cardTitle, "…"))
}

func TestTruncateLeavesShortTextAlone(t *testing.T) {
	desc := &Description{Components: []Component{
		{Type: TypeCard, Props: map[string]any{"title": "Short", "content": "Also short."}},
	}}

	desc.Truncate()

	assert.Equal(t, "Short", desc.Components[0].Props["title"])
	assert.Equal(t, "Also short.", desc.Components[0].Props["content"])
}

func TestResolveImagesSwapsGeneratedKeys(t *testing.T) {
	desc := &Description{Components: []Component{
		{Type: TypeHero, Props: map[string]any{"title": "T", "image": "sunset prompt"}},
		{Type: TypeTestimonial, Props: map[string]any{"quote": "Q", "author": "A", "avatar": "portrait prompt"}},
		{Type: TypeGallery, Props: map[string]any{
			"title": "G",
			"images": []any{
				map[string]any{"url": "sunset prompt", "caption": "generated"},
				map[string]any{"url": "http://real.jpg", "caption": "stock"},
			},
		}},
	}}

	desc.ResolveImages(map[string]string{
		"sunset prompt":   "data:image/jpeg;base64,sun",
		"portrait prompt": "data:image/jpeg;base64,face",
	})

	assert.Equal(t, "data:image/jpeg;base64,sun", desc.Components[0].Props["image"])
	assert.Equal(t, "data:image/jpeg;base64,face", desc.Components[1].Props["avatar"])

	images := desc.Components[2].Props["images"].([]any)
	assert.Equal(t, "data:image/jpeg;base64,sun", images[0].(map[string]any)["url"])
	assert.Equal(t, "http://real.jpg", images[1].(map[string]any)["url"])
}

func TestFallbackDescriptionIsRenderable(t *testing.T) {
	desc := FallbackDescription("Title", "Content", "Badge")

	require.Len(t, desc.Components, 1)
	assert.Equal(t, TypeCard, desc.Components[0].Type)
	assert.NoError(t, desc.Components[0].validate())
}

func TestErrorDescriptionCarriesFailure(t *testing.T) {
	desc := ErrorDescription(errors.New("synthesis exploded"))

	require.Len(t, desc.Components, 1)
	assert.Equal(t, "synthesis exploded", desc.Error)
	assert.Contains(t, desc.Components[0].Props["content"], "synthesis exploded")
	assert.NoError(t, desc.Components[0].validate())
}
