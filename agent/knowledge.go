package agent

import (
	"fmt"
	"strings"

	"github.com/multiflexhq/multiflex/rag"
	"github.com/multiflexhq/multiflex/search"
)

// maxIterations caps retrieval rounds per synthesis request. The accumulator
// refuses further merges past the cap instead of letting a looping agent
// re-query forever.
const maxIterations = 3

// Knowledge accumulates retrieval output across synthesis iterations.
// Merging is additive; nothing is ever removed within a request.
type Knowledge struct {
	Docs            []rag.ChunkModel
	Search          []search.WebResult
	Images          []search.ImageResult
	UIImages        []search.ImageResult
	GeneratedImages map[string]string
	Failed          map[string]string
	Iterations      int
}

// Delta is one retrieval round's output, merged into Knowledge.
type Delta struct {
	Docs            []rag.ChunkModel
	Search          []search.WebResult
	Images          []search.ImageResult
	UIImages        []search.ImageResult
	GeneratedImages map[string]string
	Failed          map[string]string
}

func NewKnowledge() *Knowledge {
	return &Knowledge{
		GeneratedImages: make(map[string]string),
		Failed:          make(map[string]string),
	}
}

// Merge folds one retrieval round in. Returns false once the iteration cap
// is reached; the delta is dropped in that case.
func (k *Knowledge) Merge(d Delta) bool {
	if k.Iterations >= maxIterations {
		return false
	}
	k.Iterations++

	k.Docs = append(k.Docs, d.Docs...)
	k.Search = append(k.Search, d.Search...)
	k.Images = append(k.Images, d.Images...)
	k.UIImages = append(k.UIImages, d.UIImages...)
	for key, payload := range d.GeneratedImages {
		k.GeneratedImages[key] = payload
	}
	for tag, reason := range d.Failed {
		k.Failed[tag] = reason
	}
	return true
}

// SearchContext renders web results for prompt interpolation. Empty string
// when nothing was found, so templates can branch on absence.
func (k *Knowledge) SearchContext() string {
	if len(k.Search) == 0 {
		return ""
	}

	var b strings.Builder
	for i, r := range k.Search {
		fmt.Fprintf(&b, "%d. %s\n   %s\n   Source: %s\n", i+1, r.Title, r.Snippet, r.Link)
	}
	return strings.TrimSpace(b.String())
}

// ImageContext renders topic image results as title/URL lines.
func (k *Knowledge) ImageContext() string {
	return imageLines(k.Images)
}

// UIImageContext renders decorative images fetched during design planning.
func (k *Knowledge) UIImageContext() string {
	return imageLines(k.UIImages)
}

func imageLines(images []search.ImageResult) string {
	if len(images) == 0 {
		return ""
	}

	var b strings.Builder
	for _, img := range images {
		fmt.Fprintf(&b, "- %s: %s\n", img.Title, img.ImageURL)
	}
	return strings.TrimSpace(b.String())
}

// RagContext renders retrieved document chunks in full, tagged by file.
func (k *Knowledge) RagContext() string {
	if len(k.Docs) == 0 {
		return ""
	}

	var b strings.Builder
	for _, doc := range k.Docs {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", doc.Filename, doc.Text)
	}
	return strings.TrimSpace(b.String())
}

// RagSummary is the compact form used by the design stage, where full chunk
// text would crowd out the creative instructions.
func (k *Knowledge) RagSummary() string {
	if len(k.Docs) == 0 {
		return ""
	}

	const snippetLen = 160
	var b strings.Builder
	for _, doc := range k.Docs {
		text := doc.Text
		if runes := []rune(text); len(runes) > snippetLen {
			text = string(runes[:snippetLen]) + "..."
		}
		fmt.Fprintf(&b, "- %s: %s\n", doc.Filename, text)
	}
	return strings.TrimSpace(b.String())
}

// GeneratedImageContext lists the keys under which generated images are
// stored. The implementation stage references these keys verbatim; they are
// swapped for payloads after parsing.
func (k *Knowledge) GeneratedImageContext() string {
	if len(k.GeneratedImages) == 0 {
		return ""
	}

	var b strings.Builder
	for key := range k.GeneratedImages {
		fmt.Fprintf(&b, "- %s\n", key)
	}
	return strings.TrimSpace(b.String())
}
