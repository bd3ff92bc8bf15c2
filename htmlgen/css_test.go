package htmlgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInjectCSSIntoExistingHead(t *testing.T) {
	html := "<html><head><title>X</title></head><body><p>hi</p></body></html>"
	styled := InjectCSS(html)

	assert.Contains(t, styled, "<style>")
	assert.Less(t, strings.Index(styled, "<style>"), strings.Index(styled, "<title>"))
	// No second head introduced.
	assert.Equal(t, 1, strings.Count(strings.ToLower(styled), "<head>"))
}

func TestInjectCSSAddsHeadAfterHTMLTag(t *testing.T) {
	html := "<html><body><p>hi</p></body></html>"
	styled := InjectCSS(html)

	assert.Contains(t, styled, "<head>")
	assert.Contains(t, styled, "<style>")
	assert.Less(t, strings.Index(styled, "<head>"), strings.Index(styled, "<body>"))
}

func TestInjectCSSWrapsBareFragment(t *testing.T) {
	styled := InjectCSS("<div><h1>Hello</h1></div>")

	assert.Contains(t, styled, "<!DOCTYPE html>")
	assert.Contains(t, styled, "content-container")
	assert.Contains(t, styled, "<div><h1>Hello</h1></div>")
	assert.Contains(t, styled, "<style>")
}

func TestInjectCSSEmptyContent(t *testing.T) {
	styled := InjectCSS("   ")
	assert.Contains(t, styled, "No content available")
}

func TestEnsureElementIDsAssignsSequentially(t *testing.T) {
	html := `<div><button>One</button><button class="x">Two</button><input type="text"><select><option>a</option></select></div>`
	out := EnsureElementIDs(html)

	assert.Contains(t, out, `id="btn-1"`)
	assert.Contains(t, out, `id="btn-2"`)
	assert.Contains(t, out, `id="input-1"`)
	assert.Contains(t, out, `id="select-1"`)
}

func TestEnsureElementIDsKeepsExisting(t *testing.T) {
	html := `<button id="submit-order">Buy</button><button>Other</button>`
	out := EnsureElementIDs(html)

	assert.Contains(t, out, `id="submit-order"`)
	assert.Contains(t, out, `id="btn-1"`)
	assert.NotContains(t, out, `id="btn-2"`)
}

func TestEnsureElementIDsNoInteractiveElements(t *testing.T) {
	html := "<div><p>static text</p></div>"
	assert.Equal(t, html, EnsureElementIDs(html))
}
