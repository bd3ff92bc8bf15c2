package htmlgen

import "strings"

// fallbackHTML is returned when the model produced nothing usable.
const fallbackHTML = `<div class="response-card">
  <h2>Nothing to show yet</h2>
  <p>The page could not be generated for this request. Please try rephrasing it.</p>
</div>`

// ExtractHTML pulls the document out of a fenced model response. The fence
// is required: a response without one is treated as a failed generation and
// ok is false. Callers decide whether to fall back or keep the previous
// document.
func ExtractHTML(raw string) (string, bool) {
	start := strings.Index(raw, "```html")
	if start == -1 {
		return "", false
	}
	start += len("```html")

	body := raw[start:]
	if end := strings.Index(body, "```"); end != -1 {
		body = body[:end]
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return "", false
	}
	return body, true
}
