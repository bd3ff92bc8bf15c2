package htmlgen

import (
	"fmt"
	"regexp"
	"strings"
)

// baseCSS is the styling injected into every generated document so pages
// look consistent regardless of what the model produced. Mirrors the
// frontend's global stylesheet.
const baseCSS = `<style>
@import url("https://fonts.googleapis.com/css2?family=Inter:wght@300;400;500;600;700&display=swap");

* {
  margin: 0;
  padding: 0;
  box-sizing: border-box;
}

body {
  font-family: "Inter", sans-serif;
  background-color: #f8fafc;
  color: #1e293b;
  line-height: 1.6;
  padding: 20px;
  min-height: 100vh;
}

.content-container {
  max-width: 1200px;
  margin: 0 auto;
  background: white;
  border-radius: 12px;
  padding: 2rem;
  box-shadow: 0 1px 3px rgba(0, 0, 0, 0.1);
}

@keyframes fadeIn {
  from { opacity: 0; transform: translateY(10px); }
  to { opacity: 1; transform: translateY(0); }
}

@keyframes slideUp {
  from { opacity: 0; transform: translateY(20px); }
  to { opacity: 1; transform: translateY(0); }
}

.animate-fade-in { animation: fadeIn 0.5s ease-out; }
.animate-slide-up { animation: slideUp 0.6s ease-out; }

.response-card {
  background: white;
  border: 1px solid #e2e8f0;
  border-radius: 12px;
  padding: 1.5rem;
  margin-bottom: 1rem;
  box-shadow: 0 1px 3px rgba(0, 0, 0, 0.1);
  transition: all 0.2s ease;
}

.response-card:hover {
  box-shadow: 0 4px 12px rgba(0, 0, 0, 0.15);
}

.btn-primary {
  background: #3b82f6;
  color: white;
  border: none;
  border-radius: 8px;
  padding: 0.75rem 1.5rem;
  font-weight: 500;
  cursor: pointer;
  transition: all 0.2s ease;
  text-decoration: none;
  display: inline-block;
}

.btn-primary:hover:not(:disabled) { background: #2563eb; }
.btn-primary:disabled { background: #94a3b8; cursor: not-allowed; }

.btn-secondary {
  background: #f1f5f9;
  color: #475569;
  border: 1px solid #e2e8f0;
  border-radius: 8px;
  padding: 0.5rem 1rem;
  font-weight: 500;
  cursor: pointer;
  transition: all 0.2s ease;
  text-decoration: none;
  display: inline-block;
}

.btn-secondary:hover { background: #e2e8f0; }

.grid { display: grid; gap: 1rem; }
.grid-cols-1 { grid-template-columns: repeat(1, 1fr); }
.grid-cols-2 { grid-template-columns: repeat(2, 1fr); }
.grid-cols-3 { grid-template-columns: repeat(3, 1fr); }

@media (max-width: 768px) {
  .grid-cols-2, .grid-cols-3 { grid-template-columns: 1fr; }
}

h1, h2, h3, h4, h5, h6 {
  font-weight: 600;
  margin-bottom: 0.5rem;
  color: #1e293b;
}

h1 { font-size: 2rem; }
h2 { font-size: 1.5rem; }
h3 { font-size: 1.25rem; }
h4 { font-size: 1.125rem; }

p { margin-bottom: 1rem; color: #475569; }

img { max-width: 100%; height: auto; border-radius: 8px; }

ul, ol { margin-bottom: 1rem; padding-left: 1.5rem; }
li { margin-bottom: 0.25rem; color: #475569; }

input, textarea, select {
  width: 100%;
  padding: 0.75rem;
  border: 1px solid #e2e8f0;
  border-radius: 8px;
  font-family: inherit;
  transition: all 0.2s ease;
}

input:focus, textarea:focus, select:focus {
  outline: none;
  border-color: #3b82f6;
  box-shadow: 0 0 0 3px rgba(59, 130, 246, 0.1);
}

.text-center { text-align: center; }
.mb-2 { margin-bottom: 0.5rem; }
.mb-4 { margin-bottom: 1rem; }
.mt-2 { margin-top: 0.5rem; }
.mt-4 { margin-top: 1rem; }
.p-2 { padding: 0.5rem; }
.p-4 { padding: 1rem; }
.rounded { border-radius: 8px; }
.rounded-lg { border-radius: 12px; }
.shadow { box-shadow: 0 1px 3px rgba(0, 0, 0, 0.1); }
.shadow-lg { box-shadow: 0 4px 12px rgba(0, 0, 0, 0.15); }

@media (max-width: 640px) {
  body { padding: 10px; }
  .content-container { padding: 1rem; }
  h1 { font-size: 1.5rem; }
  h2 { font-size: 1.25rem; }
}
</style>`

// InjectCSS adds the base stylesheet to a generated document. Placement
// depends on what structure the model emitted: inside an existing head,
// inside a new head after the html tag, or by wrapping a bare fragment in a
// full document.
func InjectCSS(htmlContent string) string {
	if strings.TrimSpace(htmlContent) == "" {
		htmlContent = "<div>No content available</div>"
	}

	lower := strings.ToLower(htmlContent)

	if pos := strings.Index(lower, "<head>"); pos != -1 {
		insert := pos + len("<head>")
		return htmlContent[:insert] + "\n" + baseCSS + "\n" + htmlContent[insert:]
	}

	if pos := strings.Index(lower, "<html>"); pos != -1 {
		insert := pos + len("<html>")
		return htmlContent[:insert] + "\n<head>\n" + baseCSS + "\n</head>\n" + htmlContent[insert:]
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>MultiFlex</title>
    %s
</head>
<body>
    <div class="content-container animate-fade-in">
        %s
    </div>
</body>
</html>`, baseCSS, htmlContent)
}

var (
	buttonTagRe = regexp.MustCompile(`<button[^>]*>`)
	inputTagRe  = regexp.MustCompile(`<input[^>]*>`)
	selectTagRe = regexp.MustCompile(`<select[^>]*>`)
	hasIDRe     = regexp.MustCompile(`\bid\s*=`)
)

// EnsureElementIDs gives every interactive element a stable id so the
// frontend can report which one the user touched. Existing ids are kept;
// missing ones are assigned btn-N, input-N, select-N in document order.
func EnsureElementIDs(htmlContent string) string {
	htmlContent = assignIDs(htmlContent, buttonTagRe, "btn")
	htmlContent = assignIDs(htmlContent, inputTagRe, "input")
	htmlContent = assignIDs(htmlContent, selectTagRe, "select")
	return htmlContent
}

func assignIDs(htmlContent string, tagRe *regexp.Regexp, prefix string) string {
	count := 0
	return tagRe.ReplaceAllStringFunc(htmlContent, func(tag string) string {
		if hasIDRe.MatchString(tag) {
			return tag
		}
		count++
		return fmt.Sprintf(`%s id="%s-%d">`, tag[:len(tag)-1], prefix, count)
	})
}
