package prompts

import (
	"bytes"
	"embed"
	"text/template"
)

//go:embed templates/*
var templatesFS embed.FS

// render loads one embedded template and executes it with data.
func render(name string, data any) (string, error) {
	content, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// renderPair renders the system/user template pair sharing one data struct.
func renderPair(base string, data any) (systemPrompt, userPrompt string, err error) {
	systemPrompt, err = render(base+"_system.md", data)
	if err != nil {
		return "", "", err
	}

	userPrompt, err = render(base+"_user.md", data)
	if err != nil {
		return "", "", err
	}

	return systemPrompt, userPrompt, nil
}

// RouteDecisionPromptData feeds the retrieval-path classification prompt.
type RouteDecisionPromptData struct {
	Prompt       string
	HasDocuments bool
	AllowedPaths []string
	DefaultPath  string
}

func RenderRouteDecisionPrompt(data RouteDecisionPromptData) (systemPrompt, userPrompt string, err error) {
	return renderPair("route_decision", data)
}

// RenderGradeRelevancePrompt builds the binary relevance grading prompt.
func RenderGradeRelevancePrompt(question, document string) (systemPrompt, userPrompt string, err error) {
	data := struct {
		Question string
		Document string
	}{Question: question, Document: document}

	return renderPair("grade_relevance", data)
}

// DesignPlanPromptData feeds the stage-one creative direction prompt.
type DesignPlanPromptData struct {
	Prompt        string
	Theme         string
	LayoutSeed    int
	SearchContext string
	ImageContext  string
	RagSummary    string
}

func RenderDesignPlanPrompt(data DesignPlanPromptData) (systemPrompt, userPrompt string, err error) {
	return renderPair("design_plan", data)
}

// ImplementUIPromptData feeds the stage-two strict-JSON implementation prompt.
type ImplementUIPromptData struct {
	Prompt                string
	DesignPlan            string
	SearchSummary         string
	ImageSummary          string
	RagSummary            string
	UIImageContext        string
	GeneratedImageContext string
}

func RenderImplementUIPrompt(data ImplementUIPromptData) (systemPrompt, userPrompt string, err error) {
	return renderPair("implement_ui", data)
}

// SingleShotUIPromptData feeds the one-call synthesis prompt.
type SingleShotUIPromptData struct {
	Prompt        string
	SearchContext string
	ImageContext  string
	RagContext    string
}

func RenderSingleShotUIPrompt(data SingleShotUIPromptData) (systemPrompt, userPrompt string, err error) {
	return renderPair("single_shot_ui", data)
}

// InitialHTMLPromptData feeds the first HTML document generation.
type InitialHTMLPromptData struct {
	Prompt       string
	ImageContext string
}

func RenderInitialHTMLPrompt(data InitialHTMLPromptData) (systemPrompt, userPrompt string, err error) {
	return renderPair("initial_html", data)
}

// UpdateHTMLPromptData feeds a regeneration against the current document.
type UpdateHTMLPromptData struct {
	ActionDescription string
	CurrentHTML       string
}

func RenderUpdateHTMLPrompt(data UpdateHTMLPromptData) (systemPrompt, userPrompt string, err error) {
	return renderPair("update_html", data)
}
