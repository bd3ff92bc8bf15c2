package htmlgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/multiflexhq/multiflex/llm"
	"github.com/multiflexhq/multiflex/prompts"
	"github.com/multiflexhq/multiflex/search"
	"go.uber.org/zap"
)

// Interaction is one user action on a generated page, as reported by the
// frontend over the session socket.
type Interaction struct {
	Action      string `json:"action"`
	ElementID   string `json:"element_id"`
	ElementType string `json:"element_type"`
	Value       string `json:"value"`
}

// Describe renders the interaction as the sentence fragment the
// regeneration prompt expects, e.g. "clicked on the button element with id
// 'btn-2'".
func (i Interaction) Describe() string {
	action := i.Action
	if action == "" {
		action = "click"
	}
	elementType := i.ElementType
	if elementType == "" {
		elementType = "unknown"
	}

	var desc string
	switch {
	case action == "click":
		desc = fmt.Sprintf("clicked on the %s element with id '%s'", elementType, i.ElementID)
	case action == "change" && i.Value != "":
		desc = fmt.Sprintf("changed the %s element with id '%s' to value '%s'", elementType, i.ElementID, i.Value)
	case action == "input" && i.Value != "":
		desc = fmt.Sprintf("typed '%s' into the %s element with id '%s'", i.Value, elementType, i.ElementID)
	case action == "submit":
		desc = fmt.Sprintf("submitted the %s with id '%s'", elementType, i.ElementID)
	default:
		desc = fmt.Sprintf("performed action '%s' on the %s element with id '%s'", action, elementType, i.ElementID)
	}

	if i.Value != "" && action != "change" && action != "input" {
		desc += fmt.Sprintf(". The new value is: %s", i.Value)
	}
	return desc
}

// Generator produces full HTML documents with the big model. Initial builds
// the first document for a prompt; Update regenerates against the current
// one after a user action or follow-up message.
type Generator struct {
	client llm.LLMClient
	images search.ImageSearcher
}

func NewGenerator(client llm.LLMClient, images search.ImageSearcher) *Generator {
	return &Generator{client: client, images: images}
}

// Initial generates the first document. Image search runs first so the
// prompt can offer real URLs; its failure only costs imagery. A response
// without a usable fence degrades to the fallback fragment rather than an
// error, so a session always starts with something on screen.
func (g *Generator) Initial(ctx context.Context, prompt string) (string, error) {
	imageContext := ""
	if results, err := g.images.SearchImages(ctx, prompt); err != nil {
		logger.Error("Image search for HTML generation failed", zap.Error(err))
	} else {
		var b strings.Builder
		for i, img := range results {
			if i >= 6 {
				break
			}
			fmt.Fprintf(&b, "%d. %s - %s\n", i+1, img.Title, img.ImageURL)
		}
		imageContext = strings.TrimSpace(b.String())
	}

	systemPrompt, userPrompt, err := prompts.RenderInitialHTMLPrompt(prompts.InitialHTMLPromptData{
		Prompt:       prompt,
		ImageContext: imageContext,
	})
	if err != nil {
		return "", err
	}

	raw, err := g.generate(ctx, nil, systemPrompt, userPrompt)
	if err != nil {
		return "", err
	}

	body, ok := ExtractHTML(raw)
	if !ok {
		logger.Error("Initial HTML response had no code fence, using fallback")
		body = fallbackHTML
	}

	return EnsureElementIDs(InjectCSS(body)), nil
}

// Update regenerates the document after a user action. The session's trimmed
// history precedes the new turn so the model sees how the page evolved. Any
// failure is an error; the caller keeps the current document in that case.
func (g *Generator) Update(ctx context.Context, history []llm.Message, actionDescription, currentHTML string) (string, error) {
	systemPrompt, userPrompt, err := prompts.RenderUpdateHTMLPrompt(prompts.UpdateHTMLPromptData{
		ActionDescription: actionDescription,
		CurrentHTML:       currentHTML,
	})
	if err != nil {
		return "", err
	}

	raw, err := g.generate(ctx, history, systemPrompt, userPrompt)
	if err != nil {
		return "", err
	}

	body, ok := ExtractHTML(raw)
	if !ok {
		return "", fmt.Errorf("update response had no html code fence")
	}

	return EnsureElementIDs(InjectCSS(body)), nil
}

func (g *Generator) generate(ctx context.Context, history []llm.Message, systemPrompt, userPrompt string) (string, error) {
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: userPrompt})

	var response strings.Builder
	err := g.client.GenerateInference(ctx,
		messages,
		func(chunk string) error {
			response.WriteString(chunk)
			return nil
		},
		llm.WithSystemPrompt(systemPrompt),
		llm.WithTemperature(0.7),
		llm.WithMaxTokens(8192),
	)
	if err != nil {
		return "", err
	}
	return response.String(), nil
}
