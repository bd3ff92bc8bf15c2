package agent

import (
	"context"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/multiflexhq/multiflex/llm"
	"github.com/multiflexhq/multiflex/prompts"
	"github.com/multiflexhq/multiflex/rag"
	"github.com/multiflexhq/multiflex/ui"
	"go.uber.org/zap"
)

// Synthesizer is the one-call synthesis path: a single big-model request
// straight from accumulated knowledge to a component list. Cheaper than the
// two-stage path and the default for simple prompts.
type Synthesizer struct {
	client llm.LLMClient
}

func NewSynthesizer(client llm.LLMClient) *Synthesizer {
	return &Synthesizer{client: client}
}

func (s *Synthesizer) SingleShot(ctx context.Context, prompt string, k *Knowledge) (*ui.Description, error) {
	systemPrompt, userPrompt, err := prompts.RenderSingleShotUIPrompt(prompts.SingleShotUIPromptData{
		Prompt:        prompt,
		SearchContext: k.SearchContext(),
		ImageContext:  k.ImageContext(),
		RagContext:    k.RagContext(),
	})
	if err != nil {
		return nil, err
	}

	var response strings.Builder
	err = s.client.GenerateInference(ctx,
		[]llm.Message{{Role: "user", Content: userPrompt}},
		func(chunk string) error {
			response.WriteString(chunk)
			return nil
		},
		llm.WithSystemPrompt(systemPrompt),
		llm.WithTemperature(0.4),
		llm.WithMaxTokens(4096),
	)
	if err != nil {
		return nil, err
	}

	desc, err := ui.ParseDescription(response.String())
	if err != nil {
		return nil, err
	}

	desc.ResolveImages(k.GeneratedImages)
	desc.Truncate()
	return desc, nil
}

// UIAgent wires routing, retrieval and synthesis into the one entry point
// the server calls. Run never fails and never returns nil: the worst case is
// an error card describing what went wrong.
type UIAgent struct {
	router      *Router
	executor    *Executor
	designer    *Designer
	implementer *Implementer
	synthesizer *Synthesizer
	docs        rag.Retriever

	// twoStage selects the design-then-implement pipeline over the
	// single-call path.
	twoStage bool
}

func NewUIAgent(router *Router, executor *Executor, designer *Designer, implementer *Implementer, synthesizer *Synthesizer, docs rag.Retriever, twoStage bool) *UIAgent {
	return &UIAgent{
		router:      router,
		executor:    executor,
		designer:    designer,
		implementer: implementer,
		synthesizer: synthesizer,
		docs:        docs,
		twoStage:    twoStage,
	}
}

func (a *UIAgent) Run(ctx context.Context, prompt, userID string) *ui.Description {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ui.FallbackDescription(
			"Empty request",
			"Describe what you would like to see and an interface will be generated for it.",
			"Hint",
		)
	}

	hasDocuments := a.docs.HasDocuments(ctx, userID)
	route := a.router.Decide(ctx, prompt, hasDocuments)

	knowledge := NewKnowledge()
	knowledge.Merge(a.executor.Execute(ctx, route, prompt, userID))

	if a.twoStage {
		plan := a.designer.Plan(ctx, prompt, knowledge)
		return a.implementer.Implement(ctx, prompt, plan, knowledge)
	}

	desc, err := a.synthesizer.SingleShot(ctx, prompt, knowledge)
	if err != nil {
		logger.Error("Single shot synthesis failed", zap.Error(err))
		return ui.ErrorDescription(err)
	}
	return desc
}
