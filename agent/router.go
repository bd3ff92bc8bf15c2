package agent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/multiflexhq/multiflex/llm"
	"github.com/multiflexhq/multiflex/prompts"
	"go.uber.org/zap"
)

// Router classifies a prompt onto a retrieval Route with the mini model.
// Decide never fails: every error path degrades to DefaultRoute, so a broken
// classifier costs retrieval precision, not availability.
type Router struct {
	client llm.LLMClient
}

func NewRouter(client llm.LLMClient) *Router {
	return &Router{client: client}
}

func (r *Router) Decide(ctx context.Context, prompt string, hasDocuments bool) Route {
	systemPrompt, userPrompt, err := prompts.RenderRouteDecisionPrompt(prompts.RouteDecisionPromptData{
		Prompt:       prompt,
		HasDocuments: hasDocuments,
		AllowedPaths: RouteNames(),
		DefaultPath:  string(DefaultRoute),
	})
	if err != nil {
		logger.Error("Failed to render route decision prompt", zap.Error(err))
		return DefaultRoute
	}

	var response strings.Builder
	err = r.client.GenerateInference(ctx,
		[]llm.Message{{Role: "user", Content: userPrompt}},
		func(chunk string) error {
			response.WriteString(chunk)
			return nil
		},
		llm.WithSystemPrompt(systemPrompt),
		llm.WithTemperature(0.0),
		llm.WithMaxTokens(256),
	)
	if err != nil {
		logger.Error("Route decision call failed", zap.Error(err))
		return DefaultRoute
	}

	route, reasoning, ok := parseRouteDecision(response.String())
	if !ok {
		logger.Error("Route decision is not a valid path",
			zap.String("response", response.String()))
		return DefaultRoute
	}

	// A document route without documents would retrieve nothing. Redirect
	// to the default instead of synthesizing from an empty store.
	if route.NeedsDocuments() && !hasDocuments {
		logger.Info("Document route chosen without documents, using default",
			zap.String("chosen", string(route)))
		return DefaultRoute
	}

	logger.Info("Route decided",
		zap.String("route", string(route)),
		zap.String("reasoning", reasoning))
	return route
}

func parseRouteDecision(response string) (Route, string, bool) {
	var decision struct {
		Path      string `json:"path"`
		Reasoning string `json:"reasoning"`
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || start >= end {
		return "", "", false
	}

	if err := json.Unmarshal([]byte(response[start:end+1]), &decision); err != nil {
		return "", "", false
	}

	route, ok := ParseRoute(strings.TrimSpace(decision.Path))
	return route, decision.Reasoning, ok
}
