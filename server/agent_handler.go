package server

import (
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/multiflexhq/multiflex/agent"
	"go.uber.org/zap"
)

// AgentHandler serves the component synthesis endpoint.
type AgentHandler struct {
	uiAgent *agent.UIAgent
}

type promptRequest struct {
	Prompt string `json:"prompt"`
	UserID string `json:"user_id"`
}

// Generate synthesizes a component list for the prompt. The response is
// always a renderable description; synthesis failures surface as an error
// card, not an HTTP error.
func (h *AgentHandler) Generate(c *fiber.Ctx) error {
	var req promptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if strings.TrimSpace(req.Prompt) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "prompt is required"})
	}
	if req.UserID == "" {
		req.UserID = "anonymous"
	}

	logger.Info("Agent request",
		zap.String("userId", req.UserID),
		zap.Int("promptLen", len(req.Prompt)))

	desc := h.uiAgent.Run(c.UserContext(), req.Prompt, req.UserID)
	return c.JSON(desc)
}
