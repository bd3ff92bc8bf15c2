package htmlgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/multiflexhq/multiflex/session"
	"go.uber.org/zap"
)

// maxHistoryUsers bounds session history to the recent user turns.
const maxHistoryUsers = 10

// Controller drives iterative HTML sessions. Start creates a session with
// its first document; HandleMessage and HandleInteraction regenerate it.
// Events within a session are processed one at a time; a failed
// regeneration leaves the current document untouched.
type Controller struct {
	gen      *Generator
	sessions *session.Store
}

func NewController(gen *Generator, sessions *session.Store) *Controller {
	return &Controller{gen: gen, sessions: sessions}
}

// Start opens a session for the prompt and generates the initial document.
// An empty prompt is a setup failure, not a degraded generation.
func (c *Controller) Start(ctx context.Context, userID, prompt string) (*session.Session, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("prompt must not be empty")
	}

	html, err := c.gen.Initial(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("initial generation: %w", err)
	}

	sess := session.New(userID)
	sess.HTML = html
	sess.AddUserMessage(prompt)
	sess.AddAssistantMessage(html)
	c.sessions.Put(sess)

	logger.Info("Session started",
		zap.String("sessionId", sess.ID),
		zap.String("userId", userID))
	return sess, nil
}

// Get looks up a live session by id.
func (c *Controller) Get(sessionID string) (*session.Session, bool) {
	return c.sessions.Get(sessionID)
}

// Close drops a session. In-flight regenerations finish against their own
// reference; the result is simply no longer reachable.
func (c *Controller) Close(sessionID string) {
	c.sessions.Delete(sessionID)
}

// HandleMessage regenerates the document for a follow-up chat message and
// returns the current document, updated or not.
func (c *Controller) HandleMessage(ctx context.Context, sess *session.Session, message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return sess.HTML
	}

	return c.regenerate(ctx, sess, message,
		fmt.Sprintf("asked: %s", message))
}

// HandleInteraction regenerates the document for a UI event.
func (c *Controller) HandleInteraction(ctx context.Context, sess *session.Session, in Interaction) string {
	desc := in.Describe()
	return c.regenerate(ctx, sess, desc, desc)
}

// regenerate runs one update against the session's current document. On
// failure the document is returned unchanged; the session stays usable.
func (c *Controller) regenerate(ctx context.Context, sess *session.Session, historyEntry, actionDescription string) string {
	sess.Lock()
	defer sess.Unlock()

	updated, err := c.gen.Update(ctx, sess.History, actionDescription, sess.HTML)
	if err != nil {
		logger.Error("Regeneration failed, keeping current document",
			zap.String("sessionId", sess.ID), zap.Error(err))
		return sess.HTML
	}

	sess.HTML = updated
	sess.AddUserMessage(historyEntry)
	sess.AddAssistantMessage(updated)
	sess.TrimHistory(maxHistoryUsers)
	c.sessions.Put(sess)

	logger.Info("Session document updated",
		zap.String("sessionId", sess.ID),
		zap.Int("htmlBytes", len(updated)))
	return updated
}
