package htmlgen

import (
	"context"
	"testing"
	"time"

	"github.com/multiflexhq/multiflex/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(client *mockLLMClient) *Controller {
	gen := NewGenerator(client, &mockImageSearcher{})
	return NewController(gen, session.NewStore(time.Minute))
}

func TestStartCreatesSessionWithDocument(t *testing.T) {
	client := &mockLLMClient{responses: []string{fenced("<div>first</div>")}}
	ctrl := newTestController(client)

	sess, err := ctrl.Start(context.Background(), "u1", "a castle page")
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "u1", sess.UserID)
	assert.Contains(t, sess.HTML, "first")
	assert.Len(t, sess.History, 2)

	stored, ok := ctrl.Get(sess.ID)
	require.True(t, ok)
	assert.Equal(t, sess.ID, stored.ID)
}

func TestStartRejectsEmptyPrompt(t *testing.T) {
	ctrl := newTestController(&mockLLMClient{})

	_, err := ctrl.Start(context.Background(), "u1", "   ")
	assert.Error(t, err)
}

func TestHandleInteractionUpdatesDocument(t *testing.T) {
	client := &mockLLMClient{responses: []string{
		fenced("<div>initial</div>"),
		fenced("<div>after click</div>"),
	}}
	ctrl := newTestController(client)

	sess, err := ctrl.Start(context.Background(), "u1", "page")
	require.NoError(t, err)

	html := ctrl.HandleInteraction(context.Background(), sess, Interaction{
		Action: "click", ElementID: "btn-1", ElementType: "button",
	})

	assert.Contains(t, html, "after click")
	assert.Equal(t, html, sess.HTML)
}

func TestFailedRegenerationKeepsDocument(t *testing.T) {
	client := &mockLLMClient{responses: []string{
		fenced("<div>initial</div>"),
		"no fence, regeneration fails",
	}}
	ctrl := newTestController(client)

	sess, err := ctrl.Start(context.Background(), "u1", "page")
	require.NoError(t, err)
	before := sess.HTML

	html := ctrl.HandleInteraction(context.Background(), sess, Interaction{
		Action: "click", ElementID: "btn-1", ElementType: "button",
	})

	assert.Equal(t, before, html)
	assert.Equal(t, before, sess.HTML)
	assert.Len(t, sess.History, 2, "failed regeneration must not grow history")
}

func TestSequentialEventsEachProduceUpdate(t *testing.T) {
	client := &mockLLMClient{responses: []string{
		fenced("<div>v0</div>"),
		fenced("<div>v1</div>"),
		fenced("<div>v2</div>"),
		fenced("<div>v3</div>"),
	}}
	ctrl := newTestController(client)

	sess, err := ctrl.Start(context.Background(), "u1", "page")
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		html := ctrl.HandleInteraction(context.Background(), sess, Interaction{
			Action: "click", ElementID: "btn-1", ElementType: "button",
		})
		assert.Contains(t, html, "v"+string(rune('0'+i)))
	}
}

func TestFollowUpMessagesCarrySessionHistory(t *testing.T) {
	client := &mockLLMClient{responses: []string{
		fenced("<div>v1</div>"),
		fenced("<div>v2</div>"),
		fenced("<div>v3</div>"),
	}}
	ctrl := newTestController(client)

	sess, err := ctrl.Start(context.Background(), "u1", "a castle page")
	require.NoError(t, err)
	ctrl.HandleMessage(context.Background(), sess, "make it darker")
	ctrl.HandleMessage(context.Background(), sess, "add a moat")

	require.Len(t, client.messages, 3)
	// Initial generation has no history yet.
	assert.Len(t, client.messages[0], 1)
	// First follow-up sees the opening turn pair plus its own message.
	require.Len(t, client.messages[1], 3)
	assert.Equal(t, "a castle page", client.messages[1][0].Content)
	// Second follow-up sees both earlier exchanges.
	require.Len(t, client.messages[2], 5)
	assert.Contains(t, client.messages[2][2].Content, "make it darker")
	assert.Len(t, sess.History, 6)
}

func TestHandleMessageEmptyIsNoOp(t *testing.T) {
	client := &mockLLMClient{responses: []string{fenced("<div>doc</div>")}}
	ctrl := newTestController(client)

	sess, err := ctrl.Start(context.Background(), "u1", "page")
	require.NoError(t, err)

	html := ctrl.HandleMessage(context.Background(), sess, "  ")
	assert.Equal(t, sess.HTML, html)
	assert.Equal(t, 1, client.callCount, "no model call for an empty message")
}

func TestCloseRemovesSession(t *testing.T) {
	client := &mockLLMClient{responses: []string{fenced("<div>doc</div>")}}
	ctrl := newTestController(client)

	sess, err := ctrl.Start(context.Background(), "u1", "page")
	require.NoError(t, err)

	ctrl.Close(sess.ID)
	_, ok := ctrl.Get(sess.ID)
	assert.False(t, ok)
}
