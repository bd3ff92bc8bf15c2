package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/multiflexhq/multiflex/llm"
)

// Session is one live HTML generation session: the current document plus
// the conversation that produced it. One regeneration runs at a time;
// callers hold Lock around read-modify-write of HTML and History.
type Session struct {
	ID      string
	UserID  string
	HTML    string
	History []llm.Message

	mu sync.Mutex
}

func New(userID string) *Session {
	return &Session{
		ID:     uuid.New().String(),
		UserID: userID,
	}
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

func (s *Session) AddUserMessage(content string) {
	s.History = append(s.History, llm.Message{Role: "user", Content: content})
}

func (s *Session) AddAssistantMessage(content string) {
	s.History = append(s.History, llm.Message{Role: "assistant", Content: content})
}

// TrimHistory keeps the last maxUsers user turns plus whatever assistant
// messages follow them. Tool results do not count as user turns. With fewer
// user turns than the cap, history is unchanged.
func (s *Session) TrimHistory(maxUsers int) {
	if maxUsers <= 0 || len(s.History) == 0 {
		s.History = nil
		return
	}

	usersSeen := 0
	start := 0
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Role == "user" && !s.History[i].IsToolResult {
			usersSeen++
			if usersSeen == maxUsers {
				start = i
				break
			}
		}
	}

	s.History = s.History[start:]
}
