package assistant

import (
	"context"
	"sync"

	"github.com/shaigo/knowledgehub/internal/model"
)

// Transcript is the per-session, append-only chat log. It has no effect on
// classification; it exists for display. A repeated consecutive input is not
// reprocessed and not re-appended.
type Transcript struct {
	mu        sync.Mutex
	entries   []model.ChatMessage
	lastInput string
}

func (s *Service) transcript(sessionID string) *Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transcripts[sessionID]
	if !ok {
		t = &Transcript{}
		s.transcripts[sessionID] = t
	}
	return t
}

// Chat answers the question and records the (question, answer) pair in the
// session transcript, in submission order.
func (s *Service) Chat(ctx context.Context, sessionID string, q Query) string {
	t := s.transcript(sessionID)

	t.mu.Lock()
	defer t.mu.Unlock()

	if q.Text == t.lastInput && len(t.entries) > 0 {
		return t.entries[len(t.entries)-1].Content
	}

	reply := s.Answer(ctx, q)
	if reply == "" {
		return ""
	}

	t.entries = append(t.entries,
		model.ChatMessage{Role: model.ChatRoleCaller, Content: q.Text},
		model.ChatMessage{Role: model.ChatRoleAssistant, Content: reply},
	)
	t.lastInput = q.Text
	return reply
}

// History returns a copy of the session transcript for display.
func (s *Service) History(sessionID string) []model.ChatMessage {
	t := s.transcript(sessionID)

	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]model.ChatMessage, len(t.entries))
	copy(out, t.entries)
	return out
}

// Reset clears the session transcript. Called on logout and by the
// clear-chat action.
func (s *Service) Reset(sessionID string) {
	s.mu.Lock()
	delete(s.transcripts, sessionID)
	s.mu.Unlock()
}
