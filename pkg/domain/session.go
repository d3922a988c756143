package domain

import "fmt"

// Session is the per-user conversation record: the speaker-tagged
// history used as model context, and the single pending slot carried
// between turns. History is append-only and unbounded; callers that
// need a cap can truncate before saving without breaking the engine.
type Session struct {
	UserID   string       `json:"user_id"`
	UserName string       `json:"user_name"`
	History  []string     `json:"history"`
	Pending  PendingState `json:"pending"`
}

// NewSession creates an empty session for a user.
func NewSession(userID, userName string) *Session {
	return &Session{
		UserID:   userID,
		UserName: userName,
		History:  []string{},
	}
}

// AppendUser records a user utterance in the history.
func (s *Session) AppendUser(utterance string) {
	s.History = append(s.History, fmt.Sprintf("%s: %s", s.UserName, utterance))
}

// AppendAssistant records an assistant message in the history.
func (s *Session) AppendAssistant(name, message string) {
	s.History = append(s.History, fmt.Sprintf("%s: %s", name, message))
}

// ClearPending resets the carried-over state.
func (s *Session) ClearPending() {
	s.Pending = PendingState{}
}
