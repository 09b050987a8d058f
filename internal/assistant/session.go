package assistant

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/wolfman30/ward-portal/internal/locale"
)

// State is the session's request state.
type State string

const (
	StateIdle             State = "idle"
	StateAwaitingResponse State = "awaiting_response"
)

// Replier produces the assistant message for a user turn.
type Replier interface {
	Reply(ctx context.Context, history []Message, input string, lang locale.Language) Message
}

// Snapshot is the serializable view of a session.
type Snapshot struct {
	ID       string          `json:"id"`
	Lang     locale.Language `json:"lang"`
	State    State           `json:"state"`
	Messages []Message       `json:"messages"`

	// SavedAt is set on transcripts written to a HistoryStore.
	SavedAt *time.Time `json:"saved_at,omitempty"`
}

// Session is one citizen's chat. At most one request is in flight; each
// accepted user message gets exactly one assistant message unless the session
// is reset or closed first, in which case the late reply is dropped.
type Session struct {
	id      string
	replier Replier
	now     func() time.Time

	mu       sync.Mutex
	lang     locale.Language
	state    State
	messages []Message
	cancel   context.CancelFunc
	gen      uint64 // bumped by Reset and Close
	closed   bool
}

func newSession(id string, lang locale.Language, replier Replier, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	s := &Session{id: id, replier: replier, now: now, lang: lang, state: StateIdle}
	s.messages = []Message{s.welcome()}
	return s
}

func restoreSession(snap Snapshot, replier Replier, now func() time.Time) *Session {
	s := newSession(snap.ID, snap.Lang, replier, now)
	if len(snap.Messages) > 0 {
		s.messages = append([]Message(nil), snap.Messages...)
	}
	return s
}

func (s *Session) welcome() Message {
	return Message{Role: RoleAssistant, Text: locale.Strings(s.lang).Welcome, Timestamp: s.now().UTC()}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Snapshot copies the current transcript and state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:       s.id,
		Lang:     s.lang,
		State:    s.state,
		Messages: append([]Message(nil), s.messages...),
	}
}

// saveTo writes the transcript to store while holding the session lock, so a
// concurrent Close cannot delete the transcript between snapshot and write.
// A closed session is never written and saveTo reports false.
func (s *Session) saveTo(ctx context.Context, store HistoryStore, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, nil
	}
	snap := s.snapshotLocked()
	snap.SavedAt = &at
	return true, store.Save(ctx, snap)
}

// Send appends text as a user message, waits for the reply and appends it.
// A blank text is rejected, as is a second send while one is awaiting.
func (s *Session) Send(ctx context.Context, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyInput
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Message{}, ErrSessionClosed
	}
	if s.state == StateAwaitingResponse {
		s.mu.Unlock()
		return Message{}, ErrBusy
	}
	history := append([]Message(nil), s.messages...)
	s.messages = append(s.messages, Message{Role: RoleUser, Text: text, Timestamp: s.now().UTC()})
	s.state = StateAwaitingResponse
	lang := s.lang
	gen := s.gen
	reqCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	reply := s.replier.Reply(reqCtx, history, text, lang)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		if s.closed {
			return Message{}, ErrSessionClosed
		}
		return Message{}, ErrSessionReset
	}
	s.messages = append(s.messages, reply)
	s.state = StateIdle
	s.cancel = nil
	return reply, nil
}

// Reset cancels any in-flight request and clears the transcript back to the
// welcome message.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abortLocked()
	if !s.closed {
		s.messages = []Message{s.welcome()}
	}
}

// SetLanguage switches the reply language. While the transcript holds only
// the welcome message, that message is replaced with the new language's one.
func (s *Session) SetLanguage(lang locale.Language) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lang == lang {
		return
	}
	s.lang = lang
	if len(s.messages) == 1 && s.messages[0].Role == RoleAssistant {
		s.messages[0] = s.welcome()
	}
}

// Close tears the session down. An in-flight request is canceled and its
// reply is never appended.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abortLocked()
	s.closed = true
}

func (s *Session) abortLocked() {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.state = StateIdle
}
