package assistant

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/ward-portal/internal/locale"
	"github.com/wolfman30/ward-portal/pkg/logging"
)

const sessionSweepEvery = 10 * time.Minute

// Manager owns live sessions and mirrors their transcripts into a HistoryStore.
// Sessions not saved for longer than the history TTL are dropped from memory,
// matching the store's own expiry. Call Stop to end the sweeper.
type Manager struct {
	replier Replier
	store   HistoryStore
	now     func() time.Time
	idleTTL time.Duration
	logger  *logging.Logger

	mu       sync.Mutex
	sessions map[string]*liveSession
	stop     chan struct{}
	stopOnce sync.Once
}

type liveSession struct {
	session *Session
	savedAt time.Time
}

// expiringStore is implemented by stores that must be told to drop stale
// transcripts. Redis expires keys on its own.
type expiringStore interface {
	evictExpired() int
}

// NewManager creates a session manager.
func NewManager(replier Replier, store HistoryStore, logger *logging.Logger) *Manager {
	if replier == nil {
		panic("assistant: replier required")
	}
	if store == nil {
		store = NewMemoryHistoryStore()
	}
	if logger == nil {
		logger = logging.Default()
	}
	m := &Manager{
		replier:  replier,
		store:    store,
		now:      time.Now,
		idleTTL:  sessionTTL,
		logger:   logger,
		sessions: make(map[string]*liveSession),
		stop:     make(chan struct{}),
	}
	go m.sweep()
	return m
}

// Stop ends the idle-session sweeper.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// Create starts a session whose transcript holds only the welcome message.
func (m *Manager) Create(ctx context.Context, lang locale.Language) (*Session, error) {
	s := newSession(uuid.NewString(), lang, m.replier, m.now)
	at := m.now()
	m.mu.Lock()
	m.sessions[s.ID()] = &liveSession{session: s, savedAt: at}
	m.mu.Unlock()
	if _, err := s.saveTo(ctx, m.store, at); err != nil {
		m.mu.Lock()
		delete(m.sessions, s.ID())
		m.mu.Unlock()
		return nil, err
	}
	return s, nil
}

// Get returns a live session, restoring it from the store if this process
// has not seen it yet. A live session idle past the TTL is dropped and the
// lookup falls through to the store.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	live, ok := m.sessions[id]
	expired := ok && m.idleLocked(live, m.now())
	if expired {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	switch {
	case expired:
		live.session.Close()
	case ok:
		return live.session, nil
	}

	snap, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	savedAt := m.now()
	if snap.SavedAt != nil {
		savedAt = *snap.SavedAt
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if live, ok := m.sessions[id]; ok {
		return live.session, nil
	}
	s := restoreSession(snap, m.replier, m.now)
	m.sessions[id] = &liveSession{session: s, savedAt: savedAt}
	return s, nil
}

// Send forwards text to the session and persists the resulting transcript.
func (m *Manager) Send(ctx context.Context, id, text string) (Message, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return Message{}, err
	}
	reply, err := s.Send(ctx, text)
	if err != nil {
		return Message{}, err
	}
	m.persist(ctx, s)
	return reply, nil
}

// SetLanguage switches a session's reply language.
func (m *Manager) SetLanguage(ctx context.Context, id string, lang locale.Language) (*Session, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.SetLanguage(lang)
	m.persist(ctx, s)
	return s, nil
}

// Reset clears a session back to its welcome message.
func (m *Manager) Reset(ctx context.Context, id string) (*Session, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Reset()
	m.persist(ctx, s)
	return s, nil
}

// Close tears a session down and forgets its transcript.
func (m *Manager) Close(ctx context.Context, id string) error {
	m.mu.Lock()
	live, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		live.session.Close()
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	if !ok {
		m.logger.Debug("closed session not live in this process", "session_id", id)
	}
	return nil
}

func (m *Manager) persist(ctx context.Context, s *Session) {
	at := m.now()
	// Persist even if the request context was canceled after the reply landed.
	saved, err := s.saveTo(context.WithoutCancel(ctx), m.store, at)
	if err != nil && !errors.Is(err, context.Canceled) {
		m.logger.Warn("failed to persist chat history", "session_id", s.ID(), "error", err)
		return
	}
	if !saved {
		return
	}
	m.mu.Lock()
	if live, ok := m.sessions[s.ID()]; ok && live.session == s {
		live.savedAt = at
	}
	m.mu.Unlock()
}

func (m *Manager) idleLocked(live *liveSession, now time.Time) bool {
	return now.Sub(live.savedAt) > m.idleTTL
}

func (m *Manager) sweep() {
	ticker := time.NewTicker(sessionSweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.evictIdle()
		}
	}
}

// evictIdle closes and forgets every live session idle past the TTL.
func (m *Manager) evictIdle() int {
	now := m.now()
	var idle []*Session
	m.mu.Lock()
	for id, live := range m.sessions {
		if m.idleLocked(live, now) {
			delete(m.sessions, id)
			idle = append(idle, live.session)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
	if store, ok := m.store.(expiringStore); ok {
		store.evictExpired()
	}
	if len(idle) > 0 {
		m.logger.Debug("evicted idle chat sessions", "count", len(idle))
	}
	return len(idle)
}

func (m *Manager) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
