package assistant

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/ward-portal/internal/locale"
)

func newRedisHistory(t *testing.T) (*RedisHistoryStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisHistoryStore(client, 0), mr
}

func TestRedisHistoryStore_RoundTrip(t *testing.T) {
	store, mr := newRedisHistory(t)
	ctx := context.Background()

	snap := Snapshot{ID: "abc", Lang: locale.English, State: StateIdle, Messages: []Message{
		{Role: RoleAssistant, Text: "Welcome", Timestamp: time.Date(2026, 10, 15, 2, 0, 0, 0, time.UTC)},
	}}
	require.NoError(t, store.Save(ctx, snap))
	assert.True(t, mr.Exists("chat_session:abc"))
	assert.Equal(t, sessionTTL, mr.TTL("chat_session:abc"))

	got, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Load(ctx, "abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisHistoryStore_Expires(t *testing.T) {
	store, mr := newRedisHistory(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, Snapshot{ID: "x"}))
	mr.FastForward(sessionTTL + time.Second)
	_, err := store.Load(ctx, "x")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_LifecyclePersists(t *testing.T) {
	store, _ := newRedisHistory(t)
	llm := &stubLLM{resp: LLMResponse{Text: "Dạ"}}
	replier := NewOrchestrator(llm, DefaultOrchestratorConfig(), nil, nil)
	m := NewManager(replier, store, nil)
	ctx := context.Background()

	s, err := m.Create(ctx, locale.Vietnamese)
	require.NoError(t, err)

	_, err = m.Send(ctx, s.ID(), "Xin chào")
	require.NoError(t, err)

	stored, err := store.Load(ctx, s.ID())
	require.NoError(t, err)
	assert.Len(t, stored.Messages, 3)

	// A second process restores the transcript from the store.
	other := NewManager(replier, store, nil)
	restored, err := other.Get(ctx, s.ID())
	require.NoError(t, err)
	assert.Len(t, restored.Snapshot().Messages, 3)

	_, err = m.Reset(ctx, s.ID())
	require.NoError(t, err)
	stored, err = store.Load(ctx, s.ID())
	require.NoError(t, err)
	assert.Len(t, stored.Messages, 1)

	require.NoError(t, m.Close(ctx, s.ID()))
	_, err = m.Get(ctx, s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_UnknownSession(t *testing.T) {
	m := NewManager(NewOrchestrator(&stubLLM{}, DefaultOrchestratorConfig(), nil, nil), nil, nil)
	_, err := m.Send(context.Background(), "missing", "hi")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.SetLanguage(context.Background(), "missing", locale.English)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_SetLanguage(t *testing.T) {
	m := NewManager(NewOrchestrator(&stubLLM{}, DefaultOrchestratorConfig(), nil, nil), nil, nil)
	ctx := context.Background()
	s, err := m.Create(ctx, locale.Vietnamese)
	require.NoError(t, err)

	_, err = m.SetLanguage(ctx, s.ID(), locale.English)
	require.NoError(t, err)
	snap := s.Snapshot()
	assert.Equal(t, locale.English, snap.Lang)
	assert.Equal(t, locale.Strings(locale.English).Welcome, snap.Messages[0].Text)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestManager_IdleSessionsExpireWithRedisHistory(t *testing.T) {
	store, mr := newRedisHistory(t)
	clock := &testClock{now: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}
	m := NewManager(NewOrchestrator(&stubLLM{resp: LLMResponse{Text: "Dạ"}}, DefaultOrchestratorConfig(), nil, nil), store, nil)
	t.Cleanup(m.Stop)
	m.now = clock.Now
	ctx := context.Background()

	ids := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		s, err := m.Create(ctx, locale.Vietnamese)
		require.NoError(t, err)
		ids = append(ids, s.ID())
	}
	require.Equal(t, 200, m.size())

	clock.Advance(48 * time.Hour)
	mr.FastForward(48 * time.Hour)

	_, err := m.Get(ctx, ids[0])
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Send(ctx, ids[1], "Xin chào")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.Equal(t, 198, m.evictIdle())
	assert.Zero(t, m.size())
}

func TestManager_ActiveSessionOutlivesIdleOnes(t *testing.T) {
	store := NewMemoryHistoryStore()
	clock := &testClock{now: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}
	store.now = clock.Now
	m := NewManager(NewOrchestrator(&stubLLM{resp: LLMResponse{Text: "Dạ"}}, DefaultOrchestratorConfig(), nil, nil), store, nil)
	t.Cleanup(m.Stop)
	m.now = clock.Now
	ctx := context.Background()

	idle, err := m.Create(ctx, locale.Vietnamese)
	require.NoError(t, err)
	active, err := m.Create(ctx, locale.Vietnamese)
	require.NoError(t, err)

	clock.Advance(20 * time.Hour)
	_, err = m.Send(ctx, active.ID(), "Xin chào")
	require.NoError(t, err)
	clock.Advance(5 * time.Hour)

	assert.Equal(t, 1, m.evictIdle())
	assert.Equal(t, 1, store.count(), "expired transcripts leave the memory store too")

	_, err = m.Get(ctx, idle.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = idle.Send(ctx, "còn đó không?")
	assert.ErrorIs(t, err, ErrSessionClosed)

	got, err := m.Get(ctx, active.ID())
	require.NoError(t, err)
	assert.Len(t, got.Snapshot().Messages, 3)
}

func TestMemoryHistoryStore_Expires(t *testing.T) {
	store := NewMemoryHistoryStore()
	clock := &testClock{now: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}
	store.now = clock.Now
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Snapshot{ID: "x"}))
	clock.Advance(sessionTTL)
	_, err := store.Load(ctx, "x")
	require.NoError(t, err)

	clock.Advance(time.Second)
	_, err = store.Load(ctx, "x")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 1, store.evictExpired())
	assert.Zero(t, store.count())
}

func TestManager_CloseWinsOverLatePersist(t *testing.T) {
	store, _ := newRedisHistory(t)
	m := NewManager(NewOrchestrator(&stubLLM{resp: LLMResponse{Text: "Dạ"}}, DefaultOrchestratorConfig(), nil, nil), store, nil)
	t.Cleanup(m.Stop)
	ctx := context.Background()

	s, err := m.Create(ctx, locale.Vietnamese)
	require.NoError(t, err)
	require.NoError(t, m.Close(ctx, s.ID()))

	// A request that held s before Close finishes afterwards.
	m.persist(ctx, s)

	_, err = store.Load(ctx, s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(ctx, s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_StopIsIdempotent(t *testing.T) {
	m := NewManager(NewOrchestrator(&stubLLM{}, DefaultOrchestratorConfig(), nil, nil), nil, nil)
	m.Stop()
	m.Stop()
}
