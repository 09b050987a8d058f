package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/ward-portal/internal/locale"
)

func newTestSession(client LLMClient, lang locale.Language) *Session {
	o := NewOrchestrator(client, DefaultOrchestratorConfig(), nil, nil)
	return newSession("s-1", lang, o, nil)
}

func TestSession_StartsWithWelcome(t *testing.T) {
	s := newTestSession(&stubLLM{}, locale.English)
	snap := s.Snapshot()
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, RoleAssistant, snap.Messages[0].Role)
	assert.Equal(t, locale.Strings(locale.English).Welcome, snap.Messages[0].Text)
	assert.Equal(t, StateIdle, snap.State)
}

func TestSession_OneReplyPerMessage(t *testing.T) {
	llm := &stubLLM{resp: LLMResponse{Text: "Dạ"}}
	s := newTestSession(llm, locale.Vietnamese)

	for i := 0; i < 3; i++ {
		_, err := s.Send(context.Background(), "câu hỏi")
		require.NoError(t, err)
	}
	snap := s.Snapshot()
	require.Len(t, snap.Messages, 7)
	for i := 1; i < len(snap.Messages); i += 2 {
		assert.Equal(t, RoleUser, snap.Messages[i].Role)
		assert.Equal(t, RoleAssistant, snap.Messages[i+1].Role)
	}
	assert.Equal(t, StateIdle, snap.State)

	// The history sent with the third request excludes the third question.
	last := llm.requests[2].Messages[0].Content
	assert.Contains(t, last, "User: câu hỏi\nAssistant: Dạ\nHãy phản hồi")
}

func TestSession_FailureStillAppendsOneMessage(t *testing.T) {
	s := newTestSession(&stubLLM{err: errors.New("boom")}, locale.English)
	reply, err := s.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, locale.Strings(locale.English).ApologyGeneric, reply.Text)

	snap := s.Snapshot()
	assert.Len(t, snap.Messages, 3)
	assert.Equal(t, StateIdle, snap.State)
}

func TestSession_RejectsBlankAndBusy(t *testing.T) {
	llm := newBlockingLLM("done")
	s := newTestSession(llm, locale.English)

	_, err := s.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyInput)

	done := make(chan error, 1)
	go func() {
		_, err := s.Send(context.Background(), "first")
		done <- err
	}()
	<-llm.started
	assert.Equal(t, StateAwaitingResponse, s.Snapshot().State)

	_, err = s.Send(context.Background(), "second")
	assert.ErrorIs(t, err, ErrBusy)

	close(llm.release)
	require.NoError(t, <-done)
	snap := s.Snapshot()
	assert.Len(t, snap.Messages, 3)
	assert.Equal(t, "done", snap.Messages[2].Text)
}

func TestSession_ResetCancelsInFlight(t *testing.T) {
	llm := newBlockingLLM("late")
	s := newTestSession(llm, locale.Vietnamese)

	done := make(chan error, 1)
	go func() {
		_, err := s.Send(context.Background(), "hello")
		done <- err
	}()
	<-llm.started
	s.Reset()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrSessionReset)
	case <-time.After(2 * time.Second):
		t.Fatal("reset did not cancel the in-flight request")
	}
	snap := s.Snapshot()
	require.Len(t, snap.Messages, 1, "late reply is discarded")
	assert.Equal(t, StateIdle, snap.State)

	// The session is usable again.
	close(llm.release)
	_, err := s.Send(context.Background(), "again")
	require.NoError(t, err)
	assert.Len(t, s.Snapshot().Messages, 3)
}

func TestSession_CloseDiscardsLateReply(t *testing.T) {
	llm := newBlockingLLM("late")
	s := newTestSession(llm, locale.Vietnamese)

	done := make(chan error, 1)
	go func() {
		_, err := s.Send(context.Background(), "hello")
		done <- err
	}()
	<-llm.started
	s.Close()

	assert.ErrorIs(t, <-done, ErrSessionClosed)
	assert.Len(t, s.Snapshot().Messages, 2, "no assistant message after close")

	_, err := s.Send(context.Background(), "after")
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSession_SetLanguageSwapsWelcomeOnly(t *testing.T) {
	s := newTestSession(&stubLLM{resp: LLMResponse{Text: "ok"}}, locale.Vietnamese)
	s.SetLanguage(locale.English)
	assert.Equal(t, locale.Strings(locale.English).Welcome, s.Snapshot().Messages[0].Text)

	_, err := s.Send(context.Background(), "hi")
	require.NoError(t, err)
	s.SetLanguage(locale.Vietnamese)
	assert.Equal(t, locale.Strings(locale.English).Welcome, s.Snapshot().Messages[0].Text)
	assert.Equal(t, locale.Vietnamese, s.Snapshot().Lang)
}
