package assistant

import (
	"context"
	"sync"
)

// stubLLM returns a canned response and records every request.
type stubLLM struct {
	mu       sync.Mutex
	resp     LLMResponse
	err      error
	requests []LLMRequest
}

func (s *stubLLM) Complete(_ context.Context, req LLMRequest) (LLMResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return s.resp, s.err
}

func (s *stubLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// blockingLLM waits until released or until ctx ends.
type blockingLLM struct {
	started chan struct{}
	release chan struct{}
	text    string
}

func newBlockingLLM(text string) *blockingLLM {
	return &blockingLLM{started: make(chan struct{}, 8), release: make(chan struct{}), text: text}
}

func (b *blockingLLM) Complete(ctx context.Context, _ LLMRequest) (LLMResponse, error) {
	b.started <- struct{}{}
	select {
	case <-b.release:
		return LLMResponse{Text: b.text}, nil
	case <-ctx.Done():
		return LLMResponse{}, ctx.Err()
	}
}
