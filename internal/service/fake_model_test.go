package service

import (
	"context"
	"sync"

	"ritcompass/internal/llm"
)

// fakeModel returns canned responses in order and records every call.
type fakeModel struct {
	cfg       llm.ModelConfig
	responses []string
	err       error
	block     bool

	mu    sync.Mutex
	calls [][]llm.Message
}

func newFakeModel(cfg llm.ModelConfig, responses ...string) *fakeModel {
	return &fakeModel{cfg: cfg, responses: responses}
}

func (f *fakeModel) Config() llm.ModelConfig {
	return f.cfg
}

func (f *fakeModel) Invoke(ctx context.Context, messages []llm.Message) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, messages)
	n := len(f.calls)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	if n > len(f.responses) {
		return "", context.Canceled
	}
	return f.responses[n-1], nil
}

func (f *fakeModel) Calls() [][]llm.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]llm.Message(nil), f.calls...)
}
