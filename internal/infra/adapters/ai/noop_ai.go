package ai

import (
	"context"
	"io"
	"time"

	"ai-session-gateway/internal/domain/ports/adapter"
)

var _ adapter.CompletionAdapter = (*NoopAdapter)(nil)

// NoopAdapter implements adapter.CompletionAdapter for local/dev runs.
// It streams a canned reply instead of calling a real backend.
type NoopAdapter struct{}

func NewNoopAdapter() *NoopAdapter {
	return &NoopAdapter{}
}

func (a *NoopAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{"noop-model"}, nil
}

func (a *NoopAdapter) StreamReply(ctx context.Context, model string, messages []adapter.Message) (adapter.ReplyStream, error) {
	return &noopStream{fragments: []string{"This is ", "a noop ", "AI response."}}, nil
}

func (a *NoopAdapter) Summarize(ctx context.Context, model string, prompt string) (string, error) {
	select {
	case <-time.After(50 * time.Millisecond):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return "This is a noop summary.", nil
}

type noopStream struct {
	fragments []string
	pos       int
}

func (s *noopStream) Recv() (string, error) {
	if s.pos >= len(s.fragments) {
		return "", io.EOF
	}
	f := s.fragments[s.pos]
	s.pos++
	return f, nil
}

func (s *noopStream) Close() error { return nil }
