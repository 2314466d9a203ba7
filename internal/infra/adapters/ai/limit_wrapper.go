package ai

import (
	"context"
	"sync"

	"ai-session-gateway/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.CompletionAdapter = (*limitedCompletion)(nil)

type limitedCompletion struct {
	inner adapter.CompletionAdapter
	sem   chan struct{}
}

// NewLimitedCompletion caps concurrent backend calls. A streaming call holds
// its slot until the stream is closed or reaches its terminal signal.
func NewLimitedCompletion(inner adapter.CompletionAdapter, maxConcurrent int) adapter.CompletionAdapter {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedCompletion{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedCompletion) ListModels(ctx context.Context) ([]string, error) {
	return l.inner.ListModels(ctx)
}

func (l *limitedCompletion) StreamReply(ctx context.Context, model string, messages []adapter.Message) (adapter.ReplyStream, error) {
	l.sem <- struct{}{}
	stream, err := l.inner.StreamReply(ctx, model, messages)
	if err != nil {
		<-l.sem
		return nil, err
	}
	ls := &limitedStream{inner: stream}
	ls.release = func() { <-l.sem }
	return ls, nil
}

func (l *limitedCompletion) Summarize(ctx context.Context, model string, prompt string) (string, error) {
	l.sem <- struct{}{}
	defer func() { <-l.sem }()
	return l.inner.Summarize(ctx, model, prompt)
}

type limitedStream struct {
	inner   adapter.ReplyStream
	once    sync.Once
	release func()
}

func (s *limitedStream) Recv() (string, error) {
	frag, err := s.inner.Recv()
	if err != nil {
		s.once.Do(s.release)
	}
	return frag, err
}

func (s *limitedStream) Close() error {
	err := s.inner.Close()
	s.once.Do(s.release)
	return err
}
