package ai

import (
	"context"
	"io"
	"testing"

	"ai-session-gateway/internal/domain/ports/adapter"
)

type countingAdapter struct {
	inFlight int
	max      int
}

func (c *countingAdapter) ListModels(ctx context.Context) ([]string, error) { return nil, nil }

func (c *countingAdapter) StreamReply(ctx context.Context, model string, messages []adapter.Message) (adapter.ReplyStream, error) {
	c.inFlight++
	if c.inFlight > c.max {
		c.max = c.inFlight
	}
	return &countingStream{owner: c}, nil
}

func (c *countingAdapter) Summarize(ctx context.Context, model string, prompt string) (string, error) {
	return "ok", nil
}

type countingStream struct {
	owner *countingAdapter
	done  bool
}

func (s *countingStream) Recv() (string, error) { return "", io.EOF }

func (s *countingStream) Close() error {
	if !s.done {
		s.done = true
		s.owner.inFlight--
	}
	return nil
}

func TestLimitedCompletionReleasesSlotOnClose(t *testing.T) {
	inner := &countingAdapter{}
	limited := NewLimitedCompletion(inner, 1)

	// The slot must come back after stream close, or the second call blocks
	// forever.
	for i := 0; i < 3; i++ {
		stream, err := limited.StreamReply(context.Background(), "m", nil)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if _, err := stream.Recv(); err != io.EOF {
			t.Fatalf("recv: %v", err)
		}
		if err := stream.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
	if inner.max > 1 {
		t.Errorf("max in-flight = %d, want 1", inner.max)
	}
}

func TestZeroLimitReturnsInner(t *testing.T) {
	inner := &countingAdapter{}
	if got := NewLimitedCompletion(inner, 0); got != adapter.CompletionAdapter(inner) {
		t.Error("expected inner adapter unchanged for non-positive limit")
	}
}
