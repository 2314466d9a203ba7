package adapter

import "context"

// Message represents a chat message sent to the model backend.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ReplyStream is a lazy, finite sequence of text fragments.
//
// Recv returns the next fragment, io.EOF when the backend signals normal
// completion, or any other error as the distinct failure signal. A stream is
// not restartable; callers must Close it when done.
type ReplyStream interface {
	Recv() (string, error)
	Close() error
}

// CompletionAdapter is the port for the LLM backend. The backend is
// stateless: StreamReply receives the full running conversation each call.
type CompletionAdapter interface {
	// StreamReply starts a streaming completion. A call-time error is the
	// same failure class as a mid-stream Recv error.
	StreamReply(ctx context.Context, model string, messages []Message) (ReplyStream, error)

	// Summarize performs a single-shot completion for one text prompt.
	Summarize(ctx context.Context, model string, prompt string) (string, error)

	ListModels(ctx context.Context) ([]string, error)
}

// TokenCounter reports a best-effort token count for a piece of text.
type TokenCounter interface {
	Count(text string) int
}
