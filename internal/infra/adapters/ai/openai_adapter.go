// File: internal/infra/adapters/ai/openai_adapter.go
package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ai-session-gateway/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.CompletionAdapter = (*OpenAIAdapter)(nil)

// OpenAIAdapter implements adapter.CompletionAdapter against the Chat
// Completions API (OpenAI or any compatible gateway). Streaming uses
// stream:true with SSE-framed chunks. The HTTP client carries no timeout:
// a hung backend call blocks its session, never other sessions.
type OpenAIAdapter struct {
	apiKey string
	base   string // e.g., https://api.openai.com/v1
	model  string
	client *http.Client
}

func NewOpenAIAdapter(apiKey, base, model string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-4.1-mini"
	}
	return &OpenAIAdapter{
		apiKey: apiKey,
		base:   strings.TrimRight(base, "/"),
		model:  model,
		client: &http.Client{},
	}, nil
}

func (o *OpenAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{o.model}, nil
}

func (o *OpenAIAdapter) StreamReply(ctx context.Context, model string, messages []adapter.Message) (adapter.ReplyStream, error) {
	if model == "" {
		model = o.model
	}
	reqBody := struct {
		Model    string            `json:"model"`
		Messages []adapter.Message `json:"messages"`
		Stream   bool              `json:"stream"`
	}{Model: model, Messages: messages, Stream: true}

	resp, err := o.post(ctx, reqBody)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("openai http %d", resp.StatusCode)
	}
	return &openAIStream{body: resp.Body, rd: bufio.NewReader(resp.Body)}, nil
}

func (o *OpenAIAdapter) Summarize(ctx context.Context, model string, prompt string) (string, error) {
	if model == "" {
		model = o.model
	}
	reqBody := struct {
		Model    string            `json:"model"`
		Messages []adapter.Message `json:"messages"`
	}{Model: model, Messages: []adapter.Message{{Role: "user", Content: prompt}}}

	resp, err := o.post(ctx, reqBody)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai http %d", resp.StatusCode)
	}

	var payload struct {
		Choices []struct {
			Message adapter.Message `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	for _, c := range payload.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, nil
		}
	}
	return "", errors.New("no choice content")
}

func (o *OpenAIAdapter) post(ctx context.Context, body any) (*http.Response, error) {
	b, _ := json.Marshal(body)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, o.base+"/chat/completions", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	return o.client.Do(req)
}

// openAIStream decodes "data: {...}" SSE lines into content deltas.
type openAIStream struct {
	body io.ReadCloser
	rd   *bufio.Reader
}

var _ adapter.ReplyStream = (*openAIStream)(nil)

func (s *openAIStream) Recv() (string, error) {
	for {
		line, err := s.rd.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				// Some gateways end the body without a [DONE] sentinel.
				return "", io.EOF
			}
			return "", fmt.Errorf("openai stream read: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)
		if data == "[DONE]" {
			return "", io.EOF
		}

		var chunk struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
			Error *struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return "", fmt.Errorf("openai stream decode: %w", err)
		}
		if chunk.Error != nil {
			return "", fmt.Errorf("openai stream: %s", chunk.Error.Message)
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		return chunk.Choices[0].Delta.Content, nil
	}
}

func (s *openAIStream) Close() error { return s.body.Close() }
