// File: internal/usecase/session_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ai-session-gateway/internal/domain"
	"ai-session-gateway/internal/domain/model"
	"ai-session-gateway/internal/domain/ports/adapter"
	"ai-session-gateway/internal/domain/ports/repository"
	"ai-session-gateway/internal/infra/metrics"
)

const (
	replyFallback   = "AI response unavailable due to LLM quota or API error."
	summaryFallback = "Summary generation failed due to LLM quota or API error."

	summaryPromptTemplate = `
Summarize the following conversation in 3–4 concise sentences.
Focus on the user's intent and how the AI responded.

Conversation:
%s
`
)

// Transport is the message-oriented connection boundary of one session.
// Receive blocks until the peer sends one text message; the peer closing the
// connection surfaces as domain.ErrDisconnected, never as a generic error.
type Transport interface {
	Receive(ctx context.Context) (string, error)
	Send(ctx context.Context, fragment string) error
}

// Compile-time check
var _ SessionUseCase = (*sessionUC)(nil)

// SessionUseCase drives one connection from accept to disconnect-triggered
// summarization: upsert record, seed conversation, turn loop, then summary
// and close. A backend failure never ends the session; a store failure does.
type SessionUseCase interface {
	Run(ctx context.Context, sessionID string, t Transport) error
}

type sessionUC struct {
	store  repository.SessionRepository
	ai     adapter.CompletionAdapter
	tokens adapter.TokenCounter
	model  string
	log    *zerolog.Logger
}

func NewSessionUseCase(store repository.SessionRepository, ai adapter.CompletionAdapter, tokens adapter.TokenCounter, model string, logger *zerolog.Logger) *sessionUC {
	return &sessionUC{store: store, ai: ai, tokens: tokens, model: model, log: logger}
}

func (u *sessionUC) Run(ctx context.Context, sessionID string, t Transport) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domain.ErrInvalidArgument
	}
	log := u.log.With().Str("session_id", sessionID).Logger()

	startedAt := time.Now().UTC()
	if err := u.store.UpsertSession(ctx, sessionID, startedAt); err != nil {
		metrics.IncStoreError("upsert_session")
		return fmt.Errorf("upsert session: %w", err)
	}
	conv := model.NewConversation()
	metrics.IncSessionStarted()
	log.Info().Msg("session started")

	for {
		userText, err := t.Receive(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrDisconnected) {
				log.Info().Msg("session disconnected")
				break
			}
			return fmt.Errorf("receive: %w", err)
		}
		if err := u.handleTurn(ctx, sessionID, conv, t, userText, &log); err != nil {
			return err
		}
		metrics.IncTurn()
	}

	// Disconnect is the trigger, not a competing event: summarization always
	// runs, even for a session with zero turns.
	return u.finalize(ctx, sessionID, startedAt, &log)
}

// handleTurn runs one request/response/persist cycle:
// PERSIST_USER -> STREAM_REPLY -> PERSIST_REPLY. Exactly one user_message and
// one ai_message event are appended per accepted inbound message, with the
// fallback text standing in for the reply when the backend fails.
func (u *sessionUC) handleTurn(ctx context.Context, sessionID string, conv *model.Conversation, t Transport, userText string, log *zerolog.Logger) error {
	ev := model.NewSessionEvent(sessionID, model.EventUserMessage, userText, u.countTokens(userText))
	if err := u.store.AppendEvent(ctx, ev); err != nil {
		metrics.IncStoreError("append_event")
		return fmt.Errorf("append user event: %w", err)
	}
	conv.Append(model.RoleUser, userText)

	reply := u.streamReply(ctx, conv, t, log)

	tokens := u.countTokens(reply)
	aiEv := model.NewSessionEvent(sessionID, model.EventAIMessage, reply, tokens)
	if err := u.store.AppendEvent(ctx, aiEv); err != nil {
		metrics.IncStoreError("append_event")
		return fmt.Errorf("append ai event: %w", err)
	}
	conv.Append(model.RoleAssistant, reply)
	metrics.AddTokensOut(tokens)
	return nil
}

// streamReply forwards fragments to the connection while assembling the full
// reply. Any backend failure, including before the first fragment, discards
// the partial buffer and substitutes the fixed fallback text. Fragments
// already forwarded are not retracted; a failed Send stops forwarding but the
// stream is drained so the durable record is complete-or-fallback, never
// truncated.
func (u *sessionUC) streamReply(ctx context.Context, conv *model.Conversation, t Transport, log *zerolog.Logger) string {
	msgs := make([]adapter.Message, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		msgs = append(msgs, adapter.Message{Role: m.Role, Content: m.Content})
	}

	start := time.Now()
	stream, err := u.ai.StreamReply(ctx, u.model, msgs)
	if err != nil {
		metrics.ObserveAICall("stream", time.Since(start), false)
		metrics.IncFallback("reply")
		log.Warn().Err(err).Msg("streaming call failed, using fallback reply")
		return replyFallback
	}
	defer stream.Close()

	var full strings.Builder
	forwarded := 0
	sendBroken := false
	for {
		frag, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			metrics.ObserveAICall("stream", time.Since(start), true)
			metrics.AddFragments(forwarded)
			return full.String()
		}
		if err != nil {
			metrics.ObserveAICall("stream", time.Since(start), false)
			metrics.AddFragments(forwarded)
			metrics.IncFallback("reply")
			log.Warn().Err(err).Int("fragments_sent", forwarded).Msg("stream failed mid-reply, using fallback reply")
			return replyFallback
		}

		full.WriteString(frag)
		if !sendBroken {
			if serr := t.Send(ctx, frag); serr != nil {
				sendBroken = true
				log.Debug().Err(serr).Msg("fragment send failed, draining stream without forwarding")
			} else {
				forwarded++
			}
		}
	}
}

// finalize is the SUMMARIZING -> CLOSED path: render the full durable
// transcript, ask the backend for a summary, and close the record. The
// summary degrades to fallback text; store failures propagate.
func (u *sessionUC) finalize(ctx context.Context, sessionID string, startedAt time.Time, log *zerolog.Logger) error {
	events, err := u.store.ListEvents(ctx, sessionID)
	if err != nil {
		metrics.IncStoreError("list_events")
		return fmt.Errorf("list events: %w", err)
	}

	prompt := fmt.Sprintf(summaryPromptTemplate, renderTranscript(events))

	start := time.Now()
	summary, err := u.ai.Summarize(ctx, u.model, prompt)
	if err != nil {
		metrics.ObserveAICall("summarize", time.Since(start), false)
		metrics.IncFallback("summary")
		log.Warn().Err(err).Msg("summary generation failed, using fallback summary")
		summary = summaryFallback
	} else {
		metrics.ObserveAICall("summarize", time.Since(start), true)
	}

	endedAt := time.Now().UTC()
	if err := u.store.CloseSession(ctx, sessionID, endedAt, summary); err != nil {
		metrics.IncStoreError("close_session")
		return fmt.Errorf("close session: %w", err)
	}
	metrics.ObserveSessionClosed(endedAt.Sub(startedAt))
	log.Info().Int("events", len(events)).Msg("session ended and summarized")
	return nil
}

// renderTranscript renders events as "{event_type}: {content}" lines in
// store order, the exact shape the summarization prompt embeds.
func renderTranscript(events []model.SessionEvent) string {
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		lines = append(lines, fmt.Sprintf("%s: %s", ev.Type, ev.Content))
	}
	return strings.Join(lines, "\n")
}

func (u *sessionUC) countTokens(text string) int {
	if u.tokens == nil {
		return 0
	}
	return u.tokens.Count(text)
}
