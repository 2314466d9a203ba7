package ai

import (
	"github.com/pkoukk/tiktoken-go"

	"ai-session-gateway/internal/domain/ports/adapter"
)

var _ adapter.TokenCounter = (*TiktokenCounter)(nil)

// TiktokenCounter counts tokens with the cl100k_base encoding. Counting is
// best-effort: when the encoding cannot be loaded it reports zero instead of
// blocking persistence.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func NewTiktokenCounter() *TiktokenCounter {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return &TiktokenCounter{}
	}
	return &TiktokenCounter{enc: enc}
}

func (c *TiktokenCounter) Count(text string) int {
	if c.enc == nil || text == "" {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}
