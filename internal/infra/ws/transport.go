package ws

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"ai-session-gateway/internal/domain"
	"ai-session-gateway/internal/usecase"
)

var _ usecase.Transport = (*connTransport)(nil)

// connTransport adapts one gorilla websocket connection to the usecase
// Transport port: text frames in, one text frame per reply fragment out.
// Any read error means the peer is gone and maps to domain.ErrDisconnected.
type connTransport struct {
	conn *websocket.Conn
}

func newConnTransport(conn *websocket.Conn) *connTransport {
	return &connTransport{conn: conn}
}

func (t *connTransport) Receive(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		msgType, data, err := t.conn.ReadMessage()
		if err != nil {
			return "", wrapDisconnect(err)
		}
		if msgType != websocket.TextMessage {
			continue
		}
		return string(data), nil
	}
}

func (t *connTransport) Send(ctx context.Context, fragment string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.conn.WriteMessage(websocket.TextMessage, []byte(fragment))
}

func wrapDisconnect(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrDisconnected, err)
}
