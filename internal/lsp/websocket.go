package lsp

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/sparvlang/sparv/internal/lsp/jsonrpc"
)

var (
	_ jsonrpc.MessageReaderWriter = (*JsonRpcWebsocket)(nil)
)

// JsonRpcWebsocket transports one JSON RPC message per websocket text message.
type JsonRpcWebsocket struct {
	conn   *websocket.Conn
	lock   sync.Mutex
	logger zerolog.Logger
}

func newJsonRpcWebsocket(conn *websocket.Conn, logger zerolog.Logger) *JsonRpcWebsocket {
	return &JsonRpcWebsocket{conn: conn, logger: logger}
}

// ReadMessage returns nil, nil if a non text message is received.
func (s *JsonRpcWebsocket) ReadMessage() ([]byte, error) {
	msgType, msg, err := s.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	if msgType != websocket.TextMessage {
		s.logger.Debug().Int("type", msgType).Msg("a non text message was received")
		return nil, nil
	}

	return msg, nil
}

func (s *JsonRpcWebsocket) WriteMessage(msg []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.conn.WriteMessage(websocket.TextMessage, msg)
}

func (s *JsonRpcWebsocket) Close() error {
	return s.conn.Close()
}
