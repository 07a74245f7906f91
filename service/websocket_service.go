package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/KhurramShams/docuchat-be/types"
)

// WebSocketService streams answers over a websocket: each "ask" message
// triggers one retrieval-augmented completion whose deltas are forwarded as
// "chunk" messages, terminated by "done".
type WebSocketService struct {
	documents *DocumentService
	upgrader  websocket.Upgrader
	logger    *zap.Logger
}

func NewWebSocketService(documents *DocumentService, logger *zap.Logger) *WebSocketService {
	return &WebSocketService{
		documents: documents,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
		logger: logger,
	}
}

func (s *WebSocketService) HandleAsk(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(4 * 1024)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var msg types.WebsocketMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.writeMessage(conn, types.TypeWebsocketError, "invalid message")
			continue
		}
		if msg.Type != types.TypeWebsocketAsk {
			continue
		}

		question := strings.TrimSpace(msg.Payload)
		if err := types.ValidateQuestion(question); err != nil {
			s.writeMessage(conn, types.TypeWebsocketError, types.UserMessage(err))
			continue
		}

		_, err = s.documents.AskStream(ctx, question, func(delta string) {
			s.writeMessage(conn, types.TypeWebsocketChunk, delta)
		})
		if err != nil {
			s.writeMessage(conn, types.TypeWebsocketError, types.UserMessage(err))
			continue
		}
		s.writeMessage(conn, types.TypeWebsocketDone, "")
	}
}

func (s *WebSocketService) writeMessage(conn *websocket.Conn, msgType, payload string) {
	msg := types.WebsocketMessage{Type: msgType, Payload: payload}
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Warn("websocket write error", zap.Error(err))
	}
}
