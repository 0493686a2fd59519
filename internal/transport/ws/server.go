// Package ws streams conversation messages over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Andrewp2/andrew-chat/internal/config"
	"github.com/Andrewp2/andrew-chat/internal/domain"
	"github.com/Andrewp2/andrew-chat/internal/store"
)

// Conversations is the part of the service the WebSocket server needs.
type Conversations interface {
	SendMessage(id int, msg domain.Message) (bool, error)
	StreamMessages(id, from int) *store.Stream
}

// Server handles WebSocket stream connections.
type Server struct {
	cfg      *config.Config
	svc      Conversations
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewServer creates a new WebSocket server.
func NewServer(cfg *config.Config, svc Conversations) *Server {
	return &Server{
		cfg: cfg,
		svc: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: log.With().Str("component", "ws").Logger(),
	}
}

// connection is one upgraded client. Only writePump writes to conn.
type connection struct {
	conn           *websocket.Conn
	conversationID int
	replies        chan []byte
	mu             sync.Mutex
}

func (c *connection) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

// HandleStream upgrades the request and streams conversation :id from the
// ?from offset until either side closes.
// GET /v1/conversations/:id/ws
func (s *Server) HandleStream(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "conversation id must be an integer", "code": "invalid_request"})
	}
	from := 0
	if f := c.QueryParam("from"); f != "" {
		if from, err = strconv.Atoi(f); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "from must be an integer", "code": "invalid_request"})
		}
	}

	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to upgrade WebSocket")
		return nil
	}
	ws.SetReadLimit(s.cfg.MaxMessageSize)

	conn := &connection{
		conn:           ws,
		conversationID: id,
		replies:        make(chan []byte, 16),
	}
	stream := s.svc.StreamMessages(id, from)
	ctx, cancel := context.WithCancel(context.Background())

	s.logger.Info().Int("conversation", id).Int("from", from).Msg("stream connected")

	frames := make(chan []byte)
	go s.pump(ctx, conn, stream, frames)
	go s.readPump(conn, cancel)
	s.writePump(ctx, conn, frames)

	cancel()
	stream.Close()
	ws.Close()
	s.logger.Info().Int("conversation", id).Msg("stream disconnected")
	return nil
}

// pump moves stream frames to the writer until the stream ends.
func (s *Server) pump(ctx context.Context, conn *connection, stream *store.Stream, frames chan<- []byte) {
	defer close(frames)
	for {
		msg, ok := stream.Next(ctx)
		if !ok {
			return
		}
		data, err := json.Marshal(MessageFrame{
			BaseFrame:      BaseFrame{Type: TypeMessage, Ts: time.Now().UnixMilli()},
			ConversationID: conn.conversationID,
			IndexedMessage: msg,
		})
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to encode frame")
			continue
		}
		select {
		case frames <- data:
		case <-ctx.Done():
			return
		}
	}
}

// readPump reads client frames until the connection fails, then cancels
// the stream.
func (s *Server) readPump(conn *connection, cancel context.CancelFunc) {
	defer cancel()

	conn.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	conn.conn.SetPongHandler(func(string) error {
		conn.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		return nil
	})

	for {
		_, message, err := conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.logger.Warn().Err(err).Msg("WebSocket error")
			}
			return
		}
		s.handleFrame(conn, message)
	}
}

// writePump writes stream frames, replies and pings until the stream ends
// or the reader goes away.
func (s *Server) writePump(ctx context.Context, conn *connection, frames <-chan []byte) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-frames:
			conn.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if !ok {
				conn.writeMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.writeMessage(websocket.TextMessage, data); err != nil {
				s.logger.Warn().Err(err).Msg("failed to write frame")
				return
			}

		case data := <-conn.replies:
			conn.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.writeMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			conn.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.writeMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// handleFrame dispatches a client frame.
func (s *Server) handleFrame(conn *connection, data []byte) {
	var base BaseFrame
	if err := json.Unmarshal(data, &base); err != nil {
		s.reply(conn, errorFrame("", ErrorCodeInvalidMessage, "invalid JSON frame"))
		return
	}

	switch base.Type {
	case TypeSend:
		var frame SendFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.reply(conn, errorFrame(base.RequestID, ErrorCodeInvalidMessage, "invalid send frame"))
			return
		}
		stored, err := s.svc.SendMessage(conn.conversationID, frame.Message)
		if err != nil {
			s.reply(conn, errorFrame(base.RequestID, ErrorCodeInvalidRequest, err.Error()))
			return
		}
		s.reply(conn, AckFrame{
			BaseFrame: BaseFrame{Type: TypeAck, Ts: time.Now().UnixMilli(), RequestID: base.RequestID},
			Stored:    stored,
		})
	default:
		s.reply(conn, errorFrame(base.RequestID, ErrorCodeInvalidMessage, "unknown frame type: "+base.Type))
	}
}

func errorFrame(requestID, code, message string) ErrorFrame {
	return ErrorFrame{
		BaseFrame: BaseFrame{Type: TypeError, Ts: time.Now().UnixMilli(), RequestID: requestID},
		Code:      code,
		Message:   message,
	}
}

// reply queues v for the writer, dropping it if the client is not reading.
func (s *Server) reply(conn *connection, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode reply")
		return
	}
	select {
	case conn.replies <- data:
	default:
		s.logger.Warn().Int("conversation", conn.conversationID).Msg("reply buffer full, dropping reply")
	}
}
