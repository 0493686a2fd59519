package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/Andrewp2/andrew-chat/internal/domain"
	"github.com/Andrewp2/andrew-chat/internal/transport/ws"
)

// Frame is a decoded server frame. Exactly one of Message, Ack or Error is
// set, according to Type.
type Frame struct {
	Type    string
	Message *ws.MessageFrame
	Ack     *ws.AckFrame
	Error   *ws.ErrorFrame
}

// Stream is a WebSocket subscription to one conversation.
type Stream struct {
	conn *websocket.Conn
}

// Stream opens the WebSocket stream of conversation id from index from.
func (c *Client) Stream(ctx context.Context, id, from int) (*Stream, error) {
	url := wsURL(c.baseURL) + fmt.Sprintf("/v1/conversations/%d/ws?from=%d", id, from)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "dial")
	}
	return &Stream{conn: conn}, nil
}

// Next blocks for the next frame. When the server ends the stream normally
// the returned error satisfies IsClosed.
func (s *Stream) Next() (*Frame, error) {
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	var base ws.BaseFrame
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, errors.Wrap(err, "unmarshal frame")
	}

	frame := &Frame{Type: base.Type}
	switch base.Type {
	case ws.TypeMessage:
		frame.Message = &ws.MessageFrame{}
		err = json.Unmarshal(data, frame.Message)
	case ws.TypeAck:
		frame.Ack = &ws.AckFrame{}
		err = json.Unmarshal(data, frame.Ack)
	case ws.TypeError:
		frame.Error = &ws.ErrorFrame{}
		err = json.Unmarshal(data, frame.Error)
	default:
		return nil, errors.Errorf("unknown frame type: %s", base.Type)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s frame", base.Type)
	}
	return frame, nil
}

// Send appends msg to the stream's conversation and returns the request id
// the ack will carry.
func (s *Stream) Send(msg domain.Message) (string, error) {
	requestID := "req_" + uuid.New().String()[:8]
	err := s.conn.WriteJSON(ws.SendFrame{
		BaseFrame: ws.BaseFrame{
			Type:      ws.TypeSend,
			Ts:        time.Now().UnixMilli(),
			RequestID: requestID,
		},
		Message: msg,
	})
	if err != nil {
		return "", errors.Wrap(err, "write send frame")
	}
	return requestID, nil
}

// Close sends a close frame and closes the connection.
func (s *Stream) Close() error {
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return s.conn.Close()
}

// IsClosed reports whether err is the server ending the stream normally.
func IsClosed(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}

func wsURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}
