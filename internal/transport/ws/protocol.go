package ws

import "github.com/Andrewp2/andrew-chat/internal/domain"

// Frame types from client to server
const (
	TypeSend = "send"
)

// Frame types from server to client
const (
	TypeMessage = "message"
	TypeAck     = "ack"
	TypeError   = "error"
)

// Error codes carried by error frames.
const (
	ErrorCodeInvalidMessage = "INVALID_MESSAGE"
	ErrorCodeInvalidRequest = "INVALID_REQUEST"
)

// BaseFrame contains the fields common to every frame.
type BaseFrame struct {
	Type      string `json:"type"`
	Ts        int64  `json:"ts"`
	RequestID string `json:"request_id,omitempty"`
}

// SendFrame asks the server to append a message to the stream's
// conversation.
type SendFrame struct {
	BaseFrame
	Message domain.Message `json:"message"`
}

// MessageFrame carries one stored message.
type MessageFrame struct {
	BaseFrame
	ConversationID int `json:"conversation_id"`
	domain.IndexedMessage
}

// AckFrame answers a SendFrame.
type AckFrame struct {
	BaseFrame
	Stored bool `json:"stored"`
}

// ErrorFrame reports a rejected client frame.
type ErrorFrame struct {
	BaseFrame
	Code    string `json:"code"`
	Message string `json:"message"`
}
