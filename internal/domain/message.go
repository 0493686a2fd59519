// Package domain defines the core domain models for the chat server.
package domain

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "User"
	SenderAI   Sender = "AI"
)

// Attachment is a file carried by a message. Data holds either a base64
// payload or a data: URI.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        string `json:"data"`
}

// Message is a single entry in a conversation. Messages are immutable once
// stored.
type Message struct {
	Text       *string     `json:"text,omitempty"`
	Attachment *Attachment `json:"attachment,omitempty"`
	Sender     Sender      `json:"sender" validate:"oneof=User AI"`
}

// NewTextMessage builds a text-only message.
func NewTextMessage(sender Sender, text string) Message {
	return Message{Text: &text, Sender: sender}
}

// TextOrEmpty returns the message text, or "" when the message has none.
func (m Message) TextOrEmpty() string {
	if m.Text == nil {
		return ""
	}
	return *m.Text
}

// IndexedMessage pairs a message with its position in the conversation. It
// is the frame emitted by message streams.
type IndexedMessage struct {
	Index   int     `json:"index"`
	Message Message `json:"message"`
}
