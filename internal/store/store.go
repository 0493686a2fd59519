// Package store holds the in-memory conversation and user state.
package store

import (
	"context"

	"github.com/Andrewp2/andrew-chat/internal/domain"
	"github.com/Andrewp2/andrew-chat/internal/hub"
)

// Conversations stores conversations addressed by dense integer ids.
// Out-of-range ids read as empty and writes to them are ignored.
type Conversations interface {
	// Conversation operations
	CreateConversation() int
	ListConversations() []int

	// Message operations
	SendMessage(id int, msg domain.Message) bool
	GetMessages(id int) []domain.Message
	StreamMessages(id, from int) *Stream
}

// Users stores plaintext credentials.
type Users interface {
	Register(username, password string) error
	Login(username, password string) bool
}

// Stream yields a conversation's stored messages from an offset and then
// every message published after it was opened.
type Stream struct {
	backlog []domain.IndexedMessage
	sub     *hub.Subscription
}

// Next blocks until the next frame is available. It returns false once the
// stream has ended or ctx is done.
func (s *Stream) Next(ctx context.Context) (domain.IndexedMessage, bool) {
	if len(s.backlog) > 0 {
		msg := s.backlog[0]
		s.backlog = s.backlog[1:]
		return msg, true
	}
	if s.sub == nil {
		return domain.IndexedMessage{}, false
	}
	select {
	case msg, ok := <-s.sub.C:
		return msg, ok
	case <-ctx.Done():
		return domain.IndexedMessage{}, false
	}
}

// Close releases the stream's subscription.
func (s *Stream) Close() {
	if s.sub != nil {
		s.sub.Close()
	}
}
