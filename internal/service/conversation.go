package service

import (
	"github.com/Andrewp2/andrew-chat/internal/domain"
	"github.com/Andrewp2/andrew-chat/internal/store"
)

func (s *Service) CreateConversation() int {
	return s.conversations.CreateConversation()
}

func (s *Service) ListConversations() []int {
	return s.conversations.ListConversations()
}

// SendMessage validates msg, fills in a missing attachment content type and
// appends it. stored is false when id does not exist; that is not an error.
func (s *Service) SendMessage(id int, msg domain.Message) (stored bool, err error) {
	if err := s.check(msg); err != nil {
		return false, err
	}
	msg.Attachment = normalizeAttachment(msg.Attachment)
	return s.conversations.SendMessage(id, msg), nil
}

func (s *Service) GetMessages(id int) []domain.Message {
	return s.conversations.GetMessages(id)
}

// StreamMessages opens a live stream over conversation id. The caller must
// Close it.
func (s *Service) StreamMessages(id, from int) *store.Stream {
	s.logger.Debug().Int("conversation", id).Int("from", from).Msg("stream opened")
	return s.conversations.StreamMessages(id, from)
}
