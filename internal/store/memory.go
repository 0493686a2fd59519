package store

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/Andrewp2/andrew-chat/internal/domain"
	"github.com/Andrewp2/andrew-chat/internal/hub"
	"github.com/Andrewp2/andrew-chat/internal/metrics"
)

// MemoryStore implements Conversations in process memory.
type MemoryStore struct {
	conversations [][]domain.Message
	hub           *hub.Hub
	buffer        int
	metrics       *metrics.Metrics
	logger        zerolog.Logger

	mu sync.RWMutex
}

var _ Conversations = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store. buffer is the per-subscriber
// stream buffer. m may be nil.
func NewMemoryStore(buffer int, m *metrics.Metrics) *MemoryStore {
	return &MemoryStore{
		hub: hub.New(hub.Hooks{
			SubscribersChanged: m.SubscribersChanged,
			Overflow:           func(int) { m.Overflow() },
		}),
		buffer:  buffer,
		metrics: m,
		logger:  log.With().Str("component", "store").Logger(),
	}
}

// CreateConversation appends an empty conversation and returns its id.
func (s *MemoryStore) CreateConversation() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = append(s.conversations, nil)
	id := len(s.conversations) - 1
	s.metrics.ConversationCreated()
	s.logger.Debug().Int("conversation", id).Msg("conversation created")
	return id
}

// ListConversations returns every id in creation order.
func (s *MemoryStore) ListConversations() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Range(len(s.conversations))
}

// SendMessage appends msg to conversation id and publishes it to the
// conversation's subscribers. It reports false, changing nothing, when id
// does not exist.
func (s *MemoryStore) SendMessage(id int, msg domain.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.valid(id) {
		s.metrics.MessageDropped()
		s.logger.Warn().Int("conversation", id).Msg("message for unknown conversation ignored")
		return false
	}
	s.conversations[id] = append(s.conversations[id], msg)
	s.hub.Publish(id, domain.IndexedMessage{Index: len(s.conversations[id]) - 1, Message: msg})
	s.metrics.MessageAppended()
	return true
}

// GetMessages returns a copy of conversation id, or nil when id does not
// exist.
func (s *MemoryStore) GetMessages(id int) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.valid(id) {
		return nil
	}
	out := make([]domain.Message, len(s.conversations[id]))
	copy(out, s.conversations[id])
	return out
}

// StreamMessages opens a stream over conversation id starting at index
// from. The snapshot and the subscription are taken under the same read
// lock, so no message is missed or repeated between replay and live
// delivery. An unknown id yields a finished stream.
func (s *MemoryStore) StreamMessages(id, from int) *Stream {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.valid(id) {
		return &Stream{}
	}
	from = max(from, 0)
	msgs := s.conversations[id]
	var backlog []domain.IndexedMessage
	for i := from; i < len(msgs); i++ {
		backlog = append(backlog, domain.IndexedMessage{Index: i, Message: msgs[i]})
	}
	return &Stream{
		backlog: backlog,
		sub:     s.hub.Subscribe(id, s.buffer),
	}
}

// Close ends every open stream.
func (s *MemoryStore) Close() {
	s.hub.Close()
}

func (s *MemoryStore) valid(id int) bool {
	return id >= 0 && id < len(s.conversations)
}

// UserStore implements Users in process memory. Passwords are kept in
// plaintext.
type UserStore struct {
	users map[string]string

	mu sync.RWMutex
}

var _ Users = (*UserStore)(nil)

// NewUserStore creates an empty user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]string)}
}

// Register stores a new user. An existing username fails with
// domain.ErrAlreadyExists and keeps its password.
func (s *UserStore) Register(username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return errors.Wrapf(domain.ErrAlreadyExists, "user %q", username)
	}
	s.users[username] = password
	return nil
}

// Login reports whether username exists with exactly this password.
func (s *UserStore) Login(username, password string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.users[username]
	return ok && stored == password
}
