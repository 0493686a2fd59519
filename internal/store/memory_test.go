package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/Andrewp2/andrew-chat/internal/domain"
)

func text(s string) domain.Message {
	return domain.NewTextMessage(domain.SenderUser, s)
}

func texts(msgs []domain.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.TextOrEmpty()
	}
	return out
}

func next(t *testing.T, s *Stream) domain.IndexedMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	msg, ok := s.Next(ctx)
	require.True(t, ok, "stream ended before a frame arrived")
	return msg
}

func TestCreateAndList(t *testing.T) {
	s := NewMemoryStore(8, nil)
	require.Empty(t, s.ListConversations())

	for want := 0; want < 5; want++ {
		require.Equal(t, want, s.CreateConversation())
	}
	require.Equal(t, []int{0, 1, 2, 3, 4}, s.ListConversations())
}

func TestSendThenGet(t *testing.T) {
	s := NewMemoryStore(8, nil)
	id := s.CreateConversation()

	require.True(t, s.SendMessage(id, text("hi")))
	require.True(t, s.SendMessage(id, text("there")))

	msgs := s.GetMessages(id)
	require.Equal(t, []string{"hi", "there"}, texts(msgs))

	// The snapshot is a copy.
	msgs[0] = text("changed")
	require.Equal(t, "hi", s.GetMessages(id)[0].TextOrEmpty())
}

func TestSendToInvalidIDChangesNothing(t *testing.T) {
	s := NewMemoryStore(8, nil)
	a := s.CreateConversation()
	b := s.CreateConversation()
	s.SendMessage(a, text("keep"))

	for _, id := range []int{-1, 2, 100} {
		require.False(t, s.SendMessage(id, text("lost")))
	}

	require.Equal(t, []int{a, b}, s.ListConversations())
	require.Equal(t, []string{"keep"}, texts(s.GetMessages(a)))
	require.Empty(t, s.GetMessages(b))
	require.Empty(t, s.GetMessages(7))
}

func TestStreamReplaysThenTails(t *testing.T) {
	s := NewMemoryStore(8, nil)
	id := s.CreateConversation()
	s.SendMessage(id, text("hi"))

	stream := s.StreamMessages(id, 0)
	defer stream.Close()

	first := next(t, stream)
	require.Equal(t, 0, first.Index)
	require.Equal(t, "hi", first.Message.TextOrEmpty())

	// Nothing more until a new message is sent.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	_, ok := stream.Next(ctx)
	cancel()
	require.False(t, ok)

	s.SendMessage(id, text("there"))
	second := next(t, stream)
	require.Equal(t, 1, second.Index)
	require.Equal(t, "there", second.Message.TextOrEmpty())
}

func TestStreamFromOffset(t *testing.T) {
	s := NewMemoryStore(8, nil)
	id := s.CreateConversation()
	for i := 0; i < 4; i++ {
		s.SendMessage(id, text(fmt.Sprint(i)))
	}

	stream := s.StreamMessages(id, 2)
	defer stream.Close()
	require.Equal(t, "2", next(t, stream).Message.TextOrEmpty())
	require.Equal(t, "3", next(t, stream).Message.TextOrEmpty())

	past := s.StreamMessages(id, 10)
	defer past.Close()
	s.SendMessage(id, text("4"))
	require.Equal(t, 4, next(t, past).Index)

	negative := s.StreamMessages(id, -3)
	defer negative.Close()
	require.Equal(t, 0, next(t, negative).Index)
}

func TestStreamIgnoresOtherConversations(t *testing.T) {
	s := NewMemoryStore(8, nil)
	id := s.CreateConversation()
	stream := s.StreamMessages(id, 0)
	defer stream.Close()

	other := s.CreateConversation()
	s.SendMessage(other, text("elsewhere"))
	s.SendMessage(id, text("mine"))

	msg := next(t, stream)
	require.Equal(t, "mine", msg.Message.TextOrEmpty())
}

func TestStreamInvalidIDIsFinished(t *testing.T) {
	s := NewMemoryStore(8, nil)
	stream := s.StreamMessages(3, 0)
	defer stream.Close()

	_, ok := stream.Next(context.Background())
	require.False(t, ok)
}

func TestStreamBoundaryUnderConcurrentSends(t *testing.T) {
	s := NewMemoryStore(1024, nil)
	id := s.CreateConversation()
	const total = 200

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			s.SendMessage(id, text(fmt.Sprint(i)))
		}
	}()

	stream := s.StreamMessages(id, 0)
	defer stream.Close()
	for want := 0; want < total; want++ {
		require.Equal(t, want, next(t, stream).Index)
	}
	wg.Wait()
}

func TestCloseEndsStreams(t *testing.T) {
	s := NewMemoryStore(8, nil)
	id := s.CreateConversation()
	stream := s.StreamMessages(id, 0)

	s.Close()

	_, ok := stream.Next(context.Background())
	require.False(t, ok)
	stream.Close()
}

func TestRegisterAndLogin(t *testing.T) {
	u := NewUserStore()

	require.NoError(t, u.Register("alice", "pw1"))
	err := u.Register("alice", "pw2")
	require.True(t, errors.Is(err, domain.ErrAlreadyExists))

	require.True(t, u.Login("alice", "pw1"))
	require.False(t, u.Login("alice", "pw2"))
	require.False(t, u.Login("bob", "pw1"))
}
