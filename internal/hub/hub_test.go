package hub

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Andrewp2/andrew-chat/internal/domain"
)

func frame(i int, text string) domain.IndexedMessage {
	return domain.IndexedMessage{Index: i, Message: domain.NewTextMessage(domain.SenderUser, text)}
}

func TestPublishFansOutPerTopic(t *testing.T) {
	h := New(Hooks{})
	a := h.Subscribe(0, 4)
	b := h.Subscribe(0, 4)
	other := h.Subscribe(1, 4)
	defer a.Close()
	defer b.Close()
	defer other.Close()

	h.Publish(0, frame(0, "hi"))

	require.Equal(t, 0, (<-a.C).Index)
	require.Equal(t, "hi", (<-b.C).Message.TextOrEmpty())
	require.Len(t, other.C, 0)
	require.Equal(t, 2, h.Subscribers(0))
}

func TestPublishDropsOldestWhenFull(t *testing.T) {
	var overflow atomic.Int32
	h := New(Hooks{Overflow: func(int) { overflow.Add(1) }})
	slow := h.Subscribe(0, 2)
	fast := h.Subscribe(0, 8)
	defer slow.Close()
	defer fast.Close()

	dropped := 0
	for i := 0; i < 5; i++ {
		dropped += h.Publish(0, frame(i, "m"))
	}

	require.Equal(t, 3, dropped)
	require.Equal(t, int32(3), overflow.Load())
	require.Equal(t, 3, (<-slow.C).Index)
	require.Equal(t, 4, (<-slow.C).Index)
	for i := 0; i < 5; i++ {
		require.Equal(t, i, (<-fast.C).Index)
	}
}

func TestCloseSubscription(t *testing.T) {
	var subs atomic.Int32
	h := New(Hooks{SubscribersChanged: func(d int) { subs.Add(int32(d)) }})
	s := h.Subscribe(3, 1)
	require.Equal(t, int32(1), subs.Load())

	s.Close()
	s.Close()

	_, ok := <-s.C
	require.False(t, ok)
	require.Equal(t, int32(0), subs.Load())
	require.Equal(t, 0, h.Subscribers(3))

	// Publishing to a topic with no subscribers is fine.
	require.Equal(t, 0, h.Publish(3, frame(0, "x")))
}

func TestCloseHub(t *testing.T) {
	h := New(Hooks{})
	s := h.Subscribe(0, 1)

	h.Close()
	h.Close()

	_, ok := <-s.C
	require.False(t, ok)
	s.Close()

	late := h.Subscribe(0, 1)
	_, ok = <-late.C
	require.False(t, ok)
	late.Close()
}
