package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/Andrewp2/andrew-chat/internal/config"
	"github.com/Andrewp2/andrew-chat/internal/domain"
	"github.com/Andrewp2/andrew-chat/internal/metrics"
	"github.com/Andrewp2/andrew-chat/internal/store"
)

type storeConversations struct {
	*store.MemoryStore
}

func (s storeConversations) SendMessage(id int, msg domain.Message) (bool, error) {
	return s.MemoryStore.SendMessage(id, msg), nil
}

func newTestServer(t *testing.T) (*store.MemoryStore, string) {
	t.Helper()
	return newInstrumentedServer(t, nil)
}

func newInstrumentedServer(t *testing.T, m *metrics.Metrics) (*store.MemoryStore, string) {
	t.Helper()
	cfg := &config.Config{
		PingInterval:   time.Second,
		WriteTimeout:   time.Second,
		ReadTimeout:    5 * time.Second,
		MaxMessageSize: 65536,
	}
	st := store.NewMemoryStore(8, m)
	e := echo.New()
	e.GET("/v1/conversations/:id/ws", NewServer(cfg, storeConversations{st}).HandleStream)
	server := httptest.NewServer(e)
	t.Cleanup(func() {
		st.Close()
		server.Close()
	})
	return st, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestStreamReplaysAndTails(t *testing.T) {
	st, base := newTestServer(t)
	id := st.CreateConversation()
	st.SendMessage(id, domain.NewTextMessage(domain.SenderUser, "one"))
	st.SendMessage(id, domain.NewTextMessage(domain.SenderAI, "two"))

	conn := dial(t, base+"/v1/conversations/0/ws?from=1")

	var frame MessageFrame
	require.NoError(t, conn.ReadJSON(&frame))
	require.Equal(t, TypeMessage, frame.Type)
	require.Equal(t, 1, frame.Index)
	require.Equal(t, "two", frame.Message.TextOrEmpty())

	st.SendMessage(id, domain.NewTextMessage(domain.SenderUser, "three"))
	require.NoError(t, conn.ReadJSON(&frame))
	require.Equal(t, 2, frame.Index)
	require.Equal(t, "three", frame.Message.TextOrEmpty())
}

func TestSendFrame(t *testing.T) {
	st, base := newTestServer(t)
	st.CreateConversation()
	conn := dial(t, base+"/v1/conversations/0/ws")

	require.NoError(t, conn.WriteJSON(SendFrame{
		BaseFrame: BaseFrame{Type: TypeSend, RequestID: "r1"},
		Message:   domain.NewTextMessage(domain.SenderUser, "hello"),
	}))

	// The ack and the echoed message can arrive in either order.
	var gotAck, gotMessage bool
	for !(gotAck && gotMessage) {
		var raw map[string]interface{}
		require.NoError(t, conn.ReadJSON(&raw))
		switch raw["type"] {
		case TypeAck:
			require.Equal(t, "r1", raw["request_id"])
			require.Equal(t, true, raw["stored"])
			gotAck = true
		case TypeMessage:
			require.Equal(t, float64(0), raw["index"])
			gotMessage = true
		}
	}
	require.Len(t, st.GetMessages(0), 1)
}

func TestInvalidFrames(t *testing.T) {
	st, base := newTestServer(t)
	st.CreateConversation()
	conn := dial(t, base+"/v1/conversations/0/ws")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	var frame ErrorFrame
	require.NoError(t, conn.ReadJSON(&frame))
	require.Equal(t, TypeError, frame.Type)
	require.Equal(t, ErrorCodeInvalidMessage, frame.Code)

	require.NoError(t, conn.WriteJSON(BaseFrame{Type: "dance", RequestID: "r2"}))
	require.NoError(t, conn.ReadJSON(&frame))
	require.Equal(t, "r2", frame.RequestID)
	require.Contains(t, frame.Message, "dance")
}

func TestUnknownConversationClosesImmediately(t *testing.T) {
	_, base := newTestServer(t)
	conn := dial(t, base+"/v1/conversations/9/ws")

	_, _, err := conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestBadConversationID(t *testing.T) {
	_, base := newTestServer(t)
	_, resp, err := websocket.DefaultDialer.Dial(base+"/v1/conversations/abc/ws", nil)
	require.Error(t, err)
	require.Equal(t, 400, resp.StatusCode)
}

func TestDisconnectReleasesSubscription(t *testing.T) {
	m := metrics.New()
	st, base := newInstrumentedServer(t, m)
	id := st.CreateConversation()
	st.SendMessage(id, domain.NewTextMessage(domain.SenderUser, "one"))

	subscribers := func() float64 {
		var out dto.Metric
		require.NoError(t, m.StreamSubscribers.Write(&out))
		return out.GetGauge().GetValue()
	}

	conn, _, err := websocket.DefaultDialer.Dial(base+"/v1/conversations/0/ws", nil)
	require.NoError(t, err)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var frame MessageFrame
	require.NoError(t, conn.ReadJSON(&frame))
	require.Equal(t, float64(1), subscribers())

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		return subscribers() == 0
	}, 5*time.Second, 10*time.Millisecond)
}
