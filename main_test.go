package main

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Andrewp2/andrew-chat/internal/client"
	"github.com/Andrewp2/andrew-chat/internal/config"
	"github.com/Andrewp2/andrew-chat/internal/domain"
)

// syncBuffer lets the test read output written by another goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestServer(t *testing.T) (*client.Client, *app) {
	t.Helper()
	cfg := &config.Config{
		Mode:           config.ModeMock,
		PingInterval:   time.Second,
		WriteTimeout:   time.Second,
		ReadTimeout:    5 * time.Second,
		MaxMessageSize: 65536,
		StreamBuffer:   8,
		SearchBaseURL:  "http://127.0.0.1:0",
	}
	a, err := newApp(context.Background(), cfg)
	require.NoError(t, err)
	require.Nil(t, a.rpcServer)

	server := httptest.NewServer(a.httpServer)
	t.Cleanup(func() {
		a.store.Close()
		server.Close()
	})
	return client.NewClient(server.URL), a
}

func TestSetupLogging(t *testing.T) {
	require.NoError(t, setupLogging("info", "json"))
	require.NoError(t, setupLogging("debug", "console"))
	require.Error(t, setupLogging("loud", "json"))
	require.Error(t, setupLogging("info", "xml"))
}

func TestFormatMessage(t *testing.T) {
	require.Equal(t, "[0] User: hi", formatMessage(0, domain.NewTextMessage(domain.SenderUser, "hi")))

	msg := domain.Message{
		Sender:     domain.SenderAI,
		Attachment: &domain.Attachment{Filename: "a.png", ContentType: "image/png"},
	}
	require.Equal(t, "[3] AI:  (attachment a.png, image/png)", formatMessage(3, msg))
}

func TestCapabilityNames(t *testing.T) {
	require.Empty(t, capabilityNames(domain.Capabilities{}))
	require.Equal(t, []string{"text", "web_search"},
		capabilityNames(domain.Capabilities{Text: true, WebSearch: true}))
}

func TestRenderModels(t *testing.T) {
	var out bytes.Buffer
	renderModels(&out, []domain.ModelConfig{{
		Name:         "gpt-4o",
		Provider:     domain.ProviderOpenAI,
		Company:      "openai",
		MaxTokens:    128000,
		Capabilities: domain.Capabilities{Text: true},
	}})
	require.Contains(t, out.String(), "gpt-4o")
	require.Contains(t, out.String(), "128000")
}

func TestTailPrintsReplayAndLiveMessages(t *testing.T) {
	c, _ := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := c.CreateConversation(ctx)
	require.NoError(t, err)
	_, err = c.SendMessage(ctx, id, domain.NewTextMessage(domain.SenderUser, "first"))
	require.NoError(t, err)

	tailCtx, stopTail := context.WithCancel(ctx)
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- tail(tailCtx, c, id, 0, out) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "[0] User: first")
	}, 5*time.Second, 10*time.Millisecond)

	_, err = c.SendMessage(ctx, id, domain.NewTextMessage(domain.SenderAI, "second"))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "[1] AI: second")
	}, 5*time.Second, 10*time.Millisecond)

	stopTail()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("tail did not stop")
	}
}

func TestChatSendsStdinLines(t *testing.T) {
	c, _ := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out := &syncBuffer{}
	opts := chatOptions{conversationID: -1, sender: string(domain.SenderUser)}
	require.NoError(t, chat(ctx, c, opts, strings.NewReader("hello\n\nthere\n"), out))
	require.Contains(t, out.String(), "conversation 0")

	require.Eventually(t, func() bool {
		msgs, err := c.GetMessages(ctx, 0)
		return err == nil && len(msgs) == 2
	}, 5*time.Second, 10*time.Millisecond)

	msgs, err := c.GetMessages(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, "hello", msgs[0].TextOrEmpty())
	require.Equal(t, "there", msgs[1].TextOrEmpty())
}

func TestChatPromptModeGetsMockReply(t *testing.T) {
	c, _ := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := c.CreateConversation(ctx)
	require.NoError(t, err)

	opts := chatOptions{conversationID: id, sender: string(domain.SenderUser), prompt: true}
	require.NoError(t, chat(ctx, c, opts, strings.NewReader("ping\n"), &syncBuffer{}))

	msgs, err := c.GetMessages(ctx, id)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, domain.SenderAI, msgs[1].Sender)
	require.Contains(t, msgs[1].TextOrEmpty(), "[MOCK]")
}

func TestChatReturnsWhenServerEndsStream(t *testing.T) {
	c, a := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := c.CreateConversation(ctx)
	require.NoError(t, err)

	// stdin stays open for the whole test.
	stdin, stdinWriter := io.Pipe()
	defer stdinWriter.Close()

	out := &syncBuffer{}
	done := make(chan error, 1)
	opts := chatOptions{conversationID: id, sender: string(domain.SenderUser)}
	go func() { done <- chat(ctx, c, opts, stdin, out) }()

	require.Eventually(t, func() bool {
		_, err := c.SendMessage(ctx, id, domain.NewTextMessage(domain.SenderAI, "hello"))
		return err == nil && strings.Contains(out.String(), "AI: hello")
	}, 5*time.Second, 50*time.Millisecond)

	a.store.Close()
	select {
	case err := <-done:
		require.NoError(t, err)
		require.Contains(t, out.String(), "stream closed by server")
	case <-time.After(5 * time.Second):
		t.Fatal("chat kept waiting on stdin after the stream ended")
	}
}
