package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Andrewp2/andrew-chat/internal/client"
	"github.com/Andrewp2/andrew-chat/internal/domain"
)

type chatOptions struct {
	addr           string
	conversationID int
	sender         string
	prompt         bool
	model          string
	apiKey         string
}

func newChatCommand() *cobra.Command {
	opts := chatOptions{}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Send stdin lines to a conversation and print everything it receives",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return chat(ctx, client.NewClient(opts.addr), opts, os.Stdin, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "http://localhost:8080", "server base URL")
	cmd.Flags().IntVar(&opts.conversationID, "conversation", -1, "conversation id; a new conversation is created when negative")
	cmd.Flags().StringVar(&opts.sender, "as", string(domain.SenderUser), "sender of stdin lines (User or AI)")
	cmd.Flags().BoolVar(&opts.prompt, "prompt", false, "submit lines as prompts so the AI replies")
	cmd.Flags().StringVar(&opts.model, "model", "", "model used with --prompt; the catalog default when empty")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", os.Getenv("CHAT_API_KEY"), "provider API key used with --prompt")
	return cmd
}

func chat(ctx context.Context, c *client.Client, opts chatOptions, in io.Reader, out io.Writer) error {
	id := opts.conversationID
	if id < 0 {
		var err error
		if id, err = c.CreateConversation(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "conversation %d\n", id)
	}

	stream, err := c.Stream(ctx, id, 0)
	if err != nil {
		return err
	}
	defer stream.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := make(chan error, 1)
	go func() {
		frames <- readFrames(ctx, stream, out)
	}()

	// stdin is read outside the select loop so a blocked Scan never keeps
	// chat from returning once the server ends the stream.
	var scanErr error
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr = scanner.Err()
	}()

	for {
		select {
		case err := <-frames:
			if err == nil {
				fmt.Fprintln(out, "stream closed by server")
			}
			return err

		case <-ctx.Done():
			_ = stream.Close()
			<-frames
			return nil

		case line, ok := <-lines:
			if !ok {
				cancel()
				_ = stream.Close()
				<-frames
				return scanErr
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if err := sendLine(ctx, c, stream, id, opts, line); err != nil {
				log.Warn().Err(err).Int("conversation_id", id).Msg("failed to send line")
			}
		}
	}
}

// readFrames prints frames until the stream ends. A normal close from the
// server, or a close after ctx is done, is not an error.
func readFrames(ctx context.Context, stream *client.Stream, out io.Writer) error {
	for {
		frame, err := stream.Next()
		if err != nil {
			if client.IsClosed(err) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		printFrame(out, frame)
	}
}

func sendLine(ctx context.Context, c *client.Client, stream *client.Stream, id int, opts chatOptions, line string) error {
	if opts.prompt {
		_, err := c.SubmitPrompt(ctx, id, domain.PromptRequest{
			APIKey: opts.apiKey,
			Text:   line,
			Model:  opts.model,
		})
		return err
	}
	_, err := stream.Send(domain.NewTextMessage(domain.Sender(opts.sender), line))
	return err
}
