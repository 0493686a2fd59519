package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Andrewp2/andrew-chat/internal/client"
	"github.com/Andrewp2/andrew-chat/internal/domain"
)

func newTailCommand() *cobra.Command {
	var (
		addr           string
		conversationID int
		from           int
	)
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow a conversation's messages as they arrive",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return tail(ctx, client.NewClient(addr), conversationID, from, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "http://localhost:8080", "server base URL")
	cmd.Flags().IntVar(&conversationID, "conversation", 0, "conversation id")
	cmd.Flags().IntVar(&from, "from", 0, "first message index to replay")
	return cmd
}

func tail(ctx context.Context, c *client.Client, id, from int, out io.Writer) error {
	stream, err := c.Stream(ctx, id, from)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		_ = stream.Close()
	}()

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

func printFrame(out io.Writer, frame *client.Frame) {
	switch {
	case frame.Message != nil:
		fmt.Fprintln(out, formatMessage(frame.Message.Index, frame.Message.Message))
	case frame.Error != nil:
		fmt.Fprintf(out, "error %s: %s\n", frame.Error.Code, frame.Error.Message)
	}
}

func formatMessage(index int, msg domain.Message) string {
	line := fmt.Sprintf("[%d] %s: %s", index, msg.Sender, msg.TextOrEmpty())
	if msg.Attachment != nil {
		line += fmt.Sprintf(" (attachment %s, %s)", msg.Attachment.Filename, msg.Attachment.ContentType)
	}
	return line
}
