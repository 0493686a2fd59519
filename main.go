// Command andrew-chat runs the chat server and its command-line clients.
package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Andrewp2/andrew-chat/internal/config"
)

var cfg *config.Config

func main() {
	rootCmd := &cobra.Command{
		Use:           "andrew-chat",
		Short:         "In-memory chat server with live conversation streams",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			return setupLogging(cfg.LogLevel, cfg.LogFormat)
		},
	}

	serveCmd := newServeCommand()
	rootCmd.RunE = serveCmd.RunE
	rootCmd.AddCommand(serveCmd, newModelsCommand(), newTailCommand(), newChatCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
