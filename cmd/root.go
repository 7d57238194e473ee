package main

import (
	"os"

	"github.com/deepgram/airelay/internal/config"
	"github.com/deepgram/airelay/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:   "airelay",
		Short: "HTTP relay for OpenAI role personas and assistant threads",
		Long: `airelay forwards prompts to OpenAI. Role prompts are answered by a chat
completion using a persona from the role catalog. Assistant prompts run on a
named conversation thread, falling back to the thread called "default".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loadEnv(envFile)
			logger.Setup(config.GetLogLevel(), config.GetLogFormat(), os.Stderr)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading configuration")

	root.AddCommand(
		newServeCmd(),
		newThreadsCmd(),
		newRolesCmd(),
		newTokenCmd(),
	)
	return root
}

// loadEnv reads path into the environment without overriding variables that
// are already set.
func loadEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		if !os.IsNotExist(err) {
			l := logger.For(logger.CONFIG)
			l.Warn().Err(err).Str("path", path).Msg("Failed to load env file")
		}
	}
	config.LoadJWTSecret()
}
