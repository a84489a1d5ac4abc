package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hikarukin/gametrack/internal/config"
	"github.com/hikarukin/gametrack/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tracker headless",
	Long: `Connect to the Discord gateway and record game sessions until
interrupted. Configuration comes from the environment (or a .env file):
DISCORD_TOKEN, COMMAND_PREFIX, DATABASE_PATH, LOG_LEVEL, LOG_FORMAT.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger := logging.New(cfg.LogLevel, cfg.LogFormat)

		app, err := buildApp(cfg, logger)
		if err != nil {
			return err
		}
		defer app.close()

		if err := app.bot.Start(); err != nil {
			return fmt.Errorf("failed to start bot: %w", err)
		}
		logger.Info().Msg("tracking game activity, press Ctrl+C to stop")

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		logger.Info().Msg("shutting down")
		return app.bot.Stop()
	},
}
