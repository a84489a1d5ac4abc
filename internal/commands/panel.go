package commands

import (
	"github.com/spf13/cobra"

	"github.com/hikarukin/gametrack/internal/config"
	"github.com/hikarukin/gametrack/internal/logging"
	"github.com/hikarukin/gametrack/internal/tui"
)

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Run the tracker with an interactive control panel",
	Long: `Open a terminal dashboard showing the bot's status, currently open
game sessions and a live log tail. The bot can be started and stopped
from inside the panel.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logs := logging.NewRingWriter(200)
		logger := logging.NewCaptured(cfg.LogLevel, logs)

		app, err := buildApp(cfg, logger)
		if err != nil {
			return err
		}
		defer app.close()

		return tui.RunPanel(app.bot, app.tracker, logs)
	},
}
