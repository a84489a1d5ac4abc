package commands

import (
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "gametrack",
	Short: "A Discord game activity tracker",
	Long: `gametrack watches member presence on a Discord server, records game
sessions to a local SQLite database, and answers chat commands with play
statistics, recommendations, and weekly calendar renderings.`,
}

// SetVersion sets the version information.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(panelCmd)
	rootCmd.AddCommand(versionCmd)
}
