package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// version can be overridden at build time via:
	// go build -ldflags "-X github.com/DukkanBot/DukkanBot/internal/cli.version=1.2.3"
	version = "1.0.0"
	logo    = "\n" +
		"  ____          _    _                  ____        _\n" +
		" |  _ \\  _   _ | | _| | __  __ _  _ __ | __ )  ___ | |_\n" +
		" | | | || | | || |/ /| |/ / / _` || '_ \\|  _ \\ / _ \\| __|\n" +
		" | |_| || |_| ||   < |   < | (_| || | | | |_) | (_) | |_\n" +
		" |____/  \\__,_||_|\\_\\|_|\\_\\ \\__,_||_| |_|____/ \\___/ \\__|\n"
)

var rootCmd = &cobra.Command{
	Use:   "dukkanbot",
	Short: "DukkanBot - shop links over chat",
	Long:  color.CyanString(logo) + "\nA menu-driven chat bot that hands field agents their assigned shop links.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
}
