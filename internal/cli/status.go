package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DukkanBot/DukkanBot/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("🏷️ DukkanBot Version")
		fmt.Printf("Version: %s\n", version)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("📊 DukkanBot Status")
		fmt.Printf("Version: %s\n", version)

		configPath, _ := config.ConfigPath()
		if _, err := os.Stat(configPath); err == nil {
			fmt.Println("Config:   ✓ Found (" + configPath + ")")
		} else {
			fmt.Println("Config:   ✗ Not found (" + configPath + ")")
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Config:   ✗ Unreadable: %v\n", err)
			return
		}

		if _, err := os.Stat(cfg.Store.Path); err == nil {
			fmt.Println("Store:    ✓ " + cfg.Store.Path)
		} else {
			fmt.Println("Store:    ✗ Not created yet (" + cfg.Store.Path + ")")
		}

		fmt.Printf("Admins:   %d configured\n", len(cfg.Admin.IDs))
		fmt.Println("Telegram: " + enabledMark(cfg.Channels.Telegram.Enabled))
		fmt.Println("Slack:    " + enabledMark(cfg.Channels.Slack.Enabled))

		if problems := cfg.Validate(); len(problems) > 0 {
			fmt.Println("Status:   Not ready")
			for _, p := range problems {
				fmt.Println("  - " + p)
			}
			return
		}
		fmt.Println("Status:   Ready")
	},
}

func enabledMark(enabled bool) string {
	if enabled {
		return "✓ Enabled"
	}
	return "✗ Disabled"
}
