package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DukkanBot/DukkanBot/internal/bus"
	"github.com/DukkanBot/DukkanBot/internal/channels"
	"github.com/DukkanBot/DukkanBot/internal/config"
	"github.com/DukkanBot/DukkanBot/internal/flow"
	"github.com/DukkanBot/DukkanBot/internal/session"
	"github.com/DukkanBot/DukkanBot/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bot (Telegram, Slack)",
	Run:   runServe,
}

var serveSignalNotify = signal.Notify
var serveSignalStop = signal.Stop

func runServe(cmd *cobra.Command, args []string) {
	printHeader("🌐 DukkanBot")
	fmt.Println("Starting DukkanBot...")

	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		os.Exit(1)
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		for _, p := range problems {
			fmt.Println("Config problem: " + p)
		}
		os.Exit(1)
	}

	// 2. Open the store
	if err := config.EnsureDir(filepath.Dir(cfg.Store.Path)); err != nil {
		fmt.Printf("Store dir error: %v\n", err)
		os.Exit(1)
	}
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		fmt.Printf("Failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	// 3. Bus + router
	msgBus := bus.New()
	sessions := session.NewManager()
	router := flow.New(st, sessions, cfg.Admin.IDs)

	// 4. Channels
	telegram := channels.NewTelegramChannel(cfg.Channels.Telegram, msgBus)
	slack := channels.NewSlackChannel(cfg.Channels.Slack, msgBus)

	// 5. Start everything
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	serveSignalNotify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer serveSignalStop(sigChan)

	go func() {
		if err := msgBus.DispatchRenders(ctx); err != nil && ctx.Err() == nil {
			slog.Error("render dispatch stopped", "error", err)
			cancel()
		}
	}()
	go func() {
		if err := router.Run(ctx, msgBus); err != nil && ctx.Err() == nil {
			slog.Error("router stopped", "error", err)
			cancel()
		}
	}()

	if err := telegram.Start(ctx); err != nil {
		fmt.Printf("Failed to start Telegram: %v\n", err)
	}
	if err := slack.Start(ctx); err != nil {
		fmt.Printf("Failed to start Slack: %v\n", err)
	}

	fmt.Println("DukkanBot running. Press Ctrl+C to stop.")
	select {
	case <-sigChan:
	case <-ctx.Done():
	}

	fmt.Println("Shutting down...")
	cancel()
	telegram.Stop()
	slack.Stop()
}
