package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"marketplace-phone-bot/internal/config"
	"marketplace-phone-bot/internal/monitor"
	"marketplace-phone-bot/internal/notifier"
	"marketplace-phone-bot/internal/source"
)

func main() {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting marketplace phone monitor...")
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Critical error loading configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	n := notifier.New(cfg.WebhookURL)
	src := source.New(cfg, source.LoadConfig())
	m := monitor.New(src, n, cfg)

	startupMsg := fmt.Sprintf(
		"🚀 Monitoring started for %s phones!\n⏰ Check interval: %d seconds\n💰 Price range: £%d - £%d",
		strings.Join(cfg.BrandNames, ", "), cfg.IntervalSeconds, cfg.MinPrice, cfg.MaxPrice)
	if err := n.NotifyStatus(ctx, startupMsg, 0x00FF00); err != nil {
		slog.Warn("Failed to send startup status", "error", err)
	}

	err = m.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Monitoring loop stopped unexpectedly", "error", err)
		os.Exit(1)
	}

	// The run context is cancelled at this point; give the stop status its
	// own short-lived one.
	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := n.NotifyStatus(stopCtx, "⏹️ Monitoring stopped", 0xFF0000); err != nil {
		slog.Warn("Failed to send stop status", "error", err)
	}

	slog.Info("Monitor stopped.")
}
