package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"skywatch/internal/config"
	"skywatch/internal/daemon"
	"skywatch/internal/ledger"
	"skywatch/internal/logging"
	"skywatch/internal/notify"
	"skywatch/internal/votes"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	ledgerStore, err := ledger.Open(cfg)
	if err != nil {
		return fmt.Errorf("open ledger store: %w", err)
	}

	votesStore, err := votes.Open(cfg)
	if err != nil {
		_ = ledgerStore.Close()
		return fmt.Errorf("open voting store: %w", err)
	}

	d, err := daemon.New(cfg, ledgerStore, votesStore, notify.NewService(cfg), logger)
	if err != nil {
		_ = ledgerStore.Close()
		_ = votesStore.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		return fmt.Errorf("daemon start: %w", err)
	}

	<-ctx.Done()
	logger.Info("skywatchd shutting down")
	return nil
}
