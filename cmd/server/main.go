package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/promptstore/internal/config"
	"github.com/JaimeStill/promptstore/internal/infrastructure"
)

func main() {
	cfg, diag, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	logger := infrastructure.NewLogger(cfg.Debug)
	logger.Info(
		"promptstore starting",
		"version", cfg.Version,
		"addr", cfg.Server.Addr(),
		"env", cfg.Env(),
	)
	logger.Debug(
		"configuration loaded",
		"files", diag.Files,
		"dotenv", diag.Dotenv,
		"dotenv_applied", diag.Applied,
		"dotenv_skipped", diag.Skipped,
	)
	for _, w := range diag.Warnings {
		logger.Warn("configuration warning", "detail", w)
	}

	srv, err := NewServer(cfg)
	if err != nil {
		log.Fatal("server init failed: ", err)
	}

	if err := srv.Start(); err != nil {
		log.Fatal("server start failed: ", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if err := srv.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("promptstore stopped")
}
