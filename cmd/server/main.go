package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/yurifrl/rollup/pkg/config"
	"github.com/yurifrl/rollup/pkg/server"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "rollup",
	})

	flags := pflag.NewFlagSet("rollup-server", pflag.ExitOnError)
	cfgFile := flags.StringP("config", "c", "", "Config file (default is config.yaml)")
	flags.String("addr", ":8080", "Listen address")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.Int("cache", 64, "Analysis cache size, 0 disables it")
	flags.Duration("cache-ttl", 0, "Analysis cache entry lifetime")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Build(*cfgFile, flags)
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal("invalid log level", "err", err)
	}
	logger.SetLevel(level)

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting server", "addr", cfg.Server.Addr)
	if err := srv.Start(ctx); err != nil {
		logger.Fatal("server error", "err", err)
	}
	logger.Info("server stopped")
}
