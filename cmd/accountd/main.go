package main

import (
	"log/slog"
	"os"

	"github.com/nfrund/accountdesk/internal/config"
	"github.com/nfrund/accountdesk/internal/logging"
	"github.com/nfrund/accountdesk/internal/server"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.GetLogFormat(), cfg.GetLogLevel(), os.Stdout)
	srv := server.New(server.WithLogger(logger))

	if err := srv.Start(cfg.GetListenAddr()); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}
