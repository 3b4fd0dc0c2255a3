package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"marinequote/internal/config"
	"marinequote/internal/server"
	"marinequote/internal/session"
	"marinequote/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ws, err := session.New(db, cfg)
	must(err)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(cfg, db, ws)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		must(err)
	}
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
