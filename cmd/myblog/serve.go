package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"myblog/internal/domain/config"
	"myblog/internal/serve"
)

func main() {
	cfg, err := config.LoadOrDefault("./site.yaml")
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := serve.New(cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "serve init error:", err.Error())
		os.Exit(1)
	}
	defer s.Close()

	if err := s.ListenAndServe(ctx, cfg.Serve.Addr); err != nil {
		fmt.Fprintln(os.Stderr, "serve error:", err.Error())
		os.Exit(1)
	}
}
