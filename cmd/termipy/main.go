package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ganesh9880/termipy/internal/infrastructure/config"
	"github.com/ganesh9880/termipy/internal/infrastructure/logging"
	"github.com/ganesh9880/termipy/internal/infrastructure/server"
	"github.com/ganesh9880/termipy/internal/repl"
)

func main() {
	web := flag.Bool("web", false, "Run the HTTP front end instead of the interactive prompt")
	port := flag.String("port", "", "Override the HTTP port (web mode)")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}

	var logger *logging.Logger
	switch {
	case *web && cfg.Logging.Development:
		logger = logging.NewDevelopment()
	case *web:
		logger = logging.NewDefault()
	default:
		// The prompt owns the terminal; keep log noise out of it.
		logger = logging.Nop()
	}
	defer logger.Sync()

	rt, err := server.NewRuntime(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "termipy: %v\n", err)
		os.Exit(1)
	}

	if *web {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := server.NewServer(rt).Run(ctx); err != nil {
			logger.Error("server failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	// Interactive mode: the line editor intercepts Ctrl-C itself, so no
	// signal context here.
	code := repl.New(rt).Run(context.Background())
	rt.Close()
	os.Exit(code)
}
