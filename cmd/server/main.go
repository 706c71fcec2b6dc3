package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tradebot/gopaca/internal/alpaca"
	"github.com/tradebot/gopaca/internal/guard"
	"github.com/tradebot/gopaca/internal/server"
	"github.com/tradebot/gopaca/internal/trading"
	"github.com/tradebot/gopaca/pkg/config"
	"github.com/tradebot/gopaca/pkg/logger"
)

func main() {
	// Load .env (best-effort). If missing, fall back to real env vars.
	_ = godotenv.Load()

	getenv := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return def
	}

	var (
		configPath = flag.String("config", getenv("GOPACA_CONFIG", ""), "optional YAML config file")
		listenAddr = flag.String("listen", getenv("GOPACA_LISTEN", ""), "HTTP listen address (overrides config)")
	)
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	if *listenAddr != "" {
		cfg.Listen = *listenAddr
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputFile: cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	}); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}

	client := alpaca.NewClient(cfg.BaseURL, cfg.APIKey, cfg.APISecret, cfg.RequestTimeout)
	allowed := guard.NewAllowList(cfg.AllowedSymbols)
	engine := trading.NewEngine(client, allowed, cfg.MaxOrderValue, trading.DefaultPollPolicy)
	srv := server.New(client, engine, allowed)

	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("gopaca listening on %s (upstream %s)", cfg.Listen, cfg.BaseURL)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http server error: %v", err)
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	<-stopCh

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)

	fmt.Println("server stopped")
}
