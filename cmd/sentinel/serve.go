package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wardline/sentinel/internal/api"
	"github.com/wardline/sentinel/internal/challenge"
	"github.com/wardline/sentinel/internal/config"
	"github.com/wardline/sentinel/internal/evaluator"
	"github.com/wardline/sentinel/internal/logging"
	"github.com/wardline/sentinel/internal/tracker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Sentinel server",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	path := configPath
	if path == "" {
		path = os.Getenv("SENTINEL_CONFIG")
	}
	cfg := config.Load(path)

	if port := os.Getenv("PORT"); port != "" {
		cfg.ListenAddr = ":" + port
	} else if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}

	zlog, err := logging.New()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	store := challenge.New()
	trk := tracker.New(func(ip string, v evaluator.Verdict) {
		logging.BotVerdict(zlog, "", ip, v.Verdict, v.Score, v.Code, zap.String("reason", v.Reason))
	})

	router := api.NewRouter(cfg, zlog, store, trk)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		zlog.Info("shutting down server")
		server.Close()
	}()

	zlog.Info("sentinel starting", zap.String("version", Version), zap.String("addr", cfg.ListenAddr))

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
