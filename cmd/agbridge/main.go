package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pgiacalo/TheIntercom/internal/bridge"
	"github.com/pgiacalo/TheIntercom/internal/config"
	"github.com/pgiacalo/TheIntercom/internal/httpserver"
	"github.com/pgiacalo/TheIntercom/internal/monitor"
	"github.com/pgiacalo/TheIntercom/internal/serialio"
)

func main() {
	// Include sub-second precision in all log timestamps
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	cfg := config.Load()

	b, err := bridge.New(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("bridge: %v", err)
	}
	if err := b.Start(); err != nil {
		log.Fatalf("bridge start: %v", err)
	}

	stats := func() httpserver.Stats {
		return httpserver.Stats{
			AudioRunning:  b.Engine.Running(),
			AudioCodec:    b.Engine.Codec().String(),
			RingOccupancy: b.Engine.Occupancy(),
			QueueDepth:    b.Dispatcher.Depth(),
		}
	}
	srv := httpserver.New(stats, monitor.NewHandler(b.Engine), b.NewParser)

	server := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           srv.Echo,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in background
	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", cfg.HTTPAddress)
		serverErrors <- server.ListenAndServe()
	}()

	// Serial command feed, when a port is configured
	feedCtx, cancelFeeds := context.WithCancel(context.Background())
	defer cancelFeeds()
	if cfg.SerialPort != "" {
		port, err := serialio.Open(cfg.SerialPort, cfg.SerialBaud)
		if err != nil {
			log.Fatalf("serial open %s: %v", cfg.SerialPort, err)
		}
		go func() {
			defer port.Close()
			if err := serialio.FeedLoop(feedCtx, port, b.NewParser()); err != nil && err != context.Canceled {
				log.Printf("serial feed stopped: %v", err)
			}
		}()
	}

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	case sig := <-sigChan:
		log.Printf("shutdown signal received: %v", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = server.Close()
	}
	cancelFeeds()
	b.Shutdown()
}
