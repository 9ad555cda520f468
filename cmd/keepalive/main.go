// keepalive periodically pings the honeypot health endpoint so free-tier
// hosts don't idle the service out.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/scamshield/honeypot/internal/logging"
)

var (
	targetURL = flag.String("url", "http://localhost:8080/health", "Health endpoint to ping")
	interval  = flag.Duration("interval", 10*time.Minute, "Ping interval")
	timeout   = flag.Duration("timeout", 30*time.Second, "Per-request timeout")
	verbose   = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, false)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	client := &http.Client{Timeout: *timeout}

	logger.Info("Keepalive started",
		zap.String("url", *targetURL),
		zap.Duration("interval", *interval))

	ping(client, logger)
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for range ticker.C {
		ping(client, logger)
	}
}

func ping(client *http.Client, logger *zap.Logger) {
	started := time.Now()
	resp, err := client.Get(*targetURL)
	if err != nil {
		logger.Warn("Health ping failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	logger.Info("Health ping",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))
}
