package main

import (
	"context"
	"database/sql"
	"log"
	netHttp "net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"lead-intake/config"
	"lead-intake/db"
	"lead-intake/http"
	"lead-intake/http/handlers"
	"lead-intake/logger"
	"lead-intake/services"
	"lead-intake/store"
)

const (
	dispatchTimeout = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Determine project root by searching upward for go.mod so relative
	// DATA_DIR and SITE_DIR resolve the same way from any cwd.
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal("Error getting current working directory:", err)
	}
	if root := findProjectRoot(cwd); root != "" {
		if err := os.Chdir(root); err != nil {
			log.Fatal("Error changing to project root:", err)
		}
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading configuration:", err)
	}

	logger.SetDefault(logger.New(logger.Config{
		Level: logger.ParseLevel(cfg.LogLevel),
		JSON:  cfg.LogFormat == "json",
	}))

	leadStore := store.NewLeadStore(cfg.LeadsPath())
	logger.Info("Lead log: %s", leadStore.Path())

	// Kafka producer (disabled when KAFKA_BROKERS is empty)
	producer := services.NewProducer(cfg.Brokers())

	var listeners []services.LeadListener
	if producer.Enabled() {
		listeners = append(listeners, services.NewLeadEvents(producer, cfg.KafkaLeadTopic))
	}
	if notifier := services.NewEmailNotifier(cfg); notifier != nil {
		listeners = append(listeners, notifier)
	}

	// Reporting mirror (non-fatal)
	var conn *sql.DB
	if cfg.MirrorEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		conn, err = db.Open(ctx, cfg)
		cancel()
		if err != nil {
			logger.Warn("Postgres mirror disabled: %v", err)
		} else {
			listeners = append(listeners, services.NewLeadMirror(conn))
		}
	}

	dispatcher := services.NewDispatcher(dispatchTimeout, listeners...)

	webhook := services.NewPaymentWebhook(cfg.RazorpayWebhookSecret, producer, cfg.KafkaPaymentTopic)

	handler := http.SetupRoutes(netHttp.NewServeMux(), http.Routes{
		Leads:      handlers.NewLeadService(leadStore, dispatcher),
		Payments:   handlers.NewPaymentHandlers(services.NewCheckoutService(cfg), webhook),
		AdminToken: cfg.AdminToken,
		SiteDir:    cfg.SiteDir,
	})

	server := &netHttp.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting on %s (%s)", server.Addr, cfg.BaseURL())
		if err := server.ListenAndServe(); err != nil && err != netHttp.ErrServerClosed {
			logger.Fatal("Server error: %v", err)
		}
	}()

	<-sigChan
	logger.Info("Shutdown signal received, draining requests...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Error shutting down server: %v", err)
	}

	dispatcher.Wait()
	webhook.Wait()

	if err := producer.Close(); err != nil {
		logger.Error("Error closing Kafka producer: %v", err)
	}
	if conn != nil {
		conn.Close()
	}

	logger.Info("Server shutdown complete")
}

// findProjectRoot walks up from start and returns the first directory containing go.mod
func findProjectRoot(start string) string {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir || strings.HasSuffix(dir, ":\\") || parent == "" {
			break
		}
		dir = parent
	}
	return ""
}
