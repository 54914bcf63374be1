// cmd/notifier/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"docnotifier/internal/common/config"
	"docnotifier/internal/common/database"
	"docnotifier/internal/common/errors"
	"docnotifier/internal/common/logger"
	"docnotifier/internal/common/metrics"
	"docnotifier/internal/common/observability"
	"docnotifier/internal/models"
	"docnotifier/internal/pipeline/archive"
	"docnotifier/internal/pipeline/credential"
	"docnotifier/internal/pipeline/dispatch"
	"docnotifier/internal/pipeline/recipients"
	"docnotifier/internal/pipeline/render"
	"docnotifier/internal/pipeline/scan"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// buildMinDates resolves the per-class date floor from the global
// min_date plus any per-type overrides.
func buildMinDates(cfg *config.Config) (map[models.DocumentType]time.Time, error) {
	floor := time.Time{}
	if cfg.Notifier.MinDate != "" {
		parsed, err := time.Parse("2006-01-02", cfg.Notifier.MinDate)
		if err != nil {
			return nil, fmt.Errorf("invalid notifier.min_date %q: %w", cfg.Notifier.MinDate, err)
		}
		floor = parsed
	}

	minDates := make(map[models.DocumentType]time.Time, len(models.Classes))
	for _, class := range models.Classes {
		minDates[class.Type] = floor
		if override, ok := cfg.Notifier.MinDates[string(class.Type)]; ok && override != "" {
			parsed, err := time.Parse("2006-01-02", override)
			if err != nil {
				return nil, fmt.Errorf("invalid notifier.min_dates[%s] %q: %w", class.Type, override, err)
			}
			minDates[class.Type] = parsed
		}
	}
	return minDates, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting document notifier...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	minDates, err := buildMinDates(cfg)
	if err != nil {
		zapLog.Fatal("date floor configuration invalid", zap.Error(err))
	}

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Build the pipeline ---
	var dispatcher dispatch.Dispatcher
	switch cfg.Mail.Provider {
	case "ses":
		dispatcher, err = dispatch.NewSESDispatcher(ctx, cfg.Mail, log)
		if err != nil {
			zapLog.Fatal("ses dispatcher init failed", zap.Error(err))
		}
	default:
		smtpDispatcher := dispatch.NewSMTPDispatcher(cfg.Mail, log)
		if err := smtpDispatcher.TestConnection(ctx); err != nil {
			zapLog.Warn("smtp connection check failed, continuing anyway", zap.Error(err))
		}
		dispatcher = smtpDispatcher
	}
	zapLog.Info("Mail dispatcher initialized", zap.String("provider", cfg.Mail.Provider))

	renderer, err := render.NewRenderer()
	if err != nil {
		zapLog.Fatal("template compilation failed", zap.Error(err))
	}

	scanner := scan.NewScanner(
		scan.Config{
			BaseURL:  cfg.Notifier.BaseURL,
			Policy:   cfg.Notifier.Policy,
			From:     cfg.Mail.From,
			FromName: cfg.Mail.FromName,
			CC:       cfg.Mail.CC,
			MinDates: minDates,
		},
		pg.GetDB(),
		credential.NewIssuer(pg.GetDB(), log),
		recipients.NewResolver(pg.GetDB(), log),
		renderer,
		dispatcher,
		archive.NewWriter(cfg.IMAP, log),
		log,
	)

	lock := scan.NewLock(rdb.GetClient(), config.GetDuration(cfg.Notifier.LockTTL), log)

	// --- Health & Metrics Server ---
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
			})
			mux.Handle("/metrics", promhttp.Handler())
			zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
			if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
				zapLog.Error("Health/Metrics server failed", zap.Error(err))
			}
		}()
	}

	// --- Scan loop ---
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	interval := config.GetDuration(cfg.Notifier.Interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	zapLog.Info("Scan loop started", zap.Duration("interval", interval))

	done := make(chan struct{})
	go func() {
		defer close(done)
		// First scan fires immediately, not one interval in
		runScan(runCtx, scanner, lock, obs, log)
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				runScan(runCtx, scanner, lock, obs, log)
			}
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping scan loop...")
	cancel()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		zapLog.Warn("scan loop did not stop within shutdown timeout")
	}

	zapLog.Info("Document notifier stopped")
}

// runScan executes one lock-guarded scan invocation.
func runScan(ctx context.Context, scanner *scan.Scanner, lock *scan.Lock, obs *observability.Observability, log logger.Logger) {
	release, acquired, err := lock.Acquire(ctx)
	if err != nil {
		log.WithError(err).Error("scan lock acquisition failed", nil)
		return
	}
	if !acquired {
		metrics.ScansSkipped.Inc()
		obs.RecordScan(ctx, "skipped")
		log.Info("previous scan still running, skipping this tick", nil)
		return
	}
	defer release()

	start := time.Now()
	status := "success"
	if err := scanner.Scan(ctx); err != nil {
		status = "error"
		fields := map[string]interface{}{}
		if stdErr, ok := err.(*errors.StandardError); ok {
			fields["category"] = errors.GetErrorCategory(stdErr.Code)
			fields["retryable"] = stdErr.Retryable
		}
		log.WithError(err).Error("scan invocation failed", fields)
	}

	elapsed := time.Since(start)
	metrics.ScanDuration.Observe(elapsed.Seconds())
	obs.RecordScan(ctx, status)
	obs.RecordScanDuration(ctx, elapsed, status)
}
