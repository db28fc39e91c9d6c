package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"velvetvogue-be/internal/config"
	"velvetvogue-be/internal/db"
	"velvetvogue-be/internal/logger"
	"velvetvogue-be/internal/mailer"
	"velvetvogue-be/internal/mailqueue"
)

// One sweep per invocation; scheduling belongs to cron or the platform's
// job runner, not to this binary.
func main() {
	maxRetries := flag.Int("max-retries", 0, "override the per-email attempt cap for this run (0 = use stored max)")
	timeout := flag.Duration("timeout", 5*time.Minute, "abort the sweep after this long")
	flag.Parse()

	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	queueSvc := mailqueue.NewService(
		mailqueue.NewRepository(database),
		mailer.NewSMTPTransport(cfg),
		mailqueue.Options{
			BaseDelay:   cfg.RetryBaseDelay,
			Lease:       cfg.SendingLease,
			MaxAttempts: cfg.MailMaxRetries,
		},
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var override *int
	if *maxRetries > 0 {
		override = maxRetries
	}

	stats, err := queueSvc.Sweep(ctx, override)
	if err != nil {
		logger.L().Fatal("retry sweep failed", zap.Error(err))
	}

	logger.L().Info("retry sweep finished",
		zap.Int("processed", stats.Processed),
		zap.Int("sent", stats.Sent),
		zap.Int("failed", stats.Failed),
		zap.Int("permanent_failures", stats.PermanentFailures),
		zap.Int("skipped", stats.Skipped),
	)
}
