package main

import (
	"log"
	"net/http"
	"time"

	"velvetvogue-be/internal/admin"
	"velvetvogue-be/internal/api"
	"velvetvogue-be/internal/cart"
	"velvetvogue-be/internal/category"
	"velvetvogue-be/internal/config"
	"velvetvogue-be/internal/db"
	"velvetvogue-be/internal/logger"
	"velvetvogue-be/internal/mailer"
	"velvetvogue-be/internal/mailqueue"
	"velvetvogue-be/internal/metrics"
	"velvetvogue-be/internal/order"
	"velvetvogue-be/internal/product"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	mailStats := &metrics.MailStats{}

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	categoryRepo := category.NewRepository(database)
	categorySvc := category.NewService(categoryRepo)

	cartStore := cart.NewStore(2 * time.Hour)
	cartSvc := cart.NewService(cartStore, productRepo)

	queueRepo := mailqueue.NewRepository(database)
	transport := mailer.NewSMTPTransport(cfg)
	queueSvc := mailqueue.NewService(queueRepo, transport, mailqueue.Options{
		BaseDelay:   cfg.RetryBaseDelay,
		Lease:       cfg.SendingLease,
		MaxAttempts: cfg.MailMaxRetries,
		Stats:       mailStats,
	})
	mailSvc := mailer.NewService(transport, queueSvc, cfg.AdminEmail, cfg.SiteURL, mailStats)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, cartSvc, mailSvc)

	authSvc := admin.NewService(cfg.AdminUsername, cfg.AdminPasswordHash)

	handler := api.NewHandler(
		productSvc, categorySvc, cartSvc, orderSvc,
		queueSvc, mailSvc, authSvc, nil,
	)

	log.Printf("🛍 Velvet Vogue API running at http://localhost:%s/", cfg.AppPort)
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, handler.Routes()))
}
