package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/opencounter/pos/internal"
	"github.com/opencounter/pos/internal/cart"
	"github.com/opencounter/pos/internal/catalog"
	"github.com/opencounter/pos/internal/checkout"
	"github.com/opencounter/pos/internal/events"
	"github.com/opencounter/pos/internal/handler"
	"github.com/opencounter/pos/internal/middleware"
	"github.com/opencounter/pos/internal/notify"
	"github.com/opencounter/pos/internal/router"
	"github.com/opencounter/pos/internal/telemetry"
)

func run() error {
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	logger.Info().Str("store", cfg.StoreName).Str("env", cfg.Env).Msg("starting terminal")

	taxRate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return fmt.Errorf("invalid TAX_RATE %q: %w", cfg.TaxRate, err)
	}

	backend, err := catalog.NewClient(catalog.Config{
		BaseURL: cfg.Backend.BaseURL,
		Token:   cfg.Backend.Token,
		Timeout: cfg.Backend.Timeout,
	})
	if err != nil {
		return fmt.Errorf("backend client initialization failed: %w", err)
	}

	// One cart per running terminal: created empty here, cleared only by a
	// successful order submission. Never persisted across restarts.
	store := cart.NewStore()
	pricing := cart.NewPricing(taxRate)
	alerts := notify.NewQueue(16)

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			// Event publishing is best-effort; the terminal still sells.
			logger.Warn().Err(err).Msg("nats connect failed, events disabled")
		} else {
			publisher = natsPublisher
			logger.Info().Str("url", cfg.NATS.URL).Msg("event publishing enabled")
		}
	}
	defer publisher.Close()

	registry := prometheus.NewRegistry()
	posMetrics := telemetry.NewMetrics(registry)
	httpMetrics := middleware.NewMetrics("pos", registry)

	checkoutService := checkout.NewService(store, pricing, backend, publisher, alerts, posMetrics, logger)

	e := router.New(logger, httpMetrics, registry, router.Handlers{
		Cart:     handler.NewCartHandler(store, pricing, backend, posMetrics),
		Catalog:  handler.NewCatalogHandler(backend, store),
		Checkout: handler.NewCheckoutHandler(checkoutService),
		Orders:   handler.NewOrdersHandler(backend),
		Alerts:   handler.NewAlertsHandler(alerts),
	})

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info().Str("addr", addr).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
