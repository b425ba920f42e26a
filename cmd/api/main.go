package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"storefront-api/internal/config"
	"storefront-api/internal/httpserver"
	"storefront-api/internal/logging"
	authsvc "storefront-api/internal/service/auth"
	cartsvc "storefront-api/internal/service/cart"
	ordersvc "storefront-api/internal/service/order"
	paymentsvc "storefront-api/internal/service/payment"
	productsvc "storefront-api/internal/service/product"
	"storefront-api/internal/store"
	"storefront-api/internal/tracing"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, "api")

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("api stopped")
	}
}

// run owns every resource that needs releasing, so its defers execute before
// main decides the exit code.
func run(cfg config.Config, logger zerolog.Logger) error {
	ctx := context.Background()

	if cfg.OTELCollectorHost != "" {
		tp, err := tracing.InitTracing(ctx, cfg.OTELCollectorHost, "storefront-api")
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("shutdown tracer provider")
			}
		}()
	}

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			logger.Error().Err(err).Msg("close store")
		}
	}()
	logger.Info().Str("driver", cfg.StoreDriver).Msg("store ready")

	srv, err := httpserver.New(cfg.HTTPAddr, logger, st, httpserver.Deps{
		AuthSvc:    authsvc.New(st.Users, st.Roles),
		ProductSvc: productsvc.New(st.Products),
		CartSvc:    cartsvc.New(st.Carts, st.Products, st.Users),
		OrderSvc:   ordersvc.New(st.Carts, st.Products, st.Orders, st.Users),
		PaymentSvc: paymentsvc.New(st.Orders, st.Payments),
	}, httpserver.Options{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MetricsEnabled:     cfg.MetricsEnabled,
	})
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-stopCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		runErr = fmt.Errorf("serve: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		logger.Info().Msg("server stopped")
	}
	return runErr
}
