package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mkaleng/restopos/internal/ledger"
	"github.com/mkaleng/restopos/internal/pos"
	"github.com/mkaleng/restopos/internal/telemetry"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "pos", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	catalogServiceURL := os.Getenv("CATALOG_SERVICE_URL")
	if catalogServiceURL == "" {
		logger.Error("CATALOG_SERVICE_URL is required")
		os.Exit(1)
	}

	billingServiceURL := os.Getenv("BILLING_SERVICE_URL")
	if billingServiceURL == "" {
		logger.Error("BILLING_SERVICE_URL is required")
		os.Exit(1)
	}

	printerServiceURL := os.Getenv("PRINTER_SERVICE_URL")
	if printerServiceURL == "" {
		logger.Error("PRINTER_SERVICE_URL is required")
		os.Exit(1)
	}

	org := ledger.Organization{
		Name:    os.Getenv("ORG_NAME"),
		Address: os.Getenv("ORG_ADDRESS"),
		Phone:   os.Getenv("ORG_PHONE"),
	}

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	store := pos.NewStore()
	catalogClient := pos.NewCatalogClient(catalogServiceURL, httpClient)
	billingClient := pos.NewBillingClient(billingServiceURL, httpClient)
	printerClient := pos.NewPrinterClient(printerServiceURL, httpClient)
	notifier := pos.NewSlogNotifier(logger)

	handler := pos.NewHandler(store, catalogClient, billingClient, printerClient, notifier, org, logger)

	mux := http.NewServeMux()
	handler.Register(mux)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8085"
	}

	server := &http.Server{
		Addr: ":" + port,
		Handler: otelhttp.NewHandler(mux, "pos",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting pos service", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
