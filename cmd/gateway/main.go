package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkaleng/restopos/internal/gateway"
	"github.com/mkaleng/restopos/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "gateway", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	posServiceURL := os.Getenv("POS_SERVICE_URL")
	if posServiceURL == "" {
		logger.Error("POS_SERVICE_URL is required")
		os.Exit(1)
	}

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

	stockServiceURL := os.Getenv("STOCK_SERVICE_URL")
	if stockServiceURL == "" {
		logger.Error("STOCK_SERVICE_URL is required")
		os.Exit(1)
	}

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	posProxy := gateway.NewServiceProxy(posServiceURL, httpClient)
	catalogProxy := gateway.NewServiceProxy(catalogServiceURL, httpClient)
	billingProxy := gateway.NewServiceProxy(billingServiceURL, httpClient)
	stockProxy := gateway.NewServiceProxy(stockServiceURL, httpClient)
	handler := gateway.NewHandler(posProxy, catalogProxy, billingProxy, stockProxy, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/pos/sessions", telemetry.WithHTTPRoute(handler.HandlePOS))
	mux.HandleFunc("/pos/sessions/{id}", telemetry.WithHTTPRoute(handler.HandlePOS))
	mux.HandleFunc("/pos/sessions/{id}/{rest...}", telemetry.WithHTTPRoute(handler.HandlePOS))
	mux.HandleFunc("GET /products", telemetry.WithHTTPRoute(handler.HandleCatalog))
	mux.HandleFunc("POST /products", telemetry.WithHTTPRoute(handler.HandleCatalog))
	mux.HandleFunc("GET /products/{id}", telemetry.WithHTTPRoute(handler.HandleCatalog))
	mux.HandleFunc("PUT /products/{id}", telemetry.WithHTTPRoute(handler.HandleCatalog))
	mux.HandleFunc("DELETE /products/{id}", telemetry.WithHTTPRoute(handler.HandleCatalog))
	mux.HandleFunc("GET /categories", telemetry.WithHTTPRoute(handler.HandleCatalog))
	mux.HandleFunc("/tables", telemetry.WithHTTPRoute(handler.HandleCatalog))
	mux.HandleFunc("/tables/{id}", telemetry.WithHTTPRoute(handler.HandleCatalog))
	mux.HandleFunc("/tables/{id}/occupied", telemetry.WithHTTPRoute(handler.HandleCatalog))
	mux.HandleFunc("/config/exchange-rate", telemetry.WithHTTPRoute(handler.HandleCatalog))
	mux.HandleFunc("GET /factures", telemetry.WithHTTPRoute(handler.HandleBilling))
	mux.HandleFunc("POST /factures", telemetry.WithHTTPRoute(handler.HandleBilling))
	mux.HandleFunc("GET /factures/{id}", telemetry.WithHTTPRoute(handler.HandleBilling))
	mux.HandleFunc("PATCH /factures/{id}/status", telemetry.WithHTTPRoute(handler.HandleBilling))
	mux.HandleFunc("GET /reports/daily", telemetry.WithHTTPRoute(handler.HandleBilling))
	mux.HandleFunc("GET /stock/{depot}", telemetry.WithHTTPRoute(handler.HandleStock))
	mux.HandleFunc("GET /stock/{depot}/{productId}", telemetry.WithHTTPRoute(handler.HandleStock))
	mux.HandleFunc("/stock/{depot}/{productId}/movements", telemetry.WithHTTPRoute(handler.HandleStock))

	server := &http.Server{
		Addr: ":" + port,
		Handler: otelhttp.NewHandler(mux, "gateway",
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
		logger.Info("starting gateway service", "port", port)
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
