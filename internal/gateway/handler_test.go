package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func handlerWith(pos, catalog, billing, stock *ServiceProxy) *Handler {
	unused := NewServiceProxy("http://unused", http.DefaultClient)
	if pos == nil {
		pos = unused
	}
	if catalog == nil {
		catalog = unused
	}
	if billing == nil {
		billing = unused
	}
	if stock == nil {
		stock = unused
	}
	return NewHandler(pos, catalog, billing, stock, discardLogger())
}

func TestHandler_HandlePOS(t *testing.T) {
	t.Run("strips /pos prefix and forwards to pos service", func(t *testing.T) {
		posServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/sessions/abc/totals" {
				t.Errorf("expected /sessions/abc/totals, got %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"totalCdf":0}`))
		}))
		defer posServer.Close()

		handler := handlerWith(NewServiceProxy(posServer.URL, posServer.Client()), nil, nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/pos/sessions/abc/totals", nil)
		rec := httptest.NewRecorder()

		handler.HandlePOS(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
		if rec.Header().Get("Content-Type") != "application/json" {
			t.Errorf("expected application/json, got %s", rec.Header().Get("Content-Type"))
		}
	})

	t.Run("proxies POST /pos/sessions with body", func(t *testing.T) {
		posServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			if string(body) != `{"userId":"u-1","depotCode":"bar"}` {
				t.Errorf("unexpected body: %s", body)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"new-session"}`))
		}))
		defer posServer.Close()

		handler := handlerWith(NewServiceProxy(posServer.URL, posServer.Client()), nil, nil, nil)

		req := httptest.NewRequest(http.MethodPost, "/pos/sessions", strings.NewReader(`{"userId":"u-1","depotCode":"bar"}`))
		rec := httptest.NewRecorder()

		handler.HandlePOS(rec, req)

		if rec.Code != http.StatusCreated {
			t.Errorf("expected status 201, got %d", rec.Code)
		}
	})

	t.Run("returns 502 when pos service unavailable", func(t *testing.T) {
		handler := handlerWith(NewServiceProxy("http://localhost:99999", &http.Client{}), nil, nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/pos/sessions/abc", nil)
		rec := httptest.NewRecorder()

		handler.HandlePOS(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected status 502, got %d", rec.Code)
		}

		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["error"] != "service unavailable" {
			t.Errorf("expected 'service unavailable', got %s", resp["error"])
		}
	})
}

func TestHandler_HandleCatalog(t *testing.T) {
	t.Run("forwards catalog paths unchanged", func(t *testing.T) {
		catalogServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/config/exchange-rate" {
				t.Errorf("expected /config/exchange-rate, got %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"rate":2850}`))
		}))
		defer catalogServer.Close()

		handler := handlerWith(nil, NewServiceProxy(catalogServer.URL, catalogServer.Client()), nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/config/exchange-rate", nil)
		rec := httptest.NewRecorder()

		handler.HandleCatalog(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("preserves downstream error status", func(t *testing.T) {
		catalogServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"product not found"}`))
		}))
		defer catalogServer.Close()

		handler := handlerWith(nil, NewServiceProxy(catalogServer.URL, catalogServer.Client()), nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/products/unknown", nil)
		rec := httptest.NewRecorder()

		handler.HandleCatalog(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestHandler_HandleBilling(t *testing.T) {
	t.Run("forwards query string to billing service", func(t *testing.T) {
		billingServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/reports/daily" {
				t.Errorf("expected /reports/daily, got %s", r.URL.Path)
			}
			if r.URL.Query().Get("date") != "2025-06-01" {
				t.Errorf("expected date=2025-06-01, got %s", r.URL.RawQuery)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"count":3}`))
		}))
		defer billingServer.Close()

		handler := handlerWith(nil, nil, NewServiceProxy(billingServer.URL, billingServer.Client()), nil)

		req := httptest.NewRequest(http.MethodGet, "/reports/daily?date=2025-06-01", nil)
		rec := httptest.NewRecorder()

		handler.HandleBilling(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("returns 502 when billing service unavailable", func(t *testing.T) {
		handler := handlerWith(nil, nil, NewServiceProxy("http://localhost:99999", &http.Client{}), nil)

		req := httptest.NewRequest(http.MethodGet, "/factures", nil)
		rec := httptest.NewRecorder()

		handler.HandleBilling(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected status 502, got %d", rec.Code)
		}
	})
}

func TestHandler_HandleStock(t *testing.T) {
	t.Run("preserves downstream conflict status", func(t *testing.T) {
		stockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"insufficient stock"}`))
		}))
		defer stockServer.Close()

		handler := handlerWith(nil, nil, nil, NewServiceProxy(stockServer.URL, stockServer.Client()))

		req := httptest.NewRequest(http.MethodPost, "/stock/bar/p-1/movements", strings.NewReader(`{"type":"sortie","quantity":5}`))
		rec := httptest.NewRecorder()

		handler.HandleStock(rec, req)

		if rec.Code != http.StatusConflict {
			t.Errorf("expected status 409, got %d", rec.Code)
		}
	})
}
