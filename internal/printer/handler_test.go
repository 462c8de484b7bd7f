package printer

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestHandler() *Handler {
	return NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandlePrint(t *testing.T) {
	t.Run("prints a receipt with lines", func(t *testing.T) {
		handler := newTestHandler()

		body := `{
			"organization": "Chez Mado",
			"tableName": "Table 4",
			"operator": "user-1",
			"lines": [{"productName": "Primus 72cl", "price": 2000, "qte": 2, "total": 4000}],
			"total": 4000,
			"netTotal": 4000
		}`
		req := httptest.NewRequest(http.MethodPost, "/print", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandlePrint(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["status"] != "printed" {
			t.Errorf("expected status 'printed', got %q", resp["status"])
		}
	})

	t.Run("rejects a receipt with no lines", func(t *testing.T) {
		handler := newTestHandler()

		req := httptest.NewRequest(http.MethodPost, "/print", strings.NewReader(`{"tableName": "Table 4"}`))
		rec := httptest.NewRecorder()

		handler.HandlePrint(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		handler := newTestHandler()

		req := httptest.NewRequest(http.MethodPost, "/print", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()

		handler.HandlePrint(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}
