package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

type Handler struct {
	posProxy     *ServiceProxy
	catalogProxy *ServiceProxy
	billingProxy *ServiceProxy
	stockProxy   *ServiceProxy
	logger       *slog.Logger
}

func NewHandler(posProxy, catalogProxy, billingProxy, stockProxy *ServiceProxy, logger *slog.Logger) *Handler {
	return &Handler{
		posProxy:     posProxy,
		catalogProxy: catalogProxy,
		billingProxy: billingProxy,
		stockProxy:   stockProxy,
		logger:       logger,
	}
}

// HandlePOS forwards the terminal session routes. The /pos prefix exists only
// on the gateway surface; the pos service itself mounts /sessions at the root.
func (h *Handler) HandlePOS(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/pos")
	h.proxyRequest(w, r, h.posProxy, path)
}

func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	h.proxyRequest(w, r, h.catalogProxy, r.URL.Path)
}

func (h *Handler) HandleBilling(w http.ResponseWriter, r *http.Request) {
	h.proxyRequest(w, r, h.billingProxy, r.URL.Path)
}

func (h *Handler) HandleStock(w http.ResponseWriter, r *http.Request) {
	h.proxyRequest(w, r, h.stockProxy, r.URL.Path)
}

func (h *Handler) proxyRequest(w http.ResponseWriter, r *http.Request, proxy *ServiceProxy, path string) {
	resp, err := proxy.ForwardRequest(r.Context(), r, path)
	if err != nil {
		h.logger.Error("failed to forward request", "error", err, "path", path)
		h.writeError(w, http.StatusBadGateway, "service unavailable")
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	w.WriteHeader(resp.StatusCode)

	h.logger.Info("request proxied", "method", r.Method, "path", path, "status", resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.Error("failed to copy response body", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		h.logger.Error("failed to encode error response", "error", err)
	}
}
