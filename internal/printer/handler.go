package printer

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/mkaleng/restopos/internal/domain"
)

type Handler struct {
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
	}
}

type printResponse struct {
	Status string `json:"status"`
}

// HandlePrint simulates driving a thermal receipt printer. The delay stands in
// for the time the physical device takes to feed and cut the paper.
func (h *Handler) HandlePrint(w http.ResponseWriter, r *http.Request) {
	var doc domain.ReceiptDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(doc.Lines) == 0 {
		h.writeError(w, http.StatusBadRequest, "receipt has no lines")
		return
	}

	delay := time.Duration(50+rand.Intn(151)) * time.Millisecond
	time.Sleep(delay)

	h.logger.Info("receipt printed",
		"table", doc.TableName,
		"operator", doc.Operator,
		"lines", len(doc.Lines),
		"net_total", doc.NetTotal,
	)

	h.writeJSON(w, http.StatusOK, printResponse{Status: "printed"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
