package stock

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mkaleng/restopos/internal/domain"
)

type Handler struct {
	repo   *Repository
	logger *slog.Logger
}

func NewHandler(repo *Repository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /stock/{depot}", h.HandleListStock)
	mux.HandleFunc("GET /stock/{depot}/{productId}", h.HandleGetLevel)
	mux.HandleFunc("GET /stock/{depot}/{productId}/movements", h.HandleListMovements)
	mux.HandleFunc("POST /stock/{depot}/{productId}/movements", h.HandleRecordMovement)
}

func (h *Handler) HandleListStock(w http.ResponseWriter, r *http.Request) {
	depot := r.PathValue("depot")
	levels, err := h.repo.ListByDepot(r.Context(), depot)
	if err != nil {
		h.logger.Error("failed to list stock", "error", err, "depot", depot)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if levels == nil {
		levels = []domain.StockLevel{}
	}
	h.writeJSON(w, http.StatusOK, levels)
}

func (h *Handler) HandleGetLevel(w http.ResponseWriter, r *http.Request) {
	depot := r.PathValue("depot")
	productID := r.PathValue("productId")

	level, err := h.repo.GetLevel(r.Context(), depot, productID)
	if err != nil {
		h.logger.Error("failed to get stock level", "error", err, "depot", depot, "product_id", productID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if level == nil {
		h.writeError(w, http.StatusNotFound, "no stock entry for this product")
		return
	}
	h.writeJSON(w, http.StatusOK, level)
}

type movementRequest struct {
	Type      domain.MovementType `json:"type"`
	Quantity  int                 `json:"quantity"`
	Reference string              `json:"reference"`
}

// HandleRecordMovement validates manual entries the way the POS screens do: a
// missing or non-positive quantity is rejected before touching the ledger.
func (h *Handler) HandleRecordMovement(w http.ResponseWriter, r *http.Request) {
	depot := r.PathValue("depot")
	productID := r.PathValue("productId")

	var req movementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity < 1 {
		h.writeError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}
	if req.Type != domain.MovementEntree && req.Type != domain.MovementSortie {
		h.writeError(w, http.StatusBadRequest, "type must be entree or sortie")
		return
	}

	movement := &domain.StockMovement{
		DepotCode: depot,
		ProductID: productID,
		Type:      req.Type,
		Quantity:  req.Quantity,
		Reference: req.Reference,
	}

	if err := h.repo.RecordMovement(r.Context(), movement); err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			h.writeError(w, http.StatusConflict, "insufficient stock")
			return
		}
		h.logger.Error("failed to record movement", "error", err, "depot", depot, "product_id", productID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("movement recorded", "depot", depot, "product_id", productID, "type", movement.Type, "quantity", movement.Quantity)
	h.writeJSON(w, http.StatusCreated, movement)
}

func (h *Handler) HandleListMovements(w http.ResponseWriter, r *http.Request) {
	depot := r.PathValue("depot")
	productID := r.PathValue("productId")

	movements, err := h.repo.ListMovements(r.Context(), depot, productID)
	if err != nil {
		h.logger.Error("failed to list movements", "error", err, "depot", depot, "product_id", productID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if movements == nil {
		movements = []domain.StockMovement{}
	}
	h.writeJSON(w, http.StatusOK, movements)
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
