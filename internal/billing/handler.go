package billing

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mkaleng/restopos/internal/domain"
	"github.com/mkaleng/restopos/internal/messaging"
)

type Handler struct {
	repo     *Repository
	producer *messaging.Producer
	logger   *slog.Logger
}

func NewHandler(repo *Repository, producer *messaging.Producer, logger *slog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /factures", h.HandleCreate)
	mux.HandleFunc("GET /factures", h.HandleList)
	mux.HandleFunc("GET /factures/{id}", h.HandleGet)
	mux.HandleFunc("PATCH /factures/{id}/status", h.HandleUpdateStatus)
	mux.HandleFunc("GET /reports/daily", h.HandleDailyReport)
}

// HandleCreate records a facture from the POS payload and publishes
// facture.created once the transaction is committed.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req domain.FactureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.TableID == "" || req.UserID == "" {
		h.writeFailure(w, http.StatusBadRequest, "tableId and userId are required")
		return
	}
	if len(req.Ventes) == 0 {
		h.writeFailure(w, http.StatusBadRequest, "facture must carry at least one vente")
		return
	}
	for _, vente := range req.Ventes {
		if vente.ProductID == "" || vente.DepotCode == "" {
			h.writeFailure(w, http.StatusBadRequest, "each vente requires productId and depotCode")
			return
		}
		if vente.Qte < 1 {
			h.writeFailure(w, http.StatusBadRequest, "vente quantity must be at least 1")
			return
		}
	}

	status := req.Status
	if status == "" {
		status = domain.FactureStatusRecorded
	}

	facture := &domain.Facture{
		TableID:      req.TableID,
		UserID:       req.UserID,
		ReductionCDF: req.ReductionCDF,
		ReductionUSD: req.ReductionUSD,
		AmountCDF:    req.AmountCDF,
		AmountUSD:    req.AmountUSD,
		Client:       req.Client,
		Contact:      req.Contact,
		Description:  req.Description,
		Status:       status,
		TypePaiement: req.TypePaiement,
		Ventes:       req.Ventes,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.repo.Create(r.Context(), facture); err != nil {
		h.logger.Error("failed to create facture", "error", err)
		h.writeFailure(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.producer != nil {
		event := domain.FactureCreatedEvent{
			FactureID: facture.ID,
			TableID:   facture.TableID,
			UserID:    facture.UserID,
			Ventes:    facture.Ventes,
			Timestamp: facture.CreatedAt,
		}
		if err := h.producer.Publish(r.Context(), facture.ID, event); err != nil {
			h.logger.Error("failed to publish facture created event", "error", err, "facture_id", facture.ID)
		}
	}

	h.logger.Info("facture created", "facture_id", facture.ID, "table_id", facture.TableID, "ventes", len(facture.Ventes))
	h.writeJSON(w, http.StatusCreated, domain.FactureResponse{
		Success: true,
		Data:    &domain.FactureData{ID: facture.ID},
	})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	facture, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get facture", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if facture == nil {
		h.writeError(w, http.StatusNotFound, "facture not found")
		return
	}
	h.writeJSON(w, http.StatusOK, facture)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	factures, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list factures", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if factures == nil {
		factures = []domain.Facture{}
	}
	h.writeJSON(w, http.StatusOK, factures)
}

type updateStatusRequest struct {
	Status domain.FactureStatus `json:"status"`
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	found, err := h.repo.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.logger.Error("failed to update facture status", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		h.writeError(w, http.StatusNotFound, "facture not found")
		return
	}

	h.logger.Info("facture status updated", "facture_id", id, "status", req.Status)
	h.writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(req.Status)})
}

func (h *Handler) HandleDailyReport(w http.ResponseWriter, r *http.Request) {
	day := time.Now().UTC().Truncate(24 * time.Hour)
	if q := r.URL.Query().Get("date"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	report, err := h.repo.DailyReport(r.Context(), day)
	if err != nil {
		h.logger.Error("failed to build daily report", "error", err, "date", day)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

// writeFailure keeps the createFacture error contract: callers read
// success=false plus a message.
func (h *Handler) writeFailure(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, domain.FactureResponse{Success: false, Message: message})
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
