package catalog

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

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
	mux.HandleFunc("GET /products", h.HandleListProducts)
	mux.HandleFunc("POST /products", h.HandleCreateProduct)
	mux.HandleFunc("GET /products/{id}", h.HandleGetProduct)
	mux.HandleFunc("PUT /products/{id}", h.HandleUpdateProduct)
	mux.HandleFunc("DELETE /products/{id}", h.HandleDeleteProduct)
	mux.HandleFunc("GET /categories", h.HandleListCategories)
	mux.HandleFunc("GET /tables", h.HandleListTables)
	mux.HandleFunc("POST /tables", h.HandleCreateTable)
	mux.HandleFunc("GET /tables/{id}", h.HandleGetTable)
	mux.HandleFunc("PATCH /tables/{id}/occupied", h.HandleSetTableOccupied)
	mux.HandleFunc("DELETE /tables/{id}", h.HandleDeleteTable)
	mux.HandleFunc("GET /config/exchange-rate", h.HandleGetExchangeRate)
	mux.HandleFunc("PUT /config/exchange-rate", h.HandleUpdateExchangeRate)
}

func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	product, err := h.repo.GetProduct(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get product", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if product == nil {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}
	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if product.ProductName == "" {
		h.writeError(w, http.StatusBadRequest, "productName is required")
		return
	}
	if product.PriceUSD.IsNegative() || product.PriceCDF.IsNegative() {
		h.writeError(w, http.StatusBadRequest, "prices cannot be negative")
		return
	}

	if err := h.repo.CreateProduct(r.Context(), &product); err != nil {
		h.logger.Error("failed to create product", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("product created", "id", product.ID, "name", product.ProductName)
	h.writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	product.ID = r.PathValue("id")

	found, err := h.repo.UpdateProduct(r.Context(), &product)
	if err != nil {
		h.logger.Error("failed to update product", "error", err, "id", product.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	found, err := h.repo.DeleteProduct(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete product", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("failed to list categories", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if categories == nil {
		categories = []string{}
	}
	h.writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) HandleListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.repo.ListTables(r.Context())
	if err != nil {
		h.logger.Error("failed to list tables", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if tables == nil {
		tables = []domain.Table{}
	}
	h.writeJSON(w, http.StatusOK, tables)
}

func (h *Handler) HandleGetTable(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	table, err := h.repo.GetTable(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get table", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if table == nil {
		h.writeError(w, http.StatusNotFound, "table not found")
		return
	}
	h.writeJSON(w, http.StatusOK, table)
}

func (h *Handler) HandleCreateTable(w http.ResponseWriter, r *http.Request) {
	var table domain.Table
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if table.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := h.repo.CreateTable(r.Context(), &table); err != nil {
		h.logger.Error("failed to create table", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("table created", "id", table.ID, "name", table.Name)
	h.writeJSON(w, http.StatusCreated, table)
}

type setOccupiedRequest struct {
	Occupied bool `json:"occupied"`
}

func (h *Handler) HandleSetTableOccupied(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req setOccupiedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	found, err := h.repo.SetTableOccupied(r.Context(), id, req.Occupied)
	if err != nil {
		h.logger.Error("failed to update table", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		h.writeError(w, http.StatusNotFound, "table not found")
		return
	}

	table, err := h.repo.GetTable(r.Context(), id)
	if err != nil || table == nil {
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	h.writeJSON(w, http.StatusOK, table)
}

func (h *Handler) HandleDeleteTable(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	found, err := h.repo.DeleteTable(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete table", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		h.writeError(w, http.StatusNotFound, "table not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type exchangeRateResponse struct {
	Rate decimal.Decimal `json:"rate"`
}

func (h *Handler) HandleGetExchangeRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.repo.GetExchangeRate(r.Context())
	if err != nil {
		h.logger.Error("failed to get exchange rate", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	h.writeJSON(w, http.StatusOK, exchangeRateResponse{Rate: rate})
}

type updateExchangeRateRequest struct {
	Rate decimal.Decimal `json:"rate"`
}

func (h *Handler) HandleUpdateExchangeRate(w http.ResponseWriter, r *http.Request) {
	var req updateExchangeRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Rate.IsPositive() {
		h.writeError(w, http.StatusBadRequest, "rate must be positive")
		return
	}

	if err := h.repo.UpdateExchangeRate(r.Context(), req.Rate); err != nil {
		h.logger.Error("failed to update exchange rate", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("exchange rate updated", "rate", req.Rate)
	h.writeJSON(w, http.StatusOK, exchangeRateResponse{Rate: req.Rate})
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
