package pos

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mkaleng/restopos/internal/domain"
	"github.com/mkaleng/restopos/internal/ledger"
)

// Handler exposes the session-scoped cart API. Each session maps to one POS
// screen; all monetary state lives in the session's cart and is recomputed
// synchronously on every mutation.
type Handler struct {
	store    *Store
	catalog  *CatalogClient
	billing  *BillingClient
	printer  *PrinterClient
	notifier Notifier
	org      ledger.Organization
	logger   *slog.Logger
}

func NewHandler(store *Store, catalog *CatalogClient, billing *BillingClient, printer *PrinterClient, notifier Notifier, org ledger.Organization, logger *slog.Logger) *Handler {
	return &Handler{
		store:    store,
		catalog:  catalog,
		billing:  billing,
		printer:  printer,
		notifier: notifier,
		org:      org,
		logger:   logger,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /sessions", h.HandleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", h.HandleGetSession)
	mux.HandleFunc("PUT /sessions/{id}/table", h.HandleSelectTable)
	mux.HandleFunc("POST /sessions/{id}/lines", h.HandleAddLine)
	mux.HandleFunc("DELETE /sessions/{id}/lines/{index}", h.HandleRemoveLine)
	mux.HandleFunc("PATCH /sessions/{id}/lines/{index}/quantity", h.HandleAdjustQuantity)
	mux.HandleFunc("POST /sessions/{id}/lines/{index}/currency", h.HandleToggleCurrency)
	mux.HandleFunc("PUT /sessions/{id}/discount", h.HandleSetDiscount)
	mux.HandleFunc("PUT /sessions/{id}/payment", h.HandleSetPayment)
	mux.HandleFunc("GET /sessions/{id}/totals", h.HandleGetTotals)
	mux.HandleFunc("GET /sessions/{id}/receipt", h.HandleGetReceipt)
	mux.HandleFunc("POST /sessions/{id}/checkout", h.HandleCheckout)
}

type createSessionRequest struct {
	UserID    string `json:"userId"`
	DepotCode string `json:"depotCode"`
}

type sessionResponse struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	DepotCode string        `json:"depotCode"`
	Cart      *ledger.Cart  `json:"cart"`
	Totals    ledger.Totals `json:"totals"`
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.DepotCode == "" {
		h.writeError(w, http.StatusBadRequest, "userId and depotCode are required")
		return
	}

	rate, err := h.catalog.GetExchangeRate(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	session := h.store.Create(req.UserID, req.DepotCode, rate)

	h.logger.Info("session created", "session_id", session.ID, "user_id", req.UserID, "depot", req.DepotCode, "rate", rate)
	h.writeJSON(w, http.StatusCreated, h.sessionView(session))
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if session == nil {
		return
	}
	h.writeJSON(w, http.StatusOK, h.sessionView(session))
}

type selectTableRequest struct {
	TableID string `json:"tableId"`
}

// HandleSelectTable binds the session to a table. The exchange rate is
// refreshed and a fresh cart replaces the previous one, matching the screen
// behavior of clearing the order on table change.
func (h *Handler) HandleSelectTable(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if session == nil {
		return
	}

	var req selectTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TableID == "" {
		h.writeError(w, http.StatusBadRequest, "tableId is required")
		return
	}

	table, err := h.catalog.GetTable(r.Context(), req.TableID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	rate, err := h.catalog.GetExchangeRate(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	cart := ledger.NewCart(rate)
	cart.Table = table
	session.Cart = cart

	h.logger.Info("table selected", "session_id", session.ID, "table_id", table.ID, "rate", rate)
	h.writeJSON(w, http.StatusOK, h.sessionView(session))
}

type addLineRequest struct {
	ProductID string `json:"productId"`
}

func (h *Handler) HandleAddLine(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if session == nil {
		return
	}

	var req addLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" {
		h.writeError(w, http.StatusBadRequest, "productId is required")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	session.Cart.AddLine(*product)

	h.logger.Info("line added", "session_id", session.ID, "product_id", product.ID)
	h.writeJSON(w, http.StatusOK, h.sessionView(session))
}

func (h *Handler) HandleRemoveLine(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if session == nil {
		return
	}
	index, ok := h.lineIndex(w, r)
	if !ok {
		return
	}

	if err := session.Cart.RemoveLine(index); err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.logger.Info("line removed", "session_id", session.ID, "index", index)
	h.writeJSON(w, http.StatusOK, h.sessionView(session))
}

type adjustQuantityRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) HandleAdjustQuantity(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if session == nil {
		return
	}
	index, ok := h.lineIndex(w, r)
	if !ok {
		return
	}

	var req adjustQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := session.Cart.AdjustQuantity(index, req.Delta); err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.sessionView(session))
}

func (h *Handler) HandleToggleCurrency(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if session == nil {
		return
	}
	index, ok := h.lineIndex(w, r)
	if !ok {
		return
	}

	if err := session.Cart.ToggleCurrency(index); err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.sessionView(session))
}

type setDiscountRequest struct {
	Value       decimal.Decimal `json:"value"`
	CurrencyUSD bool            `json:"currencyUsd"`
}

func (h *Handler) HandleSetDiscount(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if session == nil {
		return
	}

	var req setDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := session.Cart.SetDiscount(req.Value, req.CurrencyUSD); err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.sessionView(session))
}

type setPaymentRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyUSD  bool            `json:"currencyUsd"`
	TypePaiement string          `json:"typePaiement"`
	Client       string          `json:"client"`
	Contact      string          `json:"contact"`
	Description  string          `json:"description"`
}

func (h *Handler) HandleSetPayment(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if session == nil {
		return
	}

	var req setPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := session.Cart.SetAmountTendered(req.Amount, req.CurrencyUSD); err != nil {
		h.writeDomainError(w, err)
		return
	}
	session.Cart.TypePaiement = req.TypePaiement
	session.Cart.Client = req.Client
	session.Cart.Contact = req.Contact
	session.Cart.Description = req.Description

	h.writeJSON(w, http.StatusOK, h.sessionView(session))
}

func (h *Handler) HandleGetTotals(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if session == nil {
		return
	}
	h.writeJSON(w, http.StatusOK, session.Cart.Totals())
}

func (h *Handler) HandleGetReceipt(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if session == nil {
		return
	}
	doc := ledger.BuildReceipt(session.Cart, session.Cart.Totals(), h.org, session.UserID)
	h.writeJSON(w, http.StatusOK, doc)
}

type checkoutResponse struct {
	Success    bool   `json:"success"`
	FactureID  string `json:"factureId,omitempty"`
	Printed    bool   `json:"printed"`
	PrintError string `json:"printError,omitempty"`
}

// HandleCheckout finalizes the cart: validate, create the facture, print the
// receipt, clear the cart. Validation failures issue no network call and the
// cart survives any billing failure so the operator can retry as-is. A print
// failure after a recorded facture still clears the cart and is reported
// separately.
func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if session == nil {
		return
	}

	if !session.BeginSubmit() {
		h.writeError(w, http.StatusConflict, "submission already in progress")
		return
	}
	defer session.EndSubmit()

	payload, err := ledger.BuildFactureRequest(session.Cart, session.UserID, session.DepotCode)
	if err != nil {
		h.notifier.Notify("Facture", err.Error())
		h.writeDomainError(w, err)
		return
	}

	totals := session.Cart.Totals()
	receipt := ledger.BuildReceipt(session.Cart, totals, h.org, session.UserID)

	resp, err := h.billing.CreateFacture(r.Context(), payload)
	if err != nil {
		h.logger.Error("facture creation failed", "error", err, "session_id", session.ID)
		h.notifier.Notify("Facture", err.Error())
		h.writeDomainError(w, err)
		return
	}
	if !resp.Success || resp.Data == nil {
		h.logger.Error("facture rejected", "message", resp.Message, "session_id", session.ID)
		h.notifier.Notify("Facture", resp.Message)
		h.writeError(w, http.StatusBadGateway, resp.Message)
		return
	}

	result := checkoutResponse{Success: true, FactureID: resp.Data.ID, Printed: true}

	if err := h.printer.Print(r.Context(), receipt); err != nil {
		// The sale is recorded; only the receipt is missing.
		h.logger.Error("receipt print failed", "error", err, "facture_id", resp.Data.ID)
		h.notifier.Notify("Impression", err.Error())
		result.Printed = false
		result.PrintError = err.Error()
	}

	session.Cart.Clear()

	h.logger.Info("facture recorded", "facture_id", resp.Data.ID, "session_id", session.ID, "final_total_cdf", totals.FinalTotalCDF, "printed", result.Printed)
	h.writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) *Session {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing session id")
		return nil
	}
	session := h.store.Get(id)
	if session == nil {
		h.writeError(w, http.StatusNotFound, "session not found")
		return nil
	}
	return session
}

func (h *Handler) lineIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid line index")
		return 0, false
	}
	return index, true
}

func (h *Handler) sessionView(session *Session) sessionResponse {
	return sessionResponse{
		ID:        session.ID,
		UserID:    session.UserID,
		DepotCode: session.DepotCode,
		Cart:      session.Cart,
		Totals:    session.Cart.Totals(),
	}
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		h.writeError(w, http.StatusBadRequest, verr.Msg)
		return
	}
	var nerr *domain.NetworkError
	if errors.As(err, &nerr) {
		h.writeError(w, http.StatusBadGateway, nerr.Error())
		return
	}
	h.writeError(w, http.StatusInternalServerError, "internal server error")
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
