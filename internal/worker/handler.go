package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mkaleng/restopos/internal/domain"
)

// DeductionHandler consumes facture.created events and deducts the sold
// quantities from depot stock. Each vente becomes one sortie movement
// referencing the facture; if any deduction is refused the facture is flagged
// stock_en_attente so staff can reconcile the depot by hand.
type DeductionHandler struct {
	stockServiceURL   string
	billingServiceURL string
	httpClient        *http.Client
	logger            *slog.Logger
}

func NewDeductionHandler(stockServiceURL, billingServiceURL string, client *http.Client, logger *slog.Logger) *DeductionHandler {
	return &DeductionHandler{
		stockServiceURL:   stockServiceURL,
		billingServiceURL: billingServiceURL,
		httpClient:        client,
		logger:            logger,
	}
}

func (h *DeductionHandler) Handle(ctx context.Context, payload []byte) error {
	var event domain.FactureCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal facture created event: %w", err)
	}

	h.logger.Info("processing facture created event", "facture_id", event.FactureID, "table_id", event.TableID, "ventes", len(event.Ventes))

	if err := h.deductStock(ctx, event); err != nil {
		h.logger.Error("failed to deduct stock", "error", err, "facture_id", event.FactureID)

		if err := h.updateFactureStatus(ctx, event.FactureID, domain.FactureStatusStockPending); err != nil {
			h.logger.Error("failed to flag facture for manual reconciliation", "error", err, "facture_id", event.FactureID)
			return fmt.Errorf("flag facture after deduction failure: %w", err)
		}

		h.logger.Info("facture flagged for manual stock reconciliation", "facture_id", event.FactureID)
		return nil
	}

	if err := h.updateFactureStatus(ctx, event.FactureID, domain.FactureStatusStockApplied); err != nil {
		h.logger.Error("failed to update facture status", "error", err, "facture_id", event.FactureID)
		return fmt.Errorf("update facture status: %w", err)
	}

	h.logger.Info("facture processing complete", "facture_id", event.FactureID)
	return nil
}

func (h *DeductionHandler) deductStock(ctx context.Context, event domain.FactureCreatedEvent) error {
	for _, vente := range event.Ventes {
		body := map[string]any{
			"type":      domain.MovementSortie,
			"quantity":  vente.Qte,
			"reference": event.FactureID,
		}
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal movement request: %w", err)
		}

		url := fmt.Sprintf("%s/stock/%s/%s/movements", h.stockServiceURL, vente.DepotCode, vente.ProductID)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("create movement request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := h.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("deduct stock for product %s: %w", vente.ProductID, err)
		}
		_ = resp.Body.Close()

		if resp.StatusCode == http.StatusConflict {
			return fmt.Errorf("insufficient stock for product %s in depot %s", vente.ProductID, vente.DepotCode)
		}

		if resp.StatusCode != http.StatusCreated {
			return fmt.Errorf("stock service returned status %d for product %s", resp.StatusCode, vente.ProductID)
		}
	}

	return nil
}

func (h *DeductionHandler) updateFactureStatus(ctx context.Context, factureID string, status domain.FactureStatus) error {
	body := map[string]string{
		"status": string(status),
	}

	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/factures/%s/status", h.billingServiceURL, factureID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("billing service returned status %d", resp.StatusCode)
	}

	return nil
}
