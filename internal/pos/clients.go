package pos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mkaleng/restopos/internal/domain"
)

// CatalogClient talks to the catalog/configuration service: products, tables
// and the shared USD→CDF exchange rate.
type CatalogClient struct {
	baseURL string
	client  *http.Client
}

func NewCatalogClient(baseURL string, client *http.Client) *CatalogClient {
	return &CatalogClient{baseURL: baseURL, client: client}
}

func (c *CatalogClient) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := c.getJSON(ctx, "/products/"+id, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *CatalogClient) GetTable(ctx context.Context, id string) (*domain.Table, error) {
	var table domain.Table
	if err := c.getJSON(ctx, "/tables/"+id, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

type exchangeRateResponse struct {
	Rate decimal.Decimal `json:"rate"`
}

func (c *CatalogClient) GetExchangeRate(ctx context.Context) (decimal.Decimal, error) {
	var resp exchangeRateResponse
	if err := c.getJSON(ctx, "/config/exchange-rate", &resp); err != nil {
		return decimal.Zero, err
	}
	return resp.Rate, nil
}

func (c *CatalogClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &domain.NetworkError{Op: "catalog " + path, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: "catalog " + path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Validationf("catalog: %s not found", path)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &domain.NetworkError{Op: "catalog " + path, Err: fmt.Errorf("status %d: %s", resp.StatusCode, body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.NetworkError{Op: "catalog " + path, Err: err}
	}
	return nil
}

// BillingClient submits finalized factures to the billing service.
type BillingClient struct {
	baseURL string
	client  *http.Client
}

func NewBillingClient(baseURL string, client *http.Client) *BillingClient {
	return &BillingClient{baseURL: baseURL, client: client}
}

func (c *BillingClient) CreateFacture(ctx context.Context, payload *domain.FactureRequest) (*domain.FactureResponse, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &domain.NetworkError{Op: "billing createFacture", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/factures", bytes.NewReader(data))
	if err != nil {
		return nil, &domain.NetworkError{Op: "billing createFacture", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Op: "billing createFacture", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	var factureResp domain.FactureResponse
	if err := json.NewDecoder(resp.Body).Decode(&factureResp); err != nil {
		return nil, &domain.NetworkError{Op: "billing createFacture", Err: err}
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		msg := factureResp.Message
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, &domain.NetworkError{Op: "billing createFacture", Err: fmt.Errorf("%s", msg)}
	}

	return &factureResp, nil
}

// PrinterClient sends receipt documents to the print service. A print failure
// never affects ledger state; callers report it separately.
type PrinterClient struct {
	baseURL string
	client  *http.Client
}

func NewPrinterClient(baseURL string, client *http.Client) *PrinterClient {
	return &PrinterClient{baseURL: baseURL, client: client}
}

func (c *PrinterClient) Print(ctx context.Context, doc domain.ReceiptDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return &domain.PrintError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/print", bytes.NewReader(data))
	if err != nil {
		return &domain.PrintError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.PrintError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &domain.PrintError{Err: fmt.Errorf("printer returned status %d: %s", resp.StatusCode, body)}
	}

	return nil
}
