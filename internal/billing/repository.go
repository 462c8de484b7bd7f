package billing

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkaleng/restopos/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create persists the facture and its ventes in one transaction.
func (r *Repository) Create(ctx context.Context, facture *domain.Facture) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	facture.ID = uuid.New().String()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO factures (id, table_id, user_id, reduction_cdf, reduction_usd, amount_cdf, amount_usd, client, contact, description, status, type_paiement, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, facture.ID, facture.TableID, facture.UserID, facture.ReductionCDF, facture.ReductionUSD,
		facture.AmountCDF, facture.AmountUSD, facture.Client, facture.Contact,
		facture.Description, facture.Status, facture.TypePaiement, facture.CreatedAt)
	if err != nil {
		return err
	}

	for _, vente := range facture.Ventes {
		venteID := uuid.New().String()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO ventes (id, facture_id, product_id, depot_code, qte, taux, price_usd, price_cdf)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, venteID, facture.ID, vente.ProductID, vente.DepotCode, vente.Qte, vente.Taux, vente.PriceUSD, vente.PriceCDF)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Facture, error) {
	facture := &domain.Facture{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, table_id, user_id, reduction_cdf, reduction_usd, amount_cdf, amount_usd, client, contact, description, status, type_paiement, created_at
		FROM factures
		WHERE id = $1
	`, id).Scan(&facture.ID, &facture.TableID, &facture.UserID, &facture.ReductionCDF, &facture.ReductionUSD,
		&facture.AmountCDF, &facture.AmountUSD, &facture.Client, &facture.Contact,
		&facture.Description, &facture.Status, &facture.TypePaiement, &facture.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, depot_code, qte, taux, price_usd, price_cdf
		FROM ventes
		WHERE facture_id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var vente domain.Vente
		if err := rows.Scan(&vente.ProductID, &vente.DepotCode, &vente.Qte, &vente.Taux, &vente.PriceUSD, &vente.PriceCDF); err != nil {
			return nil, err
		}
		facture.Ventes = append(facture.Ventes, vente)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return facture, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Facture, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, table_id, user_id, reduction_cdf, reduction_usd, amount_cdf, amount_usd, client, contact, description, status, type_paiement, created_at
		FROM factures
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var factures []domain.Facture
	for rows.Next() {
		var f domain.Facture
		if err := rows.Scan(&f.ID, &f.TableID, &f.UserID, &f.ReductionCDF, &f.ReductionUSD,
			&f.AmountCDF, &f.AmountUSD, &f.Client, &f.Contact,
			&f.Description, &f.Status, &f.TypePaiement, &f.CreatedAt); err != nil {
			return nil, err
		}
		factures = append(factures, f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return factures, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.FactureStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE factures SET status = $1 WHERE id = $2
	`, status, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// DailyReport aggregates one day of sales.
type DailyReport struct {
	Date          string          `json:"date"`
	FactureCount  int             `json:"factureCount"`
	TotalCDF      decimal.Decimal `json:"totalCdf"`
	TotalUSD      decimal.Decimal `json:"totalUsd"`
	ReductionCDF  decimal.Decimal `json:"reductionCdf"`
	ReductionUSD  decimal.Decimal `json:"reductionUsd"`
}

func (r *Repository) DailyReport(ctx context.Context, day time.Time) (*DailyReport, error) {
	report := &DailyReport{Date: day.Format("2006-01-02")}

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(amount_cdf), 0),
		       COALESCE(SUM(amount_usd), 0),
		       COALESCE(SUM(reduction_cdf), 0),
		       COALESCE(SUM(reduction_usd), 0)
		FROM factures
		WHERE created_at >= $1 AND created_at < $2
	`, day, day.AddDate(0, 0, 1)).Scan(&report.FactureCount, &report.TotalCDF, &report.TotalUSD, &report.ReductionCDF, &report.ReductionUSD)
	if err != nil {
		return nil, err
	}

	return report, nil
}
