package catalog

import (
	"context"
	"database/sql"

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

func (r *Repository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_name, price_usd, price_cdf, category, in_stock
		FROM products
		ORDER BY product_name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.ProductName, &p.PriceUSD, &p.PriceCDF, &p.Category, &p.InStock); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p := &domain.Product{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, product_name, price_usd, price_cdf, category, in_stock
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.ProductName, &p.PriceUSD, &p.PriceCDF, &p.Category, &p.InStock)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return p, nil
}

func (r *Repository) CreateProduct(ctx context.Context, p *domain.Product) error {
	p.ID = uuid.New().String()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, product_name, price_usd, price_cdf, category, in_stock)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.ProductName, p.PriceUSD, p.PriceCDF, p.Category, p.InStock)
	return err
}

func (r *Repository) UpdateProduct(ctx context.Context, p *domain.Product) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET product_name = $2, price_usd = $3, price_cdf = $4, category = $5, in_stock = $6
		WHERE id = $1
	`, p.ID, p.ProductName, p.PriceUSD, p.PriceCDF, p.Category, p.InStock)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *Repository) ListTables(ctx context.Context) ([]domain.Table, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, seats, occupied
		FROM tables
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tables []domain.Table
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.Name, &t.Seats, &t.Occupied); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tables, nil
}

func (r *Repository) GetTable(ctx context.Context, id string) (*domain.Table, error) {
	t := &domain.Table{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, seats, occupied
		FROM tables
		WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.Seats, &t.Occupied)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return t, nil
}

func (r *Repository) CreateTable(ctx context.Context, t *domain.Table) error {
	t.ID = uuid.New().String()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tables (id, name, seats, occupied)
		VALUES ($1, $2, $3, $4)
	`, t.ID, t.Name, t.Seats, t.Occupied)
	return err
}

func (r *Repository) SetTableOccupied(ctx context.Context, id string, occupied bool) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE tables SET occupied = $2 WHERE id = $1
	`, id, occupied)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func (r *Repository) DeleteTable(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tables WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// GetExchangeRate returns the configured USD→CDF rate.
func (r *Repository) GetExchangeRate(ctx context.Context) (decimal.Decimal, error) {
	var rate decimal.Decimal
	err := r.db.QueryRowContext(ctx, `
		SELECT value FROM config WHERE key = 'exchange_rate'
	`).Scan(&rate)
	if err != nil {
		if err == sql.ErrNoRows {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return rate, nil
}

func (r *Repository) UpdateExchangeRate(ctx context.Context, rate decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES ('exchange_rate', $1)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, rate)
	return err
}
