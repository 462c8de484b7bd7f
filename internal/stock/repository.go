package stock

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mkaleng/restopos/internal/domain"
)

var ErrInsufficientStock = errors.New("insufficient stock")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListByDepot(ctx context.Context, depotCode string) ([]domain.StockLevel, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT depot_code, product_id, quantity
		FROM stock_levels
		WHERE depot_code = $1
		ORDER BY product_id
	`, depotCode)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var levels []domain.StockLevel
	for rows.Next() {
		var level domain.StockLevel
		if err := rows.Scan(&level.DepotCode, &level.ProductID, &level.Quantity); err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return levels, nil
}

func (r *Repository) GetLevel(ctx context.Context, depotCode, productID string) (*domain.StockLevel, error) {
	level := &domain.StockLevel{}

	err := r.db.QueryRowContext(ctx, `
		SELECT depot_code, product_id, quantity
		FROM stock_levels
		WHERE depot_code = $1 AND product_id = $2
	`, depotCode, productID).Scan(&level.DepotCode, &level.ProductID, &level.Quantity)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return level, nil
}

// RecordMovement applies an entree/sortie to the depot level and stores the
// movement in the same transaction. A sortie that would drive the level
// negative fails with ErrInsufficientStock.
func (r *Repository) RecordMovement(ctx context.Context, movement *domain.StockMovement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	switch movement.Type {
	case domain.MovementEntree:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO stock_levels (depot_code, product_id, quantity)
			VALUES ($1, $2, $3)
			ON CONFLICT (depot_code, product_id) DO UPDATE SET quantity = stock_levels.quantity + EXCLUDED.quantity
		`, movement.DepotCode, movement.ProductID, movement.Quantity)
		if err != nil {
			return err
		}
	case domain.MovementSortie:
		result, err := tx.ExecContext(ctx, `
			UPDATE stock_levels
			SET quantity = quantity - $3
			WHERE depot_code = $1 AND product_id = $2 AND quantity >= $3
		`, movement.DepotCode, movement.ProductID, movement.Quantity)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return ErrInsufficientStock
		}
	default:
		return errors.New("unknown movement type")
	}

	movement.ID = uuid.New().String()
	movement.CreatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stock_movements (id, depot_code, product_id, type, quantity, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, movement.ID, movement.DepotCode, movement.ProductID, movement.Type, movement.Quantity, movement.Reference, movement.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) ListMovements(ctx context.Context, depotCode, productID string) ([]domain.StockMovement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, depot_code, product_id, type, quantity, reference, created_at
		FROM stock_movements
		WHERE depot_code = $1 AND product_id = $2
		ORDER BY created_at DESC
	`, depotCode, productID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var movements []domain.StockMovement
	for rows.Next() {
		var m domain.StockMovement
		if err := rows.Scan(&m.ID, &m.DepotCode, &m.ProductID, &m.Type, &m.Quantity, &m.Reference, &m.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return movements, nil
}
