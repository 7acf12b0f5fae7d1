package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"linkshelf/internal/domain"
)

// ClickRepository defines the interface for click ledger access.
// The ledger is append-only; there is no update or single-row delete.
type ClickRepository interface {
	Create(ctx context.Context, click *domain.Click) error
	CountsSince(ctx context.Context, since time.Time) ([]domain.ProductClicks, error)
}

type clickRepository struct {
	db *sql.DB
}

// NewClickRepository creates a new instance of ClickRepository
func NewClickRepository(db *sql.DB) ClickRepository {
	return &clickRepository{db: db}
}

// Create appends a click row. The insert is committed before this
// returns, so a recorded click survives even if the caller's redirect
// never completes.
func (r *clickRepository) Create(ctx context.Context, click *domain.Click) error {
	query := `
		INSERT INTO clicks (id, product_id, clicked_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		click.ID,
		click.ProductID,
		click.ClickedAt,
		nullable(click.IPAddress),
		nullable(click.UserAgent),
	)

	if err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}

	return nil
}

// CountsSince returns one row per product with the number of clicks at
// or after the window start. The window condition lives in the JOIN
// clause, not the WHERE clause, so products with zero clicks in the
// window still appear with a count of 0.
func (r *clickRepository) CountsSince(ctx context.Context, since time.Time) ([]domain.ProductClicks, error) {
	query := `
		SELECT p.id, p.name, COUNT(c.id)
		FROM products p
		LEFT JOIN clicks c ON c.product_id = p.id AND c.clicked_at >= $1
		GROUP BY p.id, p.name
		ORDER BY COUNT(c.id) DESC, p.name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count clicks: %w", err)
	}
	defer rows.Close()

	counts := []domain.ProductClicks{}
	for rows.Next() {
		var row domain.ProductClicks
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.Clicks); err != nil {
			return nil, fmt.Errorf("failed to scan click count: %w", err)
		}
		counts = append(counts, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating click counts: %w", err)
	}

	return counts, nil
}
