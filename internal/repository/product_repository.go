package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"linkshelf/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ListFilter narrows a catalog listing. Text is a case-insensitive
// substring match on name, Category an exact match; both are optional
// and combine with AND semantics.
type ListFilter struct {
	Text     string
	Category string
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	ImportBatch(ctx context.Context, products []*domain.Product) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, price, category, link, image, description, sku, source, availability, created_at, last_synced`

func scanProduct(scan func(dest ...interface{}) error) (*domain.Product, error) {
	product := &domain.Product{}
	var category, image, description, sku, source, availability sql.NullString
	err := scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&category,
		&product.Link,
		&image,
		&description,
		&sku,
		&source,
		&availability,
		&product.CreatedAt,
		&product.LastSynced,
	)
	if err != nil {
		return nil, err
	}
	product.Category = category.String
	product.Image = image.String
	product.Description = description.String
	product.SKU = sku.String
	product.Source = source.String
	product.Availability = availability.String
	return product, nil
}

// nullable maps the empty string to SQL NULL so optional text columns
// stay NULL instead of collecting empty strings.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

const insertProductQuery = `
	INSERT INTO products (id, name, price, category, link, image, description, sku, source, availability, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	_, err := r.db.ExecContext(
		ctx,
		insertProductQuery,
		product.ID,
		product.Name,
		product.Price,
		nullable(product.Category),
		product.Link,
		nullable(product.Image),
		nullable(product.Description),
		nullable(product.SKU),
		nullable(product.Source),
		nullable(product.Availability),
		product.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product. created_at and last_synced are
// never touched here.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, price = $3, category = $4, link = $5, image = $6,
		    description = $7, sku = $8, source = $9, availability = $10
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Price,
		nullable(product.Category),
		product.Link,
		nullable(product.Image),
		nullable(product.Description),
		nullable(product.SKU),
		nullable(product.Source),
		nullable(product.Availability),
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product and its click rows in a single transaction.
// The FK cascade would catch the clicks anyway; the explicit delete
// keeps the invariant independent of the schema.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM clicks WHERE product_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete product clicks: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products newest first, optionally filtered by a
// case-insensitive name substring and an exact category.
func (r *productRepository) List(ctx context.Context, filter ListFilter) ([]*domain.Product, error) {
	whereClause := ""
	args := []interface{}{}
	argIndex := 1

	if filter.Text != "" {
		whereClause = fmt.Sprintf("WHERE name ILIKE $%d", argIndex)
		args = append(args, "%"+filter.Text+"%")
		argIndex++
	}

	if filter.Category != "" {
		if whereClause == "" {
			whereClause = fmt.Sprintf("WHERE category = $%d", argIndex)
		} else {
			whereClause += fmt.Sprintf(" AND category = $%d", argIndex)
		}
		args = append(args, filter.Category)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY created_at DESC
	`, productColumns, whereClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Categories returns the distinct non-empty categories, sorted, for
// populating filter options.
func (r *productRepository) Categories(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT category
		FROM products
		WHERE category IS NOT NULL AND category <> ''
		ORDER BY category ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// ImportBatch inserts a batch of products in a single transaction.
// Either every row commits or none do.
func (r *productRepository) ImportBatch(ctx context.Context, products []*domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertProductQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare import statement: %w", err)
	}
	defer stmt.Close()

	for _, product := range products {
		_, err := stmt.ExecContext(
			ctx,
			product.ID,
			product.Name,
			product.Price,
			nullable(product.Category),
			product.Link,
			nullable(product.Image),
			nullable(product.Description),
			nullable(product.SKU),
			nullable(product.Source),
			nullable(product.Availability),
			product.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to import product %q: %w", product.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import batch: %w", err)
	}

	return nil
}
