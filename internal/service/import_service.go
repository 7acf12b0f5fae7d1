package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"linkshelf/internal/domain"
	"linkshelf/internal/repository"

	"github.com/google/uuid"
)

// RowError is a per-row import failure. Row errors are collected
// during the scan, never raised, and any of them vetoes the whole
// batch.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult reports the outcome of a CSV import. InsertedCount is
// either the full batch size or zero; partial success does not exist.
type ImportResult struct {
	InsertedCount int        `json:"inserted_count"`
	Errors        []RowError `json:"errors"`
}

// ImportService parses a tabular upload into a batch of product
// insertions with all-or-nothing commit semantics.
type ImportService interface {
	ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error)
}

type importService struct {
	productRepo repository.ProductRepository
}

// NewImportService creates a new instance of ImportService
func NewImportService(productRepo repository.ProductRepository) ImportService {
	return &importService{productRepo: productRepo}
}

// ImportCSV scans the whole input, staging one product per data row.
// The header row names the columns; data rows are 1-indexed for error
// reporting. Blank name, link and price fall back to their defaults
// ("row-{n}", "#", 0); a malformed or negative price is captured as a
// row error. If any row errored, nothing is persisted; otherwise the
// batch commits in a single transaction. The input must be UTF-8 —
// no encoding detection is attempted here.
func (s *importService) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv input is empty")
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	staged := []*domain.Product{}
	rowErrors := []RowError{}
	now := time.Now().UTC()

	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: row, Message: err.Error()})
			continue
		}

		field := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		name := field("name")
		if name == "" {
			name = fmt.Sprintf("row-%d", row)
		}

		link := field("link")
		if link == "" {
			link = "#"
		}

		price := 0.0
		if raw := field("price"); raw != "" {
			price, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				rowErrors = append(rowErrors, RowError{Row: row, Message: fmt.Sprintf("price %q is not a number", raw)})
				continue
			}
			if price < 0 {
				rowErrors = append(rowErrors, RowError{Row: row, Message: fmt.Sprintf("price %v is negative", price)})
				continue
			}
		}

		staged = append(staged, &domain.Product{
			ID:           uuid.New(),
			Name:         name,
			Price:        price,
			Category:     field("category"),
			Link:         link,
			Image:        field("image_url"),
			Description:  field("description"),
			SKU:          field("sku"),
			Source:       field("source"),
			Availability: field("availability"),
			CreatedAt:    now,
		})
	}

	// Any row error rolls back the entire batch: zero rows persist
	// even if every other row was valid.
	if len(rowErrors) > 0 {
		return &ImportResult{InsertedCount: 0, Errors: rowErrors}, nil
	}

	if len(staged) > 0 {
		if err := s.productRepo.ImportBatch(ctx, staged); err != nil {
			return nil, fmt.Errorf("failed to commit import batch: %w", err)
		}
	}

	return &ImportResult{InsertedCount: len(staged), Errors: rowErrors}, nil
}
