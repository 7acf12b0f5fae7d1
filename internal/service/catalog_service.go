package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"linkshelf/internal/domain"
	"linkshelf/internal/repository"

	"github.com/google/uuid"
)

// ProductInput carries the raw form fields of a create or edit.
// Price arrives as the submitted string so the service owns parsing.
// Image is the new image reference (an uploaded filename or an
// external URL); when empty, an edit keeps the stored value.
type ProductInput struct {
	Name         string
	Price        string
	Category     string
	Link         string
	Image        string
	Description  string
	SKU          string
	Source       string
	Availability string
}

// CatalogService defines the interface for product catalog business logic
type CatalogService interface {
	List(ctx context.Context, filter repository.ListFilter) ([]*domain.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Categories(ctx context.Context) ([]string, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

// List returns products newest first, filtered by an optional
// case-insensitive name substring and exact category (AND semantics).
func (s *catalogService) List(ctx context.Context, filter repository.ListFilter) ([]*domain.Product, error) {
	filter.Text = strings.TrimSpace(filter.Text)
	return s.productRepo.List(ctx, filter)
}

// Get retrieves a single product
func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// Create validates the input and inserts a new product
func (s *catalogService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	price, err := validateInput(input)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:           uuid.New(),
		Name:         input.Name,
		Price:        price,
		Category:     input.Category,
		Link:         input.Link,
		Image:        input.Image,
		Description:  input.Description,
		SKU:          input.SKU,
		Source:       input.Source,
		Availability: input.Availability,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// Update validates the input and overwrites an existing product. The
// image reference is replaced only when the input carries one; an edit
// without an upload or image URL must not erase the stored image.
func (s *catalogService) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	price, err := validateInput(input)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Price = price
	product.Category = input.Category
	product.Link = input.Link
	product.Description = input.Description
	product.SKU = input.SKU
	product.Source = input.Source
	product.Availability = input.Availability
	if input.Image != "" {
		product.Image = input.Image
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// Delete removes a product and, atomically, every click referencing it
func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// Categories returns the distinct non-empty categories for filter options
func (s *catalogService) Categories(ctx context.Context) ([]string, error) {
	return s.productRepo.Categories(ctx)
}

// validateInput checks the required fields and parses the price.
// A blank price defaults to 0; anything unparsable or negative is
// rejected.
func validateInput(input ProductInput) (float64, error) {
	if strings.TrimSpace(input.Name) == "" {
		return 0, &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if strings.TrimSpace(input.Link) == "" {
		return 0, &ValidationError{Field: "link", Message: "must not be empty"}
	}
	return ParsePrice(input.Price)
}

// ParsePrice parses a submitted price string. Blank defaults to 0.
func ParsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ValidationError{Field: "price", Message: fmt.Sprintf("%q is not a number", raw)}
	}
	if price < 0 {
		return 0, &ValidationError{Field: "price", Message: "must not be negative"}
	}
	return price, nil
}
