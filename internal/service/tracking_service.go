package service

import (
	"context"
	"fmt"
	"time"

	"linkshelf/internal/domain"
	"linkshelf/internal/repository"

	"github.com/google/uuid"
)

// TrackingService records outbound clicks and resolves the redirect
// target. The only valid outcomes are a committed click plus the
// product's link, or a not-found error with nothing written.
type TrackingService interface {
	RecordClick(ctx context.Context, productID uuid.UUID, ipAddress, userAgent string) (redirectURL string, err error)
}

type trackingService struct {
	productRepo repository.ProductRepository
	clickRepo   repository.ClickRepository
}

// NewTrackingService creates a new instance of TrackingService
func NewTrackingService(productRepo repository.ProductRepository, clickRepo repository.ClickRepository) TrackingService {
	return &trackingService{
		productRepo: productRepo,
		clickRepo:   clickRepo,
	}
}

// RecordClick durably records a click for the product, then returns
// its external link. The click commits before the caller redirects; a
// failed commit means no redirect.
func (s *trackingService) RecordClick(ctx context.Context, productID uuid.UUID, ipAddress, userAgent string) (string, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return "", err
	}

	click := &domain.Click{
		ID:        uuid.New(),
		ProductID: product.ID,
		ClickedAt: time.Now().UTC(),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	if err := s.clickRepo.Create(ctx, click); err != nil {
		return "", fmt.Errorf("failed to record click: %w", err)
	}

	return product.Link, nil
}
