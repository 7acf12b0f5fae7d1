package repository

import (
	"context"
	"testing"
	"time"

	"linkshelf/internal/domain"

	"github.com/google/uuid"
)

func insertClick(t *testing.T, repo ClickRepository, productID uuid.UUID, at time.Time) {
	t.Helper()
	click := &domain.Click{
		ID:        uuid.New(),
		ProductID: productID,
		ClickedAt: at,
		IPAddress: "203.0.113.9",
		UserAgent: "test-agent",
	}
	if err := repo.Create(context.Background(), click); err != nil {
		t.Fatalf("click insert failed: %v", err)
	}
}

func TestClickRepository_CountsSinceIncludesZeroClickProducts(t *testing.T) {
	resetTables(t)
	productRepo := NewProductRepository(testDB)
	clickRepo := NewClickRepository(testDB)
	ctx := context.Background()

	popular := newTestProduct("Popular", "", "https://a.example")
	quiet := newTestProduct("Quiet", "", "https://b.example")
	for _, p := range []*domain.Product{popular, quiet} {
		if err := productRepo.Create(ctx, p); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	now := time.Now().UTC()
	insertClick(t, clickRepo, popular.ID, now.Add(-time.Hour))
	insertClick(t, clickRepo, popular.ID, now.Add(-2*time.Hour))

	counts, err := clickRepo.CountsSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("counts failed: %v", err)
	}

	if len(counts) != 2 {
		t.Fatalf("expected every product in the report, got %d rows", len(counts))
	}

	byName := map[string]int{}
	for _, row := range counts {
		byName[row.ProductName] = row.Clicks
	}
	if byName["Popular"] != 2 {
		t.Errorf("expected 2 clicks for Popular, got %d", byName["Popular"])
	}
	if clicks, ok := byName["Quiet"]; !ok {
		t.Error("zero-click product missing from report")
	} else if clicks != 0 {
		t.Errorf("expected 0 clicks for Quiet, got %d", clicks)
	}
}

func TestClickRepository_CountsSinceHonorsWindow(t *testing.T) {
	resetTables(t)
	productRepo := NewProductRepository(testDB)
	clickRepo := NewClickRepository(testDB)
	ctx := context.Background()

	product := newTestProduct("Seasonal", "", "https://a.example")
	if err := productRepo.Create(ctx, product); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	now := time.Now().UTC()
	insertClick(t, clickRepo, product.ID, now.Add(-time.Hour))      // inside
	insertClick(t, clickRepo, product.ID, now.Add(-10*24*time.Hour)) // outside

	counts, err := clickRepo.CountsSince(ctx, now.Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("counts failed: %v", err)
	}

	if len(counts) != 1 {
		t.Fatalf("expected 1 row, got %d", len(counts))
	}
	if counts[0].Clicks != 1 {
		t.Errorf("expected only the in-window click to count, got %d", counts[0].Clicks)
	}
}

func TestClickRepository_CountsOrderedByClicksDescending(t *testing.T) {
	resetTables(t)
	productRepo := NewProductRepository(testDB)
	clickRepo := NewClickRepository(testDB)
	ctx := context.Background()

	first := newTestProduct("Most", "", "https://a.example")
	second := newTestProduct("Some", "", "https://b.example")
	third := newTestProduct("None", "", "https://c.example")
	for _, p := range []*domain.Product{first, second, third} {
		if err := productRepo.Create(ctx, p); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		insertClick(t, clickRepo, first.ID, now.Add(-time.Minute))
	}
	insertClick(t, clickRepo, second.ID, now.Add(-time.Minute))

	counts, err := clickRepo.CountsSince(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("counts failed: %v", err)
	}

	if len(counts) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(counts))
	}
	if counts[0].ProductName != "Most" || counts[1].ProductName != "Some" || counts[2].ProductName != "None" {
		t.Errorf("unexpected order: %v, %v, %v", counts[0].ProductName, counts[1].ProductName, counts[2].ProductName)
	}
}
