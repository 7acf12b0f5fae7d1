package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"linkshelf/internal/domain"

	"github.com/google/uuid"
)

func newTestProduct(name, category, link string) *domain.Product {
	return &domain.Product{
		ID:        uuid.New(),
		Name:      name,
		Category:  category,
		Link:      link,
		CreatedAt: time.Now().UTC(),
	}
}

func TestProductRepository_CreateAndFind(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := newTestProduct("Pro Runner", "shoes", "https://shop.example/runner")
	product.Price = 59.90
	product.SKU = "SKU-1"

	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	found, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.Name != "Pro Runner" || found.Price != 59.90 || found.SKU != "SKU-1" {
		t.Errorf("unexpected product: %+v", found)
	}
	if found.LastSynced != nil {
		t.Error("last_synced should never be written")
	}
}

func TestProductRepository_FindUnknown(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)

	_, err := repo.FindByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductRepository_ListFiltersCombine(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	seed := []*domain.Product{
		newTestProduct("Pro Runner", "shoes", "https://a.example"),
		newTestProduct("Basic", "shoes", "https://b.example"),
		newTestProduct("Pro Bag", "bags", "https://c.example"),
	}
	for _, p := range seed {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	// Substring is case-insensitive, category is exact, both must hold
	products, err := repo.List(ctx, ListFilter{Text: "pro", Category: "shoes"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Pro Runner" {
		t.Errorf("expected only Pro Runner, got %d products", len(products))
	}

	products, err = repo.List(ctx, ListFilter{Text: "PRO"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 2 {
		t.Errorf("expected 2 products for text filter, got %d", len(products))
	}

	products, err = repo.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 3 {
		t.Errorf("expected 3 products unfiltered, got %d", len(products))
	}
}

func TestProductRepository_ListNewestFirst(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	older := newTestProduct("Older", "", "https://a.example")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := newTestProduct("Newer", "", "https://b.example")

	for _, p := range []*domain.Product{older, newer} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	products, err := repo.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 2 || products[0].Name != "Newer" {
		t.Errorf("expected newest first, got %+v", products)
	}
}

func TestProductRepository_UpdatePersistsFields(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := newTestProduct("Thing", "misc", "https://a.example")
	product.Image = "original.png"
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	product.Name = "Thing v2"
	product.Price = 10
	product.Image = "new.png"
	if err := repo.Update(ctx, product); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	found, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.Name != "Thing v2" || found.Price != 10 || found.Image != "new.png" {
		t.Errorf("unexpected product after update: %+v", found)
	}

	ghost := newTestProduct("Ghost", "", "https://x.example")
	if err := repo.Update(ctx, ghost); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound for unknown update, got %v", err)
	}
}

func TestProductRepository_DeleteCascadesToClicks(t *testing.T) {
	resetTables(t)
	productRepo := NewProductRepository(testDB)
	clickRepo := NewClickRepository(testDB)
	ctx := context.Background()

	product := newTestProduct("Tracked", "", "https://a.example")
	if err := productRepo.Create(ctx, product); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		click := &domain.Click{
			ID:        uuid.New(),
			ProductID: product.ID,
			ClickedAt: time.Now().UTC(),
		}
		if err := clickRepo.Create(ctx, click); err != nil {
			t.Fatalf("click insert failed: %v", err)
		}
	}

	if err := productRepo.Delete(ctx, product.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var orphans int
	if err := testDB.QueryRow(`SELECT COUNT(*) FROM clicks WHERE product_id = $1`, product.ID).Scan(&orphans); err != nil {
		t.Fatalf("orphan count failed: %v", err)
	}
	if orphans != 0 {
		t.Errorf("expected no orphaned clicks, found %d", orphans)
	}

	if err := productRepo.Delete(ctx, product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound on second delete, got %v", err)
	}
}

func TestProductRepository_Categories(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	seed := []*domain.Product{
		newTestProduct("A", "shoes", "https://a.example"),
		newTestProduct("B", "shoes", "https://b.example"),
		newTestProduct("C", "bags", "https://c.example"),
		newTestProduct("D", "", "https://d.example"),
	}
	for _, p := range seed {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	categories, err := repo.Categories(ctx)
	if err != nil {
		t.Fatalf("categories failed: %v", err)
	}
	if len(categories) != 2 || categories[0] != "bags" || categories[1] != "shoes" {
		t.Errorf("expected [bags shoes], got %v", categories)
	}
}

func TestProductRepository_ImportBatchIsAtomic(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	good := newTestProduct("Good", "", "https://a.example")
	dup := newTestProduct("Duplicate ID", "", "https://b.example")
	dup.ID = good.ID // violates the primary key mid-batch

	err := repo.ImportBatch(ctx, []*domain.Product{good, dup})
	if err == nil {
		t.Fatal("expected batch to fail on duplicate key")
	}

	var count int
	if err := testDB.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected full rollback, found %d rows", count)
	}

	// A clean batch commits every row
	batch := []*domain.Product{
		newTestProduct("One", "", "https://a.example"),
		newTestProduct("Two", "", "https://b.example"),
		newTestProduct("Three", "", "https://c.example"),
	}
	if err := repo.ImportBatch(ctx, batch); err != nil {
		t.Fatalf("clean batch failed: %v", err)
	}
	if err := testDB.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 rows after clean batch, found %d", count)
	}
}
