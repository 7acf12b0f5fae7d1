package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"linkshelf/internal/domain"
	"linkshelf/internal/repository"

	"github.com/google/uuid"
)

// In-memory repository fakes shared by the service tests.

type mockUserRepository struct {
	users     map[string]*domain.User
	createErr error
	createCnt int
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.createCnt++
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.users[user.Username]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, exists := m.users[username]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) SetPasswordHash(ctx context.Context, username, hash string) error {
	user, exists := m.users[username]
	if !exists {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = hash
	return nil
}

type mockProductRepository struct {
	products    map[uuid.UUID]*domain.Product
	importCalls int
	importErr   error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, exists := m.products[product.ID]; !exists {
		return repository.ErrProductNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.products[id]; !exists {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ListFilter) ([]*domain.Product, error) {
	result := []*domain.Product{}
	for _, p := range m.products {
		if filter.Text != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Text)) {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockProductRepository) Categories(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	for _, p := range m.products {
		if p.Category != "" {
			seen[p.Category] = true
		}
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, nil
}

func (m *mockProductRepository) ImportBatch(ctx context.Context, products []*domain.Product) error {
	m.importCalls++
	if m.importErr != nil {
		return m.importErr
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return nil
}

type mockClickRepository struct {
	clicks []*domain.Click
	counts []domain.ProductClicks
}

func newMockClickRepository() *mockClickRepository {
	return &mockClickRepository{}
}

func (m *mockClickRepository) Create(ctx context.Context, click *domain.Click) error {
	m.clicks = append(m.clicks, click)
	return nil
}

func (m *mockClickRepository) CountsSince(ctx context.Context, since time.Time) ([]domain.ProductClicks, error) {
	return m.counts, nil
}
