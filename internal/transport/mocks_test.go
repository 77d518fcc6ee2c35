package transport

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"catalogo-api/internal/domain"
	"catalogo-api/internal/repository"
	"catalogo-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Mock repositories for testing
type mockProductRepository struct {
	mu       sync.Mutex
	products map[uuid.UUID]*domain.Product
	clock    time.Time
	failWith error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: make(map[uuid.UUID]*domain.Product),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *mockProductRepository) Create(ctx context.Context, input domain.ProductInput) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return uuid.Nil, m.failWith
	}
	id := uuid.New()
	m.clock = m.clock.Add(time.Second)
	m.products[id] = &domain.Product{ID: id, Name: input.Name, Price: input.Price, Stock: input.Stock, CreatedAt: m.clock}
	return id, nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) matching(search string) []*domain.Product {
	var out []*domain.Product
	for _, p := range m.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (m *mockProductRepository) FindAll(ctx context.Context, page, limit int, search string) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	all := m.matching(search)
	start := (page - 1) * limit
	if start >= len(all) {
		return []*domain.Product{}, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (m *mockProductRepository) Count(ctx context.Context, search string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	return len(m.matching(search)), nil
}

func (m *mockProductRepository) Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product, ok := m.products[id]; ok {
		merged := patch.Apply(*product)
		m.products[id] = &merged
	}
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	return nil
}

type mockClientRepository struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*domain.Client
	clock   time.Time
}

func newMockClientRepository() *mockClientRepository {
	return &mockClientRepository{
		clients: make(map[uuid.UUID]*domain.Client),
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *mockClientRepository) emailOwner(email string) *domain.Client {
	for _, c := range m.clients {
		if strings.EqualFold(c.Email, email) {
			return c
		}
	}
	return nil
}

func (m *mockClientRepository) Create(ctx context.Context, input domain.ClientInput) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailOwner(input.Email) != nil {
		return uuid.Nil, repository.ErrEmailAlreadyExists
	}
	id := uuid.New()
	m.clock = m.clock.Add(time.Second)
	m.clients[id] = &domain.Client{ID: id, Name: input.Name, Email: input.Email, CreatedAt: m.clock}
	return id, nil
}

func (m *mockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	client, ok := m.clients[id]
	if !ok {
		return nil, repository.ErrClientNotFound
	}
	copied := *client
	return &copied, nil
}

func (m *mockClientRepository) FindByEmail(ctx context.Context, email string) (*domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if owner := m.emailOwner(email); owner != nil {
		copied := *owner
		return &copied, nil
	}
	return nil, repository.ErrClientNotFound
}

func (m *mockClientRepository) matching(search string) []*domain.Client {
	needle := strings.ToLower(search)
	var out []*domain.Client
	for _, c := range m.clients {
		if strings.Contains(strings.ToLower(c.Name), needle) || strings.Contains(strings.ToLower(c.Email), needle) {
			copied := *c
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (m *mockClientRepository) FindAll(ctx context.Context, page, limit int, search string) ([]*domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.matching(search)
	start := (page - 1) * limit
	if start >= len(all) {
		return []*domain.Client{}, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (m *mockClientRepository) Count(ctx context.Context, search string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matching(search)), nil
}

func (m *mockClientRepository) Update(ctx context.Context, id uuid.UUID, patch domain.ClientPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	client, ok := m.clients[id]
	if !ok {
		return nil
	}
	if patch.Email != nil {
		if owner := m.emailOwner(*patch.Email); owner != nil && owner.ID != id {
			return repository.ErrEmailAlreadyExists
		}
	}
	merged := patch.Apply(*client)
	m.clients[id] = &merged
	return nil
}

func (m *mockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.clients, id)
	return nil
}

type mockHealthChecker struct {
	stats map[string]string
}

func (m mockHealthChecker) Health(ctx context.Context) map[string]string {
	return m.stats
}

func newProductRouter(repo *mockProductRepository) http.Handler {
	r := chi.NewRouter()
	NewProductHandler(service.NewProductService(repo), zap.NewNop()).RegisterRoutes(r)
	return r
}

func newClientRouter(repo *mockClientRepository) http.Handler {
	r := chi.NewRouter()
	NewClientHandler(service.NewClientService(repo), zap.NewNop()).RegisterRoutes(r)
	return r
}
