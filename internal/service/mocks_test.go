package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"catalogo-api/internal/domain"
	"catalogo-api/internal/repository"

	"github.com/google/uuid"
)

// Mock repositories for testing
type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
	clock    time.Time
	failWith error
	dropNew  bool
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: make(map[uuid.UUID]*domain.Product),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *mockProductRepository) Create(ctx context.Context, input domain.ProductInput) (uuid.UUID, error) {
	if m.failWith != nil {
		return uuid.Nil, m.failWith
	}
	id := uuid.New()
	m.clock = m.clock.Add(time.Second)
	if !m.dropNew {
		m.products[id] = &domain.Product{ID: id, Name: input.Name, Price: input.Price, Stock: input.Stock, CreatedAt: m.clock}
	}
	return id, nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
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
			out = append(out, p)
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
	if m.failWith != nil {
		return 0, m.failWith
	}
	return len(m.matching(search)), nil
}

func (m *mockProductRepository) Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) error {
	if m.failWith != nil {
		return m.failWith
	}
	if product, ok := m.products[id]; ok {
		merged := patch.Apply(*product)
		m.products[id] = &merged
	}
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.failWith != nil {
		return m.failWith
	}
	delete(m.products, id)
	return nil
}

type mockClientRepository struct {
	clients map[uuid.UUID]*domain.Client
	// skipEmailLookup simulates a concurrent writer winning the race after the precondition check
	skipEmailLookup bool
}

func newMockClientRepository() *mockClientRepository {
	return &mockClientRepository{clients: make(map[uuid.UUID]*domain.Client)}
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
	if m.emailOwner(input.Email) != nil {
		return uuid.Nil, repository.ErrEmailAlreadyExists
	}
	id := uuid.New()
	m.clients[id] = &domain.Client{ID: id, Name: input.Name, Email: input.Email, CreatedAt: time.Now()}
	return id, nil
}

func (m *mockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	client, ok := m.clients[id]
	if !ok {
		return nil, repository.ErrClientNotFound
	}
	copied := *client
	return &copied, nil
}

func (m *mockClientRepository) FindByEmail(ctx context.Context, email string) (*domain.Client, error) {
	if m.skipEmailLookup {
		return nil, repository.ErrClientNotFound
	}
	if owner := m.emailOwner(email); owner != nil {
		copied := *owner
		return &copied, nil
	}
	return nil, repository.ErrClientNotFound
}

func (m *mockClientRepository) FindAll(ctx context.Context, page, limit int, search string) ([]*domain.Client, error) {
	return []*domain.Client{}, nil
}

func (m *mockClientRepository) Count(ctx context.Context, search string) (int, error) {
	return len(m.clients), nil
}

func (m *mockClientRepository) Update(ctx context.Context, id uuid.UUID, patch domain.ClientPatch) error {
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
	delete(m.clients, id)
	return nil
}
