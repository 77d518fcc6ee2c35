package service

import (
	"context"
	"errors"
	"fmt"

	"catalogo-api/internal/domain"
	"catalogo-api/internal/repository"

	"github.com/google/uuid"
)

// ClientService defines the interface for client business logic
type ClientService interface {
	Create(ctx context.Context, input domain.ClientInput) (*domain.Client, error)
	List(ctx context.Context, query domain.ListQuery) (*domain.ClientPage, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.ClientPatch) (*domain.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type clientService struct {
	clientRepo repository.ClientRepository
}

// NewClientService creates a new instance of ClientService
func NewClientService(clientRepo repository.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

// Create registers a client. The email lookup gives a friendly conflict up front;
// the unique index still rejects a concurrent duplicate with the same error.
func (s *clientService) Create(ctx context.Context, input domain.ClientInput) (*domain.Client, error) {
	if err := s.ensureEmailAvailable(ctx, input.Email, uuid.Nil); err != nil {
		return nil, err
	}

	id, err := s.clientRepo.Create(ctx, input)
	if err != nil {
		if errors.Is(err, repository.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return s.reread(ctx, id)
}

func (s *clientService) List(ctx context.Context, query domain.ListQuery) (*domain.ClientPage, error) {
	clients, err := s.clientRepo.FindAll(ctx, query.Page, query.Limit, query.Search)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	total, err := s.clientRepo.Count(ctx, query.Search)
	if err != nil {
		return nil, fmt.Errorf("failed to count clients: %w", err)
	}

	return &domain.ClientPage{
		Clients:    clients,
		Pagination: domain.NewPagination(query, total),
	}, nil
}

func (s *clientService) Get(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	return s.clientRepo.FindByID(ctx, id)
}

// Update merges patch into an existing client. Resubmitting the client's own email is not a conflict.
func (s *clientService) Update(ctx context.Context, id uuid.UUID, patch domain.ClientPatch) (*domain.Client, error) {
	existing, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil && *patch.Email != existing.Email {
		if err := s.ensureEmailAvailable(ctx, *patch.Email, id); err != nil {
			return nil, err
		}
	}

	if err := s.clientRepo.Update(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	return s.reread(ctx, id)
}

func (s *clientService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.clientRepo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	return nil
}

// ensureEmailAvailable fails with ErrEmailAlreadyExists when email belongs to a client other than self
func (s *clientService) ensureEmailAvailable(ctx context.Context, email string, self uuid.UUID) error {
	owner, err := s.clientRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check existing email: %w", err)
	}
	if owner.ID != self {
		return repository.ErrEmailAlreadyExists
	}
	return nil
}

func (s *clientService) reread(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return nil, fmt.Errorf("client %s: %w", id, ErrNotVisibleAfterWrite)
		}
		return nil, fmt.Errorf("failed to read client back: %w", err)
	}
	return client, nil
}
