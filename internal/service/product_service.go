package service

import (
	"context"
	"errors"
	"fmt"

	"catalogo-api/internal/domain"
	"catalogo-api/internal/repository"

	"github.com/google/uuid"
)

// ProductService defines the interface for product business logic
type ProductService interface {
	Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	List(ctx context.Context, query domain.ListQuery) (*domain.ProductPage, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// Create persists the product and returns the committed row
func (s *productService) Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	id, err := s.productRepo.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return s.reread(ctx, id)
}

// List returns one page of products together with the pagination summary
func (s *productService) List(ctx context.Context, query domain.ListQuery) (*domain.ProductPage, error) {
	products, err := s.productRepo.FindAll(ctx, query.Page, query.Limit, query.Search)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	total, err := s.productRepo.Count(ctx, query.Search)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	return &domain.ProductPage{
		Products:   products,
		Pagination: domain.NewPagination(query, total),
	}, nil
}

// Get returns repository.ErrProductNotFound when no product has the identifier
func (s *productService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// Update merges patch into an existing product
func (s *productService) Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error) {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, id, patch); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return s.reread(ctx, id)
}

// Delete removes an existing product
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

func (s *productService) reread(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotVisibleAfterWrite)
		}
		return nil, fmt.Errorf("failed to read product back: %w", err)
	}
	return product, nil
}
