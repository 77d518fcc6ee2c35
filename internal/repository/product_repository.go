package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"catalogo-api/internal/database"
	"catalogo-api/internal/domain"

	"github.com/google/uuid"
)

const productColumns = `id, nome, preco, estoque, data_criacao`

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, input domain.ProductInput) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindAll(ctx context.Context, page, limit int, search string) ([]*domain.Product, error)
	Count(ctx context.Context, search string) (int, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	db database.Gateway
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db database.Gateway) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product under a freshly generated identifier. The creation
// timestamp is assigned by the store.
func (r *productRepository) Create(ctx context.Context, input domain.ProductInput) (uuid.UUID, error) {
	query := `
		INSERT INTO produtos (id, nome, preco, estoque)
		VALUES ($1, $2, $3, $4)
	`

	id := uuid.New()
	_, err := r.db.ExecContext(ctx, query, id, input.Name, input.Price, input.Stock)
	if err != nil {
		return uuid.Nil, storeError("create product", err)
	}

	return id, nil
}

// FindByID retrieves a product by ID. ErrProductNotFound signals absence.
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM produtos WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, storeError("find product by ID", err)
	}

	return product, nil
}

// FindAll returns one page of products matching search, newest first
func (r *productRepository) FindAll(ctx context.Context, page, limit int, search string) ([]*domain.Product, error) {
	whereClause, args := productFilter(search)
	argIndex := len(args) + 1

	query := fmt.Sprintf(`
		SELECT %s
		FROM produtos
		%s
		ORDER BY data_criacao DESC, id ASC
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, argIndex, argIndex+1)

	offset := domain.ListQuery{Page: page, Limit: limit}.Offset()
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("list products", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, storeError("scan product", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, storeError("iterate products", err)
	}

	return products, nil
}

// Count returns the number of products matching search, ignoring pagination
func (r *productRepository) Count(ctx context.Context, search string) (int, error) {
	whereClause, args := productFilter(search)

	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM produtos "+whereClause, args...).Scan(&total)
	if err != nil {
		return 0, storeError("count products", err)
	}

	return total, nil
}

// Update writes only the fields present in patch. A missing row is not an error here.
func (r *productRepository) Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	sets := []string{}
	args := []interface{}{id}

	if patch.Name != nil {
		args = append(args, *patch.Name)
		sets = append(sets, fmt.Sprintf("nome = $%d", len(args)))
	}
	if patch.Price != nil {
		args = append(args, *patch.Price)
		sets = append(sets, fmt.Sprintf("preco = $%d", len(args)))
	}
	if patch.Stock != nil {
		args = append(args, *patch.Stock)
		sets = append(sets, fmt.Sprintf("estoque = $%d", len(args)))
	}

	query := fmt.Sprintf("UPDATE produtos SET %s WHERE id = $1", strings.Join(sets, ", "))

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return storeError("update product", err)
	}

	return nil
}

// Delete removes a product. A missing row is not an error here.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM produtos WHERE id = $1`, id); err != nil {
		return storeError("delete product", err)
	}

	return nil
}

func productFilter(search string) (string, []interface{}) {
	if search == "" {
		return "", nil
	}
	return `WHERE nome ILIKE $1`, []interface{}{likePattern(search)}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.Stock,
		&product.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}
