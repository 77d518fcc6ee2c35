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

const (
	clientColumns = `id, nome, email, data_criacao`

	clientEmailConstraint = "clientes_email_key"
)

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	Create(ctx context.Context, input domain.ClientInput) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	FindByEmail(ctx context.Context, email string) (*domain.Client, error)
	FindAll(ctx context.Context, page, limit int, search string) ([]*domain.Client, error)
	Count(ctx context.Context, search string) (int, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.ClientPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type clientRepository struct {
	db database.Gateway
}

// NewClientRepository creates a new instance of ClientRepository
func NewClientRepository(db database.Gateway) ClientRepository {
	return &clientRepository{db: db}
}

// Create inserts a new client. A duplicate email, as judged by the unique index,
// yields ErrEmailAlreadyExists.
func (r *clientRepository) Create(ctx context.Context, input domain.ClientInput) (uuid.UUID, error) {
	query := `
		INSERT INTO clientes (id, nome, email)
		VALUES ($1, $2, $3)
	`

	id := uuid.New()
	_, err := r.db.ExecContext(ctx, query, id, input.Name, input.Email)
	if err != nil {
		if isUniqueViolation(err, clientEmailConstraint) {
			return uuid.Nil, ErrEmailAlreadyExists
		}
		return uuid.Nil, storeError("create client", err)
	}

	return id, nil
}

func (r *clientRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clientes WHERE id = $1`

	client, err := scanClient(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, storeError("find client by ID", err)
	}

	return client, nil
}

// FindByEmail looks a client up by email, compared the same way the unique index does
func (r *clientRepository) FindByEmail(ctx context.Context, email string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clientes WHERE LOWER(email) = LOWER($1)`

	client, err := scanClient(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, storeError("find client by email", err)
	}

	return client, nil
}

// FindAll returns one page of clients whose name or email matches search, newest first
func (r *clientRepository) FindAll(ctx context.Context, page, limit int, search string) ([]*domain.Client, error) {
	whereClause, args := clientFilter(search)
	argIndex := len(args) + 1

	query := fmt.Sprintf(`
		SELECT %s
		FROM clientes
		%s
		ORDER BY data_criacao DESC, id ASC
		LIMIT $%d OFFSET $%d
	`, clientColumns, whereClause, argIndex, argIndex+1)

	offset := domain.ListQuery{Page: page, Limit: limit}.Offset()
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("list clients", err)
	}
	defer rows.Close()

	clients := []*domain.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, storeError("scan client", err)
		}
		clients = append(clients, client)
	}

	if err = rows.Err(); err != nil {
		return nil, storeError("iterate clients", err)
	}

	return clients, nil
}

func (r *clientRepository) Count(ctx context.Context, search string) (int, error) {
	whereClause, args := clientFilter(search)

	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM clientes "+whereClause, args...).Scan(&total)
	if err != nil {
		return 0, storeError("count clients", err)
	}

	return total, nil
}

// Update writes only the fields present in patch
func (r *clientRepository) Update(ctx context.Context, id uuid.UUID, patch domain.ClientPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	sets := []string{}
	args := []interface{}{id}

	if patch.Name != nil {
		args = append(args, *patch.Name)
		sets = append(sets, fmt.Sprintf("nome = $%d", len(args)))
	}
	if patch.Email != nil {
		args = append(args, *patch.Email)
		sets = append(sets, fmt.Sprintf("email = $%d", len(args)))
	}

	query := fmt.Sprintf("UPDATE clientes SET %s WHERE id = $1", strings.Join(sets, ", "))

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, clientEmailConstraint) {
			return ErrEmailAlreadyExists
		}
		return storeError("update client", err)
	}

	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM clientes WHERE id = $1`, id); err != nil {
		return storeError("delete client", err)
	}

	return nil
}

func clientFilter(search string) (string, []interface{}) {
	if search == "" {
		return "", nil
	}
	return `WHERE nome ILIKE $1 OR email ILIKE $1`, []interface{}{likePattern(search)}
}

func scanClient(row rowScanner) (*domain.Client, error) {
	client := &domain.Client{}
	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Email,
		&client.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}
