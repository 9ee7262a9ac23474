package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort defines data access for customers. All lookups are scoped
// by tenant; a row from another tenant is indistinguishable from absence.
type RepositoryPort interface {
	List(ctx context.Context, tenantID int64, req ListCustomersRequest) ([]Customer, int, error)
	Get(ctx context.Context, tenantID, id int64) (Customer, error)
	Create(ctx context.Context, c Customer) (Customer, error)
	Update(ctx context.Context, c Customer) (Customer, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns customers for a tenant with filters plus the total count.
func (r *Repository) List(ctx context.Context, tenantID int64, req ListCustomersRequest) ([]Customer, int, error) {
	where := []string{"tenant_id = $1"}
	args := []any{tenantID}

	if req.IsActive != nil {
		args = append(args, *req.IsActive)
		where = append(where, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if req.Search != nil && *req.Search != "" {
		args = append(args, "%"+*req.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR code ILIKE $%d)", len(args), len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM customers WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, req.Offset)
	query := fmt.Sprintf(
		"SELECT id, tenant_id, code, name, email, phone, notes, is_active, created_at, updated_at FROM customers WHERE %s ORDER BY name LIMIT $%d OFFSET $%d",
		cond, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Code, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// Get fetches one customer by ID within a tenant.
func (r *Repository) Get(ctx context.Context, tenantID, id int64) (Customer, error) {
	var c Customer
	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, code, name, email, phone, notes, is_active, created_at, updated_at
		 FROM customers WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&c.ID, &c.TenantID, &c.Code, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, ErrNotFound
		}
		return Customer{}, err
	}
	return c, nil
}

// Create inserts a customer. A duplicate code within the tenant maps to
// ErrCodeTaken.
func (r *Repository) Create(ctx context.Context, c Customer) (Customer, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO customers (tenant_id, code, name, email, phone, notes, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		 RETURNING id, is_active, created_at, updated_at`,
		c.TenantID, c.Code, c.Name, c.Email, c.Phone, c.Notes,
	).Scan(&c.ID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Customer{}, ErrCodeTaken
		}
		return Customer{}, err
	}
	return c, nil
}

// Update rewrites the mutable columns of a customer.
func (r *Repository) Update(ctx context.Context, c Customer) (Customer, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE customers
		 SET name = $3, email = $4, phone = $5, notes = $6, is_active = $7, updated_at = NOW()
		 WHERE tenant_id = $1 AND id = $2
		 RETURNING updated_at`,
		c.TenantID, c.ID, c.Name, c.Email, c.Phone, c.Notes, c.IsActive,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, ErrNotFound
		}
		return Customer{}, err
	}
	return c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
