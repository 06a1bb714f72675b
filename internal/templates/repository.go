package templates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/imobix/imobix/internal/platform/db"
	"github.com/imobix/imobix/internal/platform/httpx"
)

// Repository is the narrow store contract the templates resource needs.
type Repository interface {
	ListActive(ctx context.Context) ([]Template, error)
	Create(ctx context.Context, in CreateInput) (Template, error)
	SetActive(ctx context.Context, id int64, active bool) (Template, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const templateColumns = `id, name, description, category, body, is_active, created_at, updated_at`

func (r *repository) ListActive(ctx context.Context) ([]Template, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+templateColumns+` FROM templates WHERE is_active = true ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Template, 0)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, in CreateInput) (Template, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO templates (name, description, category, body, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, true, NOW(), NOW())
RETURNING `+templateColumns, strings.TrimSpace(in.Name), in.Description, in.Category, in.Body)
	t, err := scanTemplate(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Template{}, httpx.ErrDuplicate
		}
		return Template{}, err
	}
	return t, nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) (Template, error) {
	row := r.pool.QueryRow(ctx, `UPDATE templates SET is_active = $2, updated_at = NOW() WHERE id = $1 RETURNING `+templateColumns, id, active)
	t, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Template{}, httpx.ErrNotFound
		}
		return Template{}, err
	}
	return t, nil
}

func scanTemplate(row pgx.Row) (Template, error) {
	var t Template
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Category, &t.Body, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}
