package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/imobix/imobix/internal/auth"
	"github.com/imobix/imobix/internal/platform/db"
	"github.com/imobix/imobix/internal/platform/httpx"
)

// Repository defines account persistence.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Account, error)
	Get(ctx context.Context, id int64) (Account, error)
	Create(ctx context.Context, in NewAccount) (Account, error)
	SetStatus(ctx context.Context, id int64, status auth.Status) (Account, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const accountColumns = `id, name, email, role, status, agency_id, created_at, updated_at`

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Account, error) {
	var (
		where []string
		args  []any
	)
	if filter.Role != "" {
		args = append(args, string(filter.Role))
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.AgencyID != nil {
		args = append(args, *filter.AgencyID)
		where = append(where, fmt.Sprintf("agency_id = $%d", len(args)))
	}
	query := `SELECT ` + accountColumns + ` FROM users`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY name ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE id = $1`, id))
}

func (r *repository) Create(ctx context.Context, in NewAccount) (Account, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO users (name, email, password_hash, role, status, agency_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
RETURNING `+accountColumns, in.Name, in.Email, in.PasswordHash, string(in.Role), string(in.Status), in.AgencyID)
	a, err := scanAccount(row)
	switch {
	case err == nil:
		return a, nil
	case db.IsUniqueViolation(err):
		return Account{}, &httpx.UserError{Kind: httpx.ErrDuplicate, Message: MsgEmailTaken}
	case db.IsForeignKeyViolation(err):
		return Account{}, httpx.Validation(MsgAgencyUnknown)
	default:
		return Account{}, err
	}
}

func (r *repository) SetStatus(ctx context.Context, id int64, status auth.Status) (Account, error) {
	row := r.pool.QueryRow(ctx, `UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING `+accountColumns, id, string(status))
	return scanAccount(row)
}

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	var role, status string
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &role, &status, &a.AgencyID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, httpx.ErrNotFound
		}
		return Account{}, err
	}
	a.Role = auth.Role(role)
	a.Status = auth.Status(status)
	return a, nil
}
