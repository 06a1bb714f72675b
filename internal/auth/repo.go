package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/imobix/imobix/internal/platform/httpx"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	UserLookup
	FindByEmail(ctx context.Context, email string) (User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, status, agency_id, created_at, updated_at`

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
	return scanUser(row)
}

// FindByID fetches a user by primary key.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	var role, status string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &status, &u.AgencyID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, httpx.ErrNotFound
		}
		return User{}, err
	}
	u.Role = Role(role)
	u.Status = Status(status)
	return u, nil
}

var _ Repository = (*PGRepository)(nil)
