package uploads

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists upload metadata.
type Repository interface {
	Save(ctx context.Context, rec Record) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// Save inserts the record. Replays of the same key are ignored.
func (r *repository) Save(ctx context.Context, rec Record) error {
	var uploadedBy *int64
	if rec.UploadedBy > 0 {
		uploadedBy = &rec.UploadedBy
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO uploads (key, filename, category, url, content_type, size_bytes, is_public, uploaded_by, uploaded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (key) DO NOTHING`,
		rec.Key, rec.Filename, rec.Category, rec.URL, rec.ContentType, rec.Size, rec.Public, uploadedBy, rec.UploadedAt)
	return err
}
