package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/digitalseva/portal/internal/model"
)

// Documents reads uploaded-file metadata. Rows are written inside the
// submission transaction (see Applications.CreateWithDocuments) and removed by
// cascade, so there are no standalone insert or delete paths.
type Documents struct {
	pool *pgxpool.Pool
}

// NewDocuments constructs the repository.
func NewDocuments(pool *pgxpool.Pool) *Documents {
	return &Documents{pool: pool}
}

// ListByApplication returns an application's documents in submission order.
func (r *Documents) ListByApplication(ctx context.Context, applicationID string) ([]model.Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, application_id, label, file_url, object_key, created_at
		FROM documents WHERE application_id=$1 ORDER BY created_at, label
	`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var out []model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.ApplicationID, &d.Label, &d.FileURL, &d.ObjectKey, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
