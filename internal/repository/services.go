package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/digitalseva/portal/internal/model"
	"github.com/digitalseva/portal/internal/portal"
)

// Services persists the catalog of offered services.
type Services struct {
	pool *pgxpool.Pool
}

// NewServices constructs the repository.
func NewServices(pool *pgxpool.Pool) *Services {
	return &Services{pool: pool}
}

// List returns the catalog in creation order.
func (r *Services) List(ctx context.Context) ([]model.Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, required_documents, created_at
		FROM services ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()
	var out []model.Service
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.RequiredDocuments, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ByID returns one catalog entry.
func (r *Services) ByID(ctx context.Context, id string) (*model.Service, error) {
	var s model.Service
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, description, required_documents, created_at FROM services WHERE id=$1
	`, id)
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.RequiredDocuments, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, portal.ErrNotFound
		}
		return nil, fmt.Errorf("select service: %w", err)
	}
	return &s, nil
}

// Create inserts a catalog entry, assigning an id when none is set.
func (r *Services) Create(ctx context.Context, s *model.Service) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO services (id, name, description, required_documents, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, s.ID, s.Name, s.Description, s.RequiredDocuments, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

// Update overwrites name, description, and the required-document labels.
func (r *Services) Update(ctx context.Context, s *model.Service) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE services SET name=$1, description=$2, required_documents=$3 WHERE id=$4
	`, s.Name, s.Description, s.RequiredDocuments, s.ID)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return portal.ErrNotFound
	}
	return nil
}

// Delete hard-deletes a catalog entry. Applications referencing the service
// keep their service_id; the reference simply dangles, as the portal has
// always behaved.
func (r *Services) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return portal.ErrNotFound
	}
	return nil
}
