// Package repository wraps all SQL used throughout the portal and worker.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/digitalseva/portal/internal/model"
	"github.com/digitalseva/portal/internal/portal"
)

// Users persists citizen and admin profiles, keyed by the identity provider's
// user id.
type Users struct {
	pool *pgxpool.Pool
}

// NewUsers constructs the repository.
func NewUsers(pool *pgxpool.Pool) *Users {
	return &Users{pool: pool}
}

// Create inserts a profile row. The id must be the identity provider's id.
func (r *Users) Create(ctx context.Context, u *model.User) error {
	if u.Role == "" {
		u.Role = model.RoleCustomer
	}
	u.CreatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, phone, role, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, u.ID, u.Name, u.Email, u.Phone, u.Role, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Upsert inserts the profile or overwrites name, email, and role on conflict.
// Used by the allow-listed admin login path, which must win over whatever role
// is stored.
func (r *Users) Upsert(ctx context.Context, u *model.User) error {
	if u.Role == "" {
		u.Role = model.RoleCustomer
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, phone, role, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, email=EXCLUDED.email, role=EXCLUDED.role
	`, u.ID, u.Name, u.Email, u.Phone, u.Role, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// ByID returns a profile by identity-provider id.
func (r *Users) ByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, role, created_at FROM users WHERE id=$1
	`, id)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, portal.ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

// UpdateProfile lets the owning user change name and phone.
func (r *Users) UpdateProfile(ctx context.Context, id, name, phone string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET name=$1, phone=$2 WHERE id=$3`, name, phone, id)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return portal.ErrNotFound
	}
	return nil
}

// UpdateRole changes a user's role through the admin workflow.
func (r *Users) UpdateRole(ctx context.Context, id string, role model.Role) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET role=$1 WHERE id=$2`, role, id)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return portal.ErrNotFound
	}
	return nil
}

// List returns all profiles, newest first, for the admin users page.
func (r *Users) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, phone, role, created_at FROM users ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
