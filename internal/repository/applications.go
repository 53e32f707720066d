package repository

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/digitalseva/portal/internal/model"
	"github.com/digitalseva/portal/internal/portal"
)

const (
	// codeAttempts bounds tracking-code generation retries. Six random digits
	// leave ample space, so more than a couple of collisions in a row means
	// something else is wrong.
	codeAttempts = 5

	uniqueViolation = "23505"
)

// Applications persists service requests and their document rows.
type Applications struct {
	pool *pgxpool.Pool
}

// NewApplications constructs the repository.
func NewApplications(pool *pgxpool.Pool) *Applications {
	return &Applications{pool: pool}
}

// CreateWithDocuments inserts the application and all of its document rows in
// one transaction, so a submission is either fully recorded or not at all.
// The tracking code is generated here and regenerated on a unique-index
// collision.
func (r *Applications) CreateWithDocuments(ctx context.Context, app *model.Application, docs []model.Document) error {
	now := time.Now().UTC()
	app.Status = model.StatusPending
	app.CreatedAt = now
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := trackingCode()
		if err != nil {
			return err
		}
		app.Code = code
		err = r.insertTx(ctx, app, docs, now)
		if err == nil {
			return nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			continue
		}
		return err
	}
	return fmt.Errorf("generate tracking code: exhausted %d attempts", codeAttempts)
}

func (r *Applications) insertTx(ctx context.Context, app *model.Application, docs []model.Document, now time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin submission: %w", err)
	}
	defer tx.Rollback(ctx)
	_, err = tx.Exec(ctx, `
		INSERT INTO applications (id, code, user_id, service_id, status, remarks, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, app.ID, app.Code, app.UserID, app.ServiceID, app.Status, app.Remarks, app.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	for i := range docs {
		docs[i].ApplicationID = app.ID
		docs[i].CreatedAt = now
		_, err = tx.Exec(ctx, `
			INSERT INTO documents (id, application_id, label, file_url, object_key, created_at)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, docs[i].ID, docs[i].ApplicationID, docs[i].Label, docs[i].FileURL, docs[i].ObjectKey, docs[i].CreatedAt)
		if err != nil {
			return fmt.Errorf("insert document %q: %w", docs[i].Label, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit submission: %w", err)
	}
	return nil
}

// trackingCode returns DSC- followed by six random decimal digits.
func trackingCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("random tracking code: %w", err)
	}
	return fmt.Sprintf("DSC-%06d", n.Int64()+100000), nil
}

// ByID returns the bare application row.
func (r *Applications) ByID(ctx context.Context, id string) (*model.Application, error) {
	var a model.Application
	row := r.pool.QueryRow(ctx, `
		SELECT id, code, user_id, service_id, status, remarks, created_at
		FROM applications WHERE id=$1
	`, id)
	if err := row.Scan(&a.ID, &a.Code, &a.UserID, &a.ServiceID, &a.Status, &a.Remarks, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, portal.ErrNotFound
		}
		return nil, fmt.Errorf("select application: %w", err)
	}
	return &a, nil
}

// ListByUser returns a customer's applications with service names, newest
// first.
func (r *Applications) ListByUser(ctx context.Context, userID string) ([]model.ApplicationSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.code, a.user_id, a.service_id, a.status, a.remarks, a.created_at,
		       COALESCE(s.name, '')
		FROM applications a
		LEFT JOIN services s ON s.id = a.service_id
		WHERE a.user_id=$1
		ORDER BY a.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return scanSummaries(rows, false)
}

// ListAll returns every application with service and applicant names for the
// admin dashboard.
func (r *Applications) ListAll(ctx context.Context) ([]model.ApplicationSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.code, a.user_id, a.service_id, a.status, a.remarks, a.created_at,
		       COALESCE(s.name, ''), COALESCE(u.name, '')
		FROM applications a
		LEFT JOIN services s ON s.id = a.service_id
		LEFT JOIN users u ON u.id = a.user_id
		ORDER BY a.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return scanSummaries(rows, true)
}

func scanSummaries(rows pgx.Rows, withApplicant bool) ([]model.ApplicationSummary, error) {
	defer rows.Close()
	var out []model.ApplicationSummary
	for rows.Next() {
		var s model.ApplicationSummary
		dest := []any{&s.ID, &s.Code, &s.UserID, &s.ServiceID, &s.Status, &s.Remarks, &s.CreatedAt, &s.ServiceName}
		if withApplicant {
			dest = append(dest, &s.ApplicantName)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DetailByID returns the application expanded with its owner, service, and
// document list, for the review and detail pages.
func (r *Applications) DetailByID(ctx context.Context, id string) (*model.ApplicationDetail, error) {
	var d model.ApplicationDetail
	row := r.pool.QueryRow(ctx, `
		SELECT a.id, a.code, a.user_id, a.service_id, a.status, a.remarks, a.created_at,
		       COALESCE(u.id, ''), COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.phone, ''),
		       COALESCE(s.id, ''), COALESCE(s.name, ''), COALESCE(s.description, ''),
		       COALESCE(s.required_documents, '{}')
		FROM applications a
		LEFT JOIN users u ON u.id = a.user_id
		LEFT JOIN services s ON s.id = a.service_id
		WHERE a.id=$1
	`, id)
	err := row.Scan(&d.ID, &d.Code, &d.UserID, &d.ServiceID, &d.Status, &d.Remarks, &d.CreatedAt,
		&d.User.ID, &d.User.Name, &d.User.Email, &d.User.Phone,
		&d.Service.ID, &d.Service.Name, &d.Service.Description, &d.Service.RequiredDocuments)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, portal.ErrNotFound
		}
		return nil, fmt.Errorf("select application detail: %w", err)
	}
	docs, err := NewDocuments(r.pool).ListByApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Documents = docs
	return &d, nil
}

// ByCode looks an application up by its public tracking code.
func (r *Applications) ByCode(ctx context.Context, code string) (*model.ApplicationSummary, error) {
	var s model.ApplicationSummary
	row := r.pool.QueryRow(ctx, `
		SELECT a.id, a.code, a.user_id, a.service_id, a.status, a.remarks, a.created_at,
		       COALESCE(sv.name, '')
		FROM applications a
		LEFT JOIN services sv ON sv.id = a.service_id
		WHERE a.code=$1
	`, code)
	err := row.Scan(&s.ID, &s.Code, &s.UserID, &s.ServiceID, &s.Status, &s.Remarks, &s.CreatedAt, &s.ServiceName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, portal.ErrNotFound
		}
		return nil, fmt.Errorf("select application by code: %w", err)
	}
	return &s, nil
}

// UpdateReview sets status and remarks in a single update. Last write wins;
// there is no version check.
func (r *Applications) UpdateReview(ctx context.Context, id string, status model.Status, remarks string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE applications SET status=$1, remarks=$2 WHERE id=$3
	`, status, remarks, id)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return portal.ErrNotFound
	}
	return nil
}

// Delete removes a customer's own application. Document rows cascade; the
// blob keys are returned so the caller can schedule object cleanup.
func (r *Applications) Delete(ctx context.Context, id, userID string) ([]string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback(ctx)
	rows, err := tx.Query(ctx, `
		SELECT d.object_key FROM documents d
		JOIN applications a ON a.id = d.application_id
		WHERE a.id=$1 AND a.user_id=$2
	`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("select document keys: %w", err)
	}
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan document key: %w", err)
		}
		keys = append(keys, k)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM applications WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("delete application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, portal.ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit delete: %w", err)
	}
	return keys, nil
}
