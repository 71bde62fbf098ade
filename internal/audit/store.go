// Package audit implements the Postgres-backed audit store: every decided
// submission leaves exactly one row here, accepted or blocked, keyed by the
// hashed client identity. Raw IPs never reach this package.
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"maraisroos.co.za/formgate/internal/domain"
	apperrors "maraisroos.co.za/formgate/internal/pkg/errors"
)

// Store persists and queries audit records over a shared pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store on the shared pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// CreateContact inserts a contact submission row. A zero ID is assigned a
// time-ordered UUID before the insert.
func (s *Store) CreateContact(ctx context.Context, rec *domain.ContactRecord) error {
	if rec.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate contact id: %w", err)
		}
		rec.ID = id
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO contact_submissions (id, name, email, message, status, ip_hash, user_agent, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.Name, rec.Email, rec.Message, rec.Status, rec.IPHash, rec.UserAgent, rec.Reason, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact submission: %w", err)
	}
	return nil
}

// CreatePortfolioRequest inserts a portfolio request row.
func (s *Store) CreatePortfolioRequest(ctx context.Context, rec *domain.PortfolioRecord) error {
	if rec.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate portfolio request id: %w", err)
		}
		rec.ID = id
	}
	if rec.RequestedAt.IsZero() {
		rec.RequestedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO portfolio_requests (id, email, status, source, ip_hash, user_agent, notes, reason, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.Email, rec.Status, rec.Source, rec.IPHash, rec.UserAgent, rec.Notes, rec.Reason, rec.RequestedAt,
	)
	if err != nil {
		return fmt.Errorf("insert portfolio request: %w", err)
	}
	return nil
}

// PortfolioRequestExists reports whether email already has a genuine request
// row. Blocked traces do not count: a previously blocked sender who later
// passes the pipeline is a first-time requester, not a duplicate.
func (s *Store) PortfolioRequestExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM portfolio_requests
			WHERE email = $1 AND source <> $2
		)`,
		email, domain.BlockedSource,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("portfolio request lookup: %w", err)
	}
	return exists, nil
}

// ListFilter narrows a listing. Zero values mean "all".
type ListFilter struct {
	Status string
	Limit  int
}

func (f ListFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return 50
	case f.Limit > 200:
		return 200
	}
	return f.Limit
}

// ListContacts returns contact submissions, newest first.
func (s *Store) ListContacts(ctx context.Context, filter ListFilter) ([]*domain.ContactRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, message, status, ip_hash, user_agent, reason, created_at
		FROM contact_submissions
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2`,
		filter.Status, filter.limit(),
	)
	if err != nil {
		return nil, fmt.Errorf("list contact submissions: %w", err)
	}
	defer rows.Close()

	var recs []*domain.ContactRecord
	for rows.Next() {
		rec := &domain.ContactRecord{}
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Message, &rec.Status,
			&rec.IPHash, &rec.UserAgent, &rec.Reason, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact submission: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contact submissions: %w", err)
	}
	return recs, nil
}

// ListPortfolioRequests returns portfolio requests, newest first.
func (s *Store) ListPortfolioRequests(ctx context.Context, filter ListFilter) ([]*domain.PortfolioRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, email, status, source, ip_hash, user_agent, notes, reason, requested_at
		FROM portfolio_requests
		WHERE ($1 = '' OR status = $1)
		ORDER BY requested_at DESC
		LIMIT $2`,
		filter.Status, filter.limit(),
	)
	if err != nil {
		return nil, fmt.Errorf("list portfolio requests: %w", err)
	}
	defer rows.Close()

	var recs []*domain.PortfolioRecord
	for rows.Next() {
		rec := &domain.PortfolioRecord{}
		if err := rows.Scan(&rec.ID, &rec.Email, &rec.Status, &rec.Source,
			&rec.IPHash, &rec.UserAgent, &rec.Notes, &rec.Reason, &rec.RequestedAt); err != nil {
			return nil, fmt.Errorf("scan portfolio request: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list portfolio requests: %w", err)
	}
	return recs, nil
}

// GetContact fetches one contact submission.
func (s *Store) GetContact(ctx context.Context, id uuid.UUID) (*domain.ContactRecord, error) {
	rec := &domain.ContactRecord{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, email, message, status, ip_hash, user_agent, reason, created_at
		FROM contact_submissions WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Message, &rec.Status,
		&rec.IPHash, &rec.UserAgent, &rec.Reason, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound(apperrors.CodeSubmissionNotFound, "submission not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get contact submission: %w", err)
	}
	return rec, nil
}

// UpdateContactStatus moves a contact submission to a new triage state.
func (s *Store) UpdateContactStatus(ctx context.Context, id uuid.UUID, status domain.ContactStatus) error {
	if !status.Valid() {
		return apperrors.BadRequest(apperrors.CodeInvalidStatus, fmt.Sprintf("invalid contact status %q", status))
	}
	ct, err := s.pool.Exec(ctx,
		`UPDATE contact_submissions SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update contact status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.CodeSubmissionNotFound, "submission not found")
	}
	return nil
}

// UpdatePortfolioStatus moves a portfolio request to a new lead state.
func (s *Store) UpdatePortfolioStatus(ctx context.Context, id uuid.UUID, status domain.PortfolioStatus) error {
	if !status.Valid() {
		return apperrors.BadRequest(apperrors.CodeInvalidStatus, fmt.Sprintf("invalid portfolio status %q", status))
	}
	ct, err := s.pool.Exec(ctx,
		`UPDATE portfolio_requests SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update portfolio status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.CodeSubmissionNotFound, "submission not found")
	}
	return nil
}

// DeleteBlockedBefore removes blocked-attempt traces older than cutoff:
// spam-tagged contact rows and BLOCKED-source portfolio rows. Accepted
// records are never touched. Returns the number of rows removed.
func (s *Store) DeleteBlockedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	contacts, err := s.pool.Exec(ctx, `
		DELETE FROM contact_submissions
		WHERE status = $1 AND created_at < $2`,
		domain.ContactStatusSpam, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("delete blocked contact rows: %w", err)
	}

	portfolios, err := s.pool.Exec(ctx, `
		DELETE FROM portfolio_requests
		WHERE source = $1 AND requested_at < $2`,
		domain.BlockedSource, cutoff,
	)
	if err != nil {
		return contacts.RowsAffected(), fmt.Errorf("delete blocked portfolio rows: %w", err)
	}

	return contacts.RowsAffected() + portfolios.RowsAffected(), nil
}
