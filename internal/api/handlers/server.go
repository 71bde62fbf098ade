// Package handlers implements the HTTP surface: the two public form
// endpoints, health probes, and the operator review API.
package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"maraisroos.co.za/formgate/internal/audit"
	"maraisroos.co.za/formgate/internal/domain"
)

// Gatekeeper evaluates form submissions. Narrow interface so handler tests
// run against a fake pipeline.
type Gatekeeper interface {
	EvaluateContact(ctx context.Context, cand *domain.Candidate) domain.Verdict
	EvaluatePortfolio(ctx context.Context, cand *domain.Candidate) domain.Verdict
}

// SubmissionStore is the review-API slice of the audit store.
type SubmissionStore interface {
	ListContacts(ctx context.Context, filter audit.ListFilter) ([]*domain.ContactRecord, error)
	ListPortfolioRequests(ctx context.Context, filter audit.ListFilter) ([]*domain.PortfolioRecord, error)
	UpdateContactStatus(ctx context.Context, id uuid.UUID, status domain.ContactStatus) error
	UpdatePortfolioStatus(ctx context.Context, id uuid.UUID, status domain.PortfolioStatus) error
}

// Server holds handler dependencies.
type Server struct {
	gate  Gatekeeper
	store SubmissionStore
	pool  *pgxpool.Pool
}

// ServerDeps holds all dependencies for creating a Server.
// Manual DI, no Wire/Dig.
type ServerDeps struct {
	Gatekeeper Gatekeeper
	Store      SubmissionStore

	// Pool backs the readiness probe. Optional in tests.
	Pool *pgxpool.Pool
}

// NewServer creates a new Server with all dependencies.
func NewServer(deps ServerDeps) *Server {
	return &Server{
		gate:  deps.Gatekeeper,
		store: deps.Store,
		pool:  deps.Pool,
	}
}
