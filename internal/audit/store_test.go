package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maraisroos.co.za/formgate/internal/domain"
	apperrors "maraisroos.co.za/formgate/internal/pkg/errors"
	"maraisroos.co.za/formgate/internal/pkg/logger"
	"maraisroos.co.za/formgate/internal/testutil"
)

func init() {
	// Initialize logger for tests
	_ = logger.Init("error", "json")
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	pool := testutil.OpenPGXPool(t, "audit")
	require.NoError(t, Migrate(context.Background(), pool))
	return NewStore(pool)
}

func TestStore_ContactLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := &domain.ContactRecord{
		Name:      "Jane Doe",
		Email:     "jane@gmail.com",
		Message:   "Interested in a redesign of our site",
		Status:    domain.ContactStatusNew,
		IPHash:    domain.HashIdentity("203.0.113.7"),
		UserAgent: "test-agent",
	}
	require.NoError(t, store.CreateContact(ctx, rec))
	assert.NotEqual(t, uuid.Nil, rec.ID)

	got, err := store.GetContact(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, domain.ContactStatusNew, got.Status)

	require.NoError(t, store.UpdateContactStatus(ctx, rec.ID, domain.ContactStatusReplied))
	got, err = store.GetContact(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ContactStatusReplied, got.Status)
}

func TestStore_ContactNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetContact(ctx, uuid.New())
	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeSubmissionNotFound, appErr.Code)

	err = store.UpdateContactStatus(ctx, uuid.New(), domain.ContactStatusRead)
	appErr, ok = apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeSubmissionNotFound, appErr.Code)
}

func TestStore_UpdateStatusRejectsUnknownValue(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.UpdateContactStatus(ctx, uuid.New(), domain.ContactStatus("archived"))
	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)

	err = store.UpdatePortfolioStatus(ctx, uuid.New(), domain.PortfolioStatus("spam"))
	appErr, ok = apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)
}

func TestStore_ListContactsByStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, rec := range []*domain.ContactRecord{
		{Name: "A", Email: "a1@example.com", Message: "first", Status: domain.ContactStatusNew},
		{Name: "B", Email: "b2@example.com", Message: "second", Status: domain.ContactStatusNew},
		{Name: "Bot", Email: "bot@spam.biz", Message: "spam", Status: domain.ContactStatusSpam,
			Reason: domain.ReasonHoneypot},
	} {
		require.NoError(t, store.CreateContact(ctx, rec))
	}

	all, err := store.ListContacts(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	spam, err := store.ListContacts(ctx, ListFilter{Status: string(domain.ContactStatusSpam)})
	require.NoError(t, err)
	require.Len(t, spam, 1)
	assert.Equal(t, domain.ReasonHoneypot, spam[0].Reason)

	limited, err := store.ListContacts(ctx, ListFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestStore_PortfolioRequestExists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreatePortfolioRequest(ctx, &domain.PortfolioRecord{
		Email:  "recruiter@bigcorp.com",
		Status: domain.PortfolioStatusSent,
		Source: "linkedin",
	}))

	// Blocked traces do not make a sender a duplicate.
	require.NoError(t, store.CreatePortfolioRequest(ctx, &domain.PortfolioRecord{
		Email:  "blocked@tempmail.com",
		Status: domain.PortfolioStatusNotInterested,
		Source: domain.BlockedSource,
		Reason: domain.ReasonDisposableEmail,
	}))

	exists, err := store.PortfolioRequestExists(ctx, "recruiter@bigcorp.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.PortfolioRequestExists(ctx, "blocked@tempmail.com")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = store.PortfolioRequestExists(ctx, "never@seen.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_UpdatePortfolioStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := &domain.PortfolioRecord{
		Email:  "recruiter@bigcorp.com",
		Status: domain.PortfolioStatusSent,
		Source: "website",
	}
	require.NoError(t, store.CreatePortfolioRequest(ctx, rec))

	require.NoError(t, store.UpdatePortfolioStatus(ctx, rec.ID, domain.PortfolioStatusDiscussing))

	got, err := store.ListPortfolioRequests(ctx, ListFilter{Status: string(domain.PortfolioStatusDiscussing)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec.ID, got[0].ID)
}

func TestStore_DeleteBlockedBefore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := time.Now().UTC().Add(-120 * 24 * time.Hour)

	require.NoError(t, store.CreateContact(ctx, &domain.ContactRecord{
		Name: "Old Bot", Email: "bot@spam.biz", Status: domain.ContactStatusSpam,
		Reason: domain.ReasonSpamContent, CreatedAt: old,
	}))
	require.NoError(t, store.CreateContact(ctx, &domain.ContactRecord{
		Name: "Old Lead", Email: "lead@example.com", Status: domain.ContactStatusNew,
		CreatedAt: old,
	}))
	require.NoError(t, store.CreatePortfolioRequest(ctx, &domain.PortfolioRecord{
		Email: "bot@tempmail.com", Status: domain.PortfolioStatusNotInterested,
		Source: domain.BlockedSource, Reason: domain.ReasonDisposableEmail, RequestedAt: old,
	}))
	require.NoError(t, store.CreateContact(ctx, &domain.ContactRecord{
		Name: "Fresh Bot", Email: "new-bot@spam.biz", Status: domain.ContactStatusSpam,
		Reason: domain.ReasonSpamContent,
	}))

	deleted, err := store.DeleteBlockedBefore(ctx, time.Now().UTC().Add(-90*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	// Accepted rows and fresh spam rows survive.
	contacts, err := store.ListContacts(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, contacts, 2)
}
