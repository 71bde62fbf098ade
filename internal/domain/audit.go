package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContactStatus is the triage state of a contact submission.
type ContactStatus string

const (
	ContactStatusNew     ContactStatus = "new"
	ContactStatusRead    ContactStatus = "read"
	ContactStatusReplied ContactStatus = "replied"
	ContactStatusSpam    ContactStatus = "spam"
)

// Valid reports whether s is a recognized contact status.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusReplied, ContactStatusSpam:
		return true
	}
	return false
}

// PortfolioStatus is the lead-tracking state of a portfolio request.
type PortfolioStatus string

const (
	PortfolioStatusSent          PortfolioStatus = "sent"
	PortfolioStatusOpened        PortfolioStatus = "opened"
	PortfolioStatusContacted     PortfolioStatus = "contacted"
	PortfolioStatusDiscussing    PortfolioStatus = "discussing"
	PortfolioStatusOpportunity   PortfolioStatus = "opportunity"
	PortfolioStatusNotInterested PortfolioStatus = "not_interested"
)

// Valid reports whether s is a recognized portfolio status.
func (s PortfolioStatus) Valid() bool {
	switch s {
	case PortfolioStatusSent, PortfolioStatusOpened, PortfolioStatusContacted,
		PortfolioStatusDiscussing, PortfolioStatusOpportunity, PortfolioStatusNotInterested:
		return true
	}
	return false
}

// BlockedSource marks portfolio audit rows written for rejected requests, so
// they are distinguishable from real leads in the review API.
const BlockedSource = "BLOCKED"

// ContactRecord is an audit row for the contact form: the message itself when
// accepted, or a spam-tagged trace when blocked.
type ContactRecord struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Message   string
	Status    ContactStatus
	IPHash    string
	UserAgent string

	// Reason is set only on blocked rows.
	Reason    RejectionReason
	CreatedAt time.Time
}

// PortfolioRecord is an audit row for a portfolio request.
type PortfolioRecord struct {
	ID        uuid.UUID
	Email     string
	Status    PortfolioStatus
	Source    string
	IPHash    string
	UserAgent string

	// Notes carries the professional/free email classification on accepted
	// rows and the blocked-reason tag on rejected ones.
	Notes string

	// Reason is set only on blocked rows.
	Reason      RejectionReason
	RequestedAt time.Time
}
