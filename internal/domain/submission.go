// Package domain provides domain models for formgate.
//
// The gatekeeper pipeline operates on these types only; transport and
// storage layers convert at their boundaries.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// FormKind identifies which public form produced a submission.
type FormKind string

const (
	FormContact   FormKind = "contact"
	FormPortfolio FormKind = "portfolio"
)

// RejectionReason is the internal tag recorded for a blocked submission.
// It is logged and audited but never shown verbatim to the client.
type RejectionReason string

const (
	ReasonHoneypot           RejectionReason = "honeypot-triggered"
	ReasonTooFast            RejectionReason = "submitted-too-fast"
	ReasonInvalidEmail       RejectionReason = "invalid-email-syntax"
	ReasonInvalidName        RejectionReason = "invalid-name"
	ReasonInvalidMessage     RejectionReason = "invalid-message-length"
	ReasonDisposableEmail    RejectionReason = "disposable-email"
	ReasonSuspiciousEmail    RejectionReason = "suspicious-email-pattern"
	ReasonSpamContent        RejectionReason = "spam-content-detected"
	ReasonInjectionPattern   RejectionReason = "injection-pattern-detected"
	ReasonRateLimitExceeded  RejectionReason = "rate-limit-exceeded"
	ReasonPersistenceFailure RejectionReason = "persistence-failure"
	ReasonEmailSendFailure   RejectionReason = "email-send-failure"
)

// Candidate is a single inbound form submission before a verdict is reached.
// It is constructed fresh per request and owned by that evaluation; only its
// accepted projection is ever persisted.
type Candidate struct {
	Form FormKind

	// Fields maps form field name to its trimmed, length-capped value.
	Fields map[string]string

	// ClientIdentity is the hashed rate-limit and audit key. Never a raw IP.
	ClientIdentity string

	// UserAgent is kept for audit records only; it is never trusted for
	// decisions.
	UserAgent string

	// HoneypotValue is the content of the hidden form field. Non-empty
	// means an automated form-filler populated it.
	HoneypotValue string

	FormRenderedAt time.Time
	SubmittedAt    time.Time
}

// ElapsedFill returns how long the client took between form render and
// submit. Returns 0 when the render timestamp is missing, which disables the
// timing check (the client clock is trusted only as a lower bound).
func (c *Candidate) ElapsedFill() time.Duration {
	if c.FormRenderedAt.IsZero() || c.SubmittedAt.Before(c.FormRenderedAt) {
		return 0
	}
	return c.SubmittedAt.Sub(c.FormRenderedAt)
}

// Field returns a named form field value, "" when absent.
func (c *Candidate) Field(name string) string {
	return c.Fields[name]
}

// MaxFieldLen is the per-field cap applied when building a Candidate.
const MaxFieldLen = 5000

// NewCandidate builds a Candidate from raw form fields, trimming whitespace
// and capping each field.
func NewCandidate(form FormKind, raw map[string]string, clientIP, userAgent, honeypot string, renderedAt, submittedAt time.Time) *Candidate {
	fields := make(map[string]string, len(raw))
	for name, value := range raw {
		fields[name] = CapField(strings.TrimSpace(value), MaxFieldLen)
	}
	return &Candidate{
		Form:           form,
		Fields:         fields,
		ClientIdentity: HashIdentity(clientIP),
		UserAgent:      userAgent,
		HoneypotValue:  strings.TrimSpace(honeypot),
		FormRenderedAt: renderedAt,
		SubmittedAt:    submittedAt,
	}
}

// CapField truncates s to at most max bytes.
func CapField(s string, max int) string {
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}

// HashIdentity derives the opaque client identity from an IP address:
// SHA-256, hex, truncated to 16 characters. Raw IPs are never stored.
func HashIdentity(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])[:16]
}

// Verdict is the sole output of the gatekeeper pipeline and the only
// contract the UI layer depends on.
type Verdict struct {
	Success bool   `json:"success"`
	Message string `json:"message"`

	// Reason is set for internal logging on rejections (and on honeypot
	// hits, where Success is deliberately true). It is never serialized.
	Reason RejectionReason `json:"-"`
}

// Accepted constructs a success verdict.
func Accepted(message string) Verdict {
	return Verdict{Success: true, Message: message}
}

// Rejected constructs a rejection verdict with a sanitized user message.
func Rejected(reason RejectionReason, userMessage string) Verdict {
	return Verdict{Success: false, Message: userMessage, Reason: reason}
}

// DeceptiveSuccess constructs the honeypot verdict: success-shaped for the
// caller so automated agents are not tipped off, while Reason still carries
// the internal honeypot tag for auditing. Deliberate product decision, not
// an inconsistency to fix.
func DeceptiveSuccess(message string) Verdict {
	return Verdict{Success: true, Message: message, Reason: ReasonHoneypot}
}
