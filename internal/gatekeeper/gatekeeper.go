// Package gatekeeper runs inbound form submissions through the decision
// pipeline: rate limit, bot checks, field validation, content checks, then
// the terminal side effects. Stages run in a strict sequence and the first
// rejection short-circuits; side effects happen only once a terminal verdict
// is reached.
package gatekeeper

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"maraisroos.co.za/formgate/internal/domain"
	"maraisroos.co.za/formgate/internal/gatekeeper/botcheck"
	"maraisroos.co.za/formgate/internal/gatekeeper/heuristics"
	"maraisroos.co.za/formgate/internal/gatekeeper/ratelimit"
	"maraisroos.co.za/formgate/internal/pkg/logger"
	"maraisroos.co.za/formgate/internal/pkg/worker"
)

// User-facing messages. Rejection texts are reason-specific but never reveal
// which heuristic fired; the two success messages double as the honeypot
// decoy replies.
const (
	contactSuccessMessage   = "Message sent successfully!"
	portfolioSuccessMessage = "Portfolio sent! Check your inbox (and spam folder) for an email with my portfolio attached."
	portfolioResentMessage  = "Portfolio re-sent! Check your inbox (and spam folder)."

	missingFieldsMessage  = "Please fill in all fields."
	missingEmailMessage   = "Please enter your email address."
	invalidEmailMessage   = "Please enter a valid email address."
	invalidNameMessage    = "Please enter your name."
	invalidMessageMessage = "Please write a message between 10 and 5000 characters."
	disposableMessage     = "Please use your professional or personal email address, not a temporary one."
	suspiciousMessage     = "Please use a valid professional or personal email address."
	spamContentMessage    = "Your message was flagged as spam. Please revise it and try again."
	injectionMessage      = "Please remove any code or special markup from your message and try again."
	contactSaveFailedMsg  = "Something went wrong sending your message. Please email me directly at hello@maraisroos.co.za."
	portfolioSendFailMsg  = "Failed to send portfolio. Please try again or contact me directly at hello@maraisroos.co.za."
)

// Default rate-limit messages, scoped per form type.
const (
	ContactRateLimitMessage   = "Too many submissions. Please try again later."
	PortfolioRateLimitMessage = "You have already requested the portfolio. Please check your email or contact me directly at hello@maraisroos.co.za"
)

// Name and message length bounds for the contact form.
const (
	minNameLen    = 2
	maxNameLen    = 200
	minMessageLen = 10
)

// AuditSink persists accepted submissions and blocked-attempt traces.
type AuditSink interface {
	CreateContact(ctx context.Context, rec *domain.ContactRecord) error
	CreatePortfolioRequest(ctx context.Context, rec *domain.PortfolioRecord) error

	// PortfolioRequestExists reports whether an audit row already exists
	// for this email, enabling the duplicate re-send path.
	PortfolioRequestExists(ctx context.Context, email string) (bool, error)
}

// PortfolioSender delivers the portfolio PDF to a recipient.
type PortfolioSender interface {
	SendPortfolio(ctx context.Context, recipientEmail string) error
}

// Notifier dispatches operator notifications. Implementations are expected
// to be queue-backed; the pipeline never waits on delivery.
type Notifier interface {
	NotifyContactSubmission(ctx context.Context, name, email, message string) error
	NotifyPortfolioRequest(ctx context.Context, email, source string) error
}

// Config carries the pipeline's tunables.
type Config struct {
	ContactPolicy   ratelimit.Policy
	PortfolioPolicy ratelimit.Policy
	MinFillTime     time.Duration

	// AuditTimeout bounds each detached blocked-attempt audit write.
	AuditTimeout time.Duration
}

// Gatekeeper evaluates form submissions and owns the terminal side effects.
type Gatekeeper struct {
	contactLimiter   *ratelimit.Limiter
	portfolioLimiter *ratelimit.Limiter
	contactBots      *botcheck.Detector
	portfolioBots    *botcheck.Detector
	classifier       *heuristics.Classifier

	sink     AuditSink
	sender   PortfolioSender
	notifier Notifier
	pools    *worker.Pools

	auditTimeout time.Duration
}

// New wires a Gatekeeper. Each form gets its own limiter instance over its
// own store; the detectors share the fill-time floor but answer honeypot
// hits with their form's success message.
func New(cfg Config, sink AuditSink, sender PortfolioSender, notifier Notifier, pools *worker.Pools) *Gatekeeper {
	auditTimeout := cfg.AuditTimeout
	if auditTimeout <= 0 {
		auditTimeout = 10 * time.Second
	}
	if cfg.ContactPolicy.Message == "" {
		cfg.ContactPolicy.Message = ContactRateLimitMessage
	}
	if cfg.PortfolioPolicy.Message == "" {
		cfg.PortfolioPolicy.Message = PortfolioRateLimitMessage
	}
	return &Gatekeeper{
		contactLimiter:   ratelimit.New(cfg.ContactPolicy, ratelimit.NewMemoryStore()),
		portfolioLimiter: ratelimit.New(cfg.PortfolioPolicy, ratelimit.NewMemoryStore()),
		contactBots:      botcheck.New(cfg.MinFillTime, contactSuccessMessage),
		portfolioBots:    botcheck.New(cfg.MinFillTime, portfolioSuccessMessage),
		classifier:       heuristics.NewDefault(),
		sink:             sink,
		sender:           sender,
		notifier:         notifier,
		pools:            pools,
		auditTimeout:     auditTimeout,
	}
}

// EvaluateContact runs a contact-form submission through the pipeline and
// returns the verdict. Rejections are decided synchronously; the only
// synchronous side effect on acceptance is the audit-store create, which is
// the message itself and therefore surfaces as a rejection when it fails.
func (g *Gatekeeper) EvaluateContact(ctx context.Context, cand *domain.Candidate) domain.Verdict {
	name := cand.Field("name")
	email := strings.ToLower(cand.Field("email"))
	message := cand.Field("message")

	if limit := g.contactLimiter.CheckAndRecord(cand.ClientIdentity, cand.SubmittedAt); !limit.Allowed {
		return g.rejectContact(cand, domain.Rejected(domain.ReasonRateLimitExceeded, limit.Message))
	}

	if v := g.contactBots.Evaluate(cand.HoneypotValue, cand.ElapsedFill()); v != nil {
		return g.rejectContact(cand, *v)
	}

	if name == "" || email == "" || message == "" {
		return g.rejectContact(cand, domain.Rejected(domain.ReasonInvalidMessage, missingFieldsMessage))
	}
	if len(name) < minNameLen || len(name) > maxNameLen {
		return g.rejectContact(cand, domain.Rejected(domain.ReasonInvalidName, invalidNameMessage))
	}
	if !g.classifier.IsValidEmail(email) {
		return g.rejectContact(cand, domain.Rejected(domain.ReasonInvalidEmail, invalidEmailMessage))
	}
	if len(message) < minMessageLen {
		return g.rejectContact(cand, domain.Rejected(domain.ReasonInvalidMessage, invalidMessageMessage))
	}

	if g.classifier.ContainsSpamKeywords(name + " " + message) {
		return g.rejectContact(cand, domain.Rejected(domain.ReasonSpamContent, spamContentMessage))
	}
	if g.classifier.ContainsInjectionPatterns(name + " " + email + " " + message) {
		return g.rejectContact(cand, domain.Rejected(domain.ReasonInjectionPattern, injectionMessage))
	}

	// Decided: accepted. The audit-store create is the primary write; if it
	// fails the message is lost, so this one failure does surface to the
	// caller as a rejection.
	rec := &domain.ContactRecord{
		Name:      name,
		Email:     email,
		Message:   message,
		Status:    domain.ContactStatusNew,
		IPHash:    cand.ClientIdentity,
		UserAgent: cand.UserAgent,
		CreatedAt: cand.SubmittedAt,
	}
	if err := g.sink.CreateContact(ctx, rec); err != nil {
		logger.Error("contact submission write failed",
			zap.String("identity", cand.ClientIdentity),
			zap.Error(err),
		)
		return domain.Rejected(domain.ReasonPersistenceFailure, contactSaveFailedMsg)
	}

	g.notifyDetached(func(ctx context.Context) error {
		return g.notifier.NotifyContactSubmission(ctx, name, email, message)
	})

	logger.Info("contact submission accepted",
		zap.String("identity", cand.ClientIdentity),
	)
	return domain.Accepted(contactSuccessMessage)
}

// EvaluatePortfolio runs a portfolio-request submission through the
// pipeline. The portfolio email send is the primary side effect here; the
// audit record and the operator notification are best-effort.
func (g *Gatekeeper) EvaluatePortfolio(ctx context.Context, cand *domain.Candidate) domain.Verdict {
	email := strings.ToLower(cand.Field("email"))
	source := cand.Field("source")
	if source == "" {
		source = "unknown"
	}

	if limit := g.portfolioLimiter.CheckAndRecord(cand.ClientIdentity, cand.SubmittedAt); !limit.Allowed {
		return g.rejectPortfolio(cand, email, source, domain.Rejected(domain.ReasonRateLimitExceeded, limit.Message))
	}

	if v := g.portfolioBots.Evaluate(cand.HoneypotValue, cand.ElapsedFill()); v != nil {
		return g.rejectPortfolio(cand, email, source, *v)
	}

	if email == "" {
		return g.rejectPortfolio(cand, email, source, domain.Rejected(domain.ReasonInvalidEmail, missingEmailMessage))
	}
	if !g.classifier.IsValidEmailStrict(email) {
		return g.rejectPortfolio(cand, email, source, domain.Rejected(domain.ReasonInvalidEmail, invalidEmailMessage))
	}

	if g.classifier.IsDisposableEmail(email) {
		return g.rejectPortfolio(cand, email, source, domain.Rejected(domain.ReasonDisposableEmail, disposableMessage))
	}
	if g.classifier.IsSuspiciousEmail(email) {
		return g.rejectPortfolio(cand, email, source, domain.Rejected(domain.ReasonSuspiciousEmail, suspiciousMessage))
	}

	// Duplicate request: re-send the portfolio, report success, and do not
	// create a second audit row. A lookup failure falls through to the
	// first-time path rather than blocking the request.
	exists, err := g.sink.PortfolioRequestExists(ctx, email)
	if err != nil {
		logger.Warn("portfolio duplicate lookup failed",
			zap.String("identity", cand.ClientIdentity),
			zap.Error(err),
		)
	}
	if err == nil && exists {
		if err := g.sender.SendPortfolio(ctx, email); err != nil {
			logger.Error("portfolio re-send failed",
				zap.String("identity", cand.ClientIdentity),
				zap.Error(err),
			)
			return domain.Rejected(domain.ReasonEmailSendFailure, portfolioSendFailMsg)
		}
		logger.Info("portfolio re-sent",
			zap.String("identity", cand.ClientIdentity),
		)
		return domain.Accepted(portfolioResentMessage)
	}

	// Decided: accepted. The email send is the request's whole point, so a
	// send failure surfaces as a rejection with the direct-contact fallback.
	if err := g.sender.SendPortfolio(ctx, email); err != nil {
		logger.Error("portfolio send failed",
			zap.String("identity", cand.ClientIdentity),
			zap.Error(err),
		)
		return domain.Rejected(domain.ReasonEmailSendFailure, portfolioSendFailMsg)
	}

	notes := "Free email provider"
	if g.classifier.IsProfessionalEmail(email) {
		notes = "Professional email domain"
	}
	rec := &domain.PortfolioRecord{
		Email:       email,
		Status:      domain.PortfolioStatusSent,
		Source:      source,
		IPHash:      cand.ClientIdentity,
		UserAgent:   cand.UserAgent,
		Notes:       notes,
		RequestedAt: cand.SubmittedAt,
	}
	// Best-effort: the portfolio is already in the recipient's inbox, so a
	// tracking-row failure must not convert the verdict.
	if err := g.sink.CreatePortfolioRequest(ctx, rec); err != nil {
		logger.Error("portfolio request write failed",
			zap.String("identity", cand.ClientIdentity),
			zap.Error(err),
		)
	}

	g.notifyDetached(func(ctx context.Context) error {
		return g.notifier.NotifyPortfolioRequest(ctx, email, source)
	})

	logger.Info("portfolio request accepted",
		zap.String("identity", cand.ClientIdentity),
		zap.String("source", source),
	)
	return domain.Accepted(portfolioSuccessMessage)
}

// rejectContact records a blocked contact attempt and returns the verdict.
// The audit write is detached so the response is never delayed by it.
func (g *Gatekeeper) rejectContact(cand *domain.Candidate, v domain.Verdict) domain.Verdict {
	g.logBlocked(cand, v)

	rec := &domain.ContactRecord{
		Name:      cand.Field("name"),
		Email:     strings.ToLower(cand.Field("email")),
		Message:   cand.Field("message"),
		Status:    domain.ContactStatusSpam,
		IPHash:    cand.ClientIdentity,
		UserAgent: cand.UserAgent,
		Reason:    v.Reason,
		CreatedAt: cand.SubmittedAt,
	}
	g.auditDetached(func(ctx context.Context) error {
		return g.sink.CreateContact(ctx, rec)
	})
	return v
}

// rejectPortfolio records a blocked portfolio attempt and returns the
// verdict. Blocked rows keep the lead-status vocabulary by using
// not_interested with the BLOCKED source marker.
func (g *Gatekeeper) rejectPortfolio(cand *domain.Candidate, email, source string, v domain.Verdict) domain.Verdict {
	g.logBlocked(cand, v)

	rec := &domain.PortfolioRecord{
		Email:       email,
		Status:      domain.PortfolioStatusNotInterested,
		Source:      domain.BlockedSource,
		IPHash:      cand.ClientIdentity,
		UserAgent:   cand.UserAgent,
		Notes:       "[BLOCKED: " + string(v.Reason) + "]",
		Reason:      v.Reason,
		RequestedAt: cand.SubmittedAt,
	}
	g.auditDetached(func(ctx context.Context) error {
		return g.sink.CreatePortfolioRequest(ctx, rec)
	})
	return v
}

func (g *Gatekeeper) logBlocked(cand *domain.Candidate, v domain.Verdict) {
	logger.Info("submission blocked",
		zap.String("form", string(cand.Form)),
		zap.String("identity", cand.ClientIdentity),
		zap.String("reason", string(v.Reason)),
	)
}

// auditDetached runs an audit write on the audit pool with its own timeout.
// Submission failures (pool exhausted during shutdown) are logged only.
func (g *Gatekeeper) auditDetached(write func(ctx context.Context) error) {
	err := g.pools.SubmitDetached("audit", func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, g.auditTimeout)
		defer cancel()
		if err := write(ctx); err != nil {
			logger.Error("blocked-attempt audit write failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Error("audit write not scheduled", zap.Error(err))
	}
}

// notifyDetached dispatches an operator notification without awaiting it.
// Outcomes are observed only for logging; a notification failure never
// changes an already-decided verdict.
func (g *Gatekeeper) notifyDetached(send func(ctx context.Context) error) {
	err := g.pools.SubmitDetached("general", func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, g.auditTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			logger.Warn("operator notification failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Warn("operator notification not scheduled", zap.Error(err))
	}
}
