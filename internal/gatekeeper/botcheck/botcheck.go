// Package botcheck implements the bot-behavior detector: the honeypot rule
// and the fill-time floor.
package botcheck

import (
	"time"

	"maraisroos.co.za/formgate/internal/domain"
)

// DefaultMinFill is the floor on form fill time. Humans take at least a few
// seconds; exactly the floor passes, strictly below it is rejected.
const DefaultMinFill = 3 * time.Second

// Messages returned by the detector. The honeypot message is deliberately
// success-shaped: the automated agent must not learn it was detected.
const (
	defaultHoneypotMessage = "Message sent successfully!"
	tooFastMessage         = "That was quick! Please take a moment to review your message and try again."
)

// Detector evaluates honeypot state and elapsed fill time.
type Detector struct {
	minFill    time.Duration
	decoyReply string
}

// New creates a Detector. A non-positive floor falls back to DefaultMinFill.
// decoyReply is the message a honeypot hit echoes back; it must match the
// form's genuine success message or the deception is detectable. Empty picks
// the contact-form default.
func New(minFill time.Duration, decoyReply string) *Detector {
	if minFill <= 0 {
		minFill = DefaultMinFill
	}
	if decoyReply == "" {
		decoyReply = defaultHoneypotMessage
	}
	return &Detector{minFill: minFill, decoyReply: decoyReply}
}

// Evaluate returns a verdict when the detector has an opinion, nil to let the
// pipeline continue.
//
// Honeypot hits return the deceptive success verdict; the caller sees a
// normal acceptance while the internal reason tags the submission for the
// spam audit trail. Too-fast fills are assumed to be human false positives
// and get an honest slow-down message instead.
func (d *Detector) Evaluate(honeypotValue string, elapsed time.Duration) *domain.Verdict {
	if honeypotValue != "" {
		v := domain.DeceptiveSuccess(d.decoyReply)
		return &v
	}

	// elapsed == 0 means the render timestamp was absent; the client clock
	// is only a lower bound, so the timing rule is skipped.
	if elapsed > 0 && elapsed < d.minFill {
		v := domain.Rejected(domain.ReasonTooFast, tooFastMessage)
		return &v
	}

	return nil
}
