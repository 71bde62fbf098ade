// Package heuristics implements the content classifier: pure predicates over
// email addresses and message text. Predicates hold no mutable state, so
// re-running one on the same input always yields the same answer.
//
// The contact form and the portfolio-request form intentionally use different
// strictness levels; see Classifier method docs.
package heuristics

import (
	"regexp"
	"strings"
)

// emailRegex is the loose syntactic check used by the contact form:
// local@domain with a dot somewhere after the @.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// suspiciousLocalParts matches generic local parts that bots and crawlers
// use. Portfolio-request form only.
var suspiciousLocalParts = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^test\d*$`),
	regexp.MustCompile(`(?i)^spam$`),
	regexp.MustCompile(`(?i)^noreply$`),
	regexp.MustCompile(`(?i)^no-reply$`),
	regexp.MustCompile(`(?i)^admin$`),
	regexp.MustCompile(`(?i)^webmaster$`),
	regexp.MustCompile(`(?i)^info$`),
	regexp.MustCompile(`(?i)^contact$`),
	regexp.MustCompile(`(?i)^example`),
	regexp.MustCompile(`(?i)^asdf`),
	regexp.MustCompile(`(?i)^qwerty`),
	regexp.MustCompile(`^\d+$`),           // pure numbers: 12345@
	regexp.MustCompile(`(?i)^[a-z]{1,2}$`), // one/two letter handles: a@, ab@
}

// injectionPatterns flags markup/script fragments in form text. This is
// defense in depth on input, independent of whatever output encoding the
// rendering layer does.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script`),
	regexp.MustCompile(`(?i)</script`),
	regexp.MustCompile(`(?i)<iframe`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)vbscript:`),
	regexp.MustCompile(`(?i)data:text/html`),
	regexp.MustCompile(`(?i)\bon(?:error|load|click|mouseover|focus)\s*=`),
	regexp.MustCompile(`(?i)expression\s*\(`),
}

// Local part length bounds for the strict (portfolio-request) check.
const (
	minLocalPartLen = 3
	maxLocalPartLen = 64
)

// Classifier bundles the predicates with their denylists.
type Classifier struct {
	lists Lists
}

// New creates a Classifier over the given lists.
func New(lists Lists) *Classifier {
	return &Classifier{lists: lists}
}

// NewDefault creates a Classifier over the embedded lists.
func NewDefault() *Classifier {
	return New(DefaultLists())
}

// splitEmail returns the lowercased local part and domain, ok=false when the
// address has no usable @ split.
func splitEmail(email string) (local, domain string, ok bool) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", "", false
	}
	return strings.ToLower(email[:at]), strings.ToLower(email[at+1:]), true
}

// IsValidEmail is the loose contact-form check: single regex.
func (c *Classifier) IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidEmailStrict is the portfolio-request check: regex plus local part
// length bounds [3,64] and a dotted domain. The portfolio flow is a
// lead-capture funnel, so it tolerates less noise than the contact form.
func (c *Classifier) IsValidEmailStrict(email string) bool {
	if !emailRegex.MatchString(email) {
		return false
	}
	local, domain, ok := splitEmail(email)
	if !ok {
		return false
	}
	if len(local) < minLocalPartLen || len(local) > maxLocalPartLen {
		return false
	}
	return strings.Contains(domain, ".")
}

// IsDisposableEmail reports whether the address domain matches a known
// throwaway provider. Substring match so subdomain variants are caught.
func (c *Classifier) IsDisposableEmail(email string) bool {
	_, domain, ok := splitEmail(email)
	if !ok {
		return false
	}
	for _, disposable := range c.lists.DisposableDomains {
		if strings.Contains(domain, disposable) {
			return true
		}
	}
	return false
}

// IsSuspiciousEmail reports whether the local part looks machine-generated
// or generic (test@, admin@, 12345@, ab@, ...). Portfolio-request form only.
func (c *Classifier) IsSuspiciousEmail(email string) bool {
	local, _, ok := splitEmail(email)
	if !ok {
		return false
	}
	for _, pattern := range suspiciousLocalParts {
		if pattern.MatchString(local) {
			return true
		}
	}
	return false
}

// IsProfessionalEmail reports whether the domain is neither a free provider
// nor a disposable one. Informational only: tagged on the audit record,
// never a blocking signal.
func (c *Classifier) IsProfessionalEmail(email string) bool {
	_, domain, ok := splitEmail(email)
	if !ok {
		return false
	}
	for _, free := range c.lists.FreeEmailDomains {
		if domain == free {
			return false
		}
	}
	return !c.IsDisposableEmail(email)
}

// ContainsSpamKeywords reports whether the case-folded text contains any
// denylisted promotional/scam keyword. Contact form only.
func (c *Classifier) ContainsSpamKeywords(text string) bool {
	folded := strings.ToLower(text)
	for _, keyword := range c.lists.SpamKeywords {
		if strings.Contains(folded, keyword) {
			return true
		}
	}
	return false
}

// ContainsInjectionPatterns reports whether the text matches any
// markup/script-injection pattern. Contact form only.
func (c *Classifier) ContainsInjectionPatterns(text string) bool {
	for _, pattern := range injectionPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}
