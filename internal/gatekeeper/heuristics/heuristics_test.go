package heuristics

import (
	"strings"
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	t.Parallel()

	c := NewDefault()

	tests := []struct {
		email string
		want  bool
	}{
		{"jane.smith@company.com", true},
		{"a@b.co", true},
		{"x@sub.domain.org", true},
		{"not-an-email", false},
		{"missing@dot", false},
		{"two@@ats.com", false},
		{"spaces in@mail.com", false},
		{"@nodomain.com", false},
		{"nolocal.com@", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			t.Parallel()

			if got := c.IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsValidEmailStrict(t *testing.T) {
	t.Parallel()

	c := NewDefault()

	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"ordinary address", "jane.smith@company.com", true},
		{"local part at lower bound", "abc@company.com", true},
		{"local part under lower bound", "ab@company.com", false},
		{"local part at upper bound", strings.Repeat("a", 64) + "@company.com", true},
		{"local part over upper bound", strings.Repeat("a", 65) + "@company.com", false},
		{"no dot in domain", "jane@localhost", false},
		{"fails loose check too", "not-an-email", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := c.IsValidEmailStrict(tt.email); got != tt.want {
				t.Errorf("IsValidEmailStrict(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsDisposableEmail(t *testing.T) {
	t.Parallel()

	c := NewDefault()

	tests := []struct {
		email string
		want  bool
	}{
		{"someone@tempmail.com", true},
		{"SOMEONE@MAILINATOR.COM", true},
		// Substring match catches subdomain variants.
		{"bot@mail.mailinator.com", true},
		{"user@10minutemail.com", true},
		{"jane@company.com", false},
		{"jane@gmail.com", false},
		{"no-at-sign", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			t.Parallel()

			if got := c.IsDisposableEmail(tt.email); got != tt.want {
				t.Errorf("IsDisposableEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsSuspiciousEmail(t *testing.T) {
	t.Parallel()

	c := NewDefault()

	tests := []struct {
		email string
		want  bool
	}{
		{"test@company.com", true},
		{"test42@company.com", true},
		{"ADMIN@company.com", true},
		{"noreply@company.com", true},
		{"no-reply@company.com", true},
		{"webmaster@company.com", true},
		{"asdfgh@company.com", true},
		{"qwerty123@company.com", true},
		{"12345@company.com", true},
		{"ab@company.com", true},
		{"jane.smith@company.com", false},
		{"contests@company.com", false},
		{"testimonials@company.com", false},
		{"abc@company.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			t.Parallel()

			if got := c.IsSuspiciousEmail(tt.email); got != tt.want {
				t.Errorf("IsSuspiciousEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsProfessionalEmail(t *testing.T) {
	t.Parallel()

	c := NewDefault()

	tests := []struct {
		email string
		want  bool
	}{
		{"jane@company.com", true},
		{"jane@gmail.com", false},
		{"jane@OUTLOOK.com", false},
		{"jane@tempmail.com", false},
		{"broken", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			t.Parallel()

			if got := c.IsProfessionalEmail(tt.email); got != tt.want {
				t.Errorf("IsProfessionalEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestContainsSpamKeywords(t *testing.T) {
	t.Parallel()

	c := NewDefault()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"promo scam", "Click here to claim your lottery winnings", true},
		{"case folded", "CASINO bonus inside", true},
		{"keyword inside sentence", "we sell cheap backlinks for your site", true},
		{"legitimate inquiry", "I'd like a quote for a five page portfolio site.", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := c.ContainsSpamKeywords(tt.text); got != tt.want {
				t.Errorf("ContainsSpamKeywords(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestContainsInjectionPatterns(t *testing.T) {
	t.Parallel()

	c := NewDefault()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"script tag", `hello <script>alert(1)</script>`, true},
		{"iframe", `<IFRAME src="//evil">`, true},
		{"javascript url", "see javascript:doEvil()", true},
		{"event handler", `<img src=x onerror=steal()>`, true},
		{"css expression", "width: expression(alert(1))", true},
		{"angle brackets in prose", "I need a site for my <small> bakery", false},
		{"mentions onload as a word", "the onload time of my site is slow", false},
		{"plain text", "Looking forward to working together.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := c.ContainsInjectionPatterns(tt.text); got != tt.want {
				t.Errorf("ContainsInjectionPatterns(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

// Every predicate is pure: same input, same answer, no matter how many
// times or in what order they run.
func TestPredicatesAreIdempotent(t *testing.T) {
	t.Parallel()

	c := NewDefault()
	email := "test@tempmail.com"
	text := "click here for free money <script>x</script>"

	for i := 0; i < 50; i++ {
		if !c.IsDisposableEmail(email) {
			t.Fatal("IsDisposableEmail flipped between runs")
		}
		if !c.IsSuspiciousEmail(email) {
			t.Fatal("IsSuspiciousEmail flipped between runs")
		}
		if !c.ContainsSpamKeywords(text) {
			t.Fatal("ContainsSpamKeywords flipped between runs")
		}
		if !c.ContainsInjectionPatterns(text) {
			t.Fatal("ContainsInjectionPatterns flipped between runs")
		}
		if c.IsProfessionalEmail(email) {
			t.Fatal("IsProfessionalEmail flipped between runs")
		}
	}
}

func TestParseLists(t *testing.T) {
	t.Parallel()

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()

		lists, err := ParseLists([]byte("disposable_domains: [trash.example]\nspam_keywords: [casino]\n"))
		if err != nil {
			t.Fatalf("ParseLists() error = %v", err)
		}
		if len(lists.DisposableDomains) != 1 || lists.DisposableDomains[0] != "trash.example" {
			t.Errorf("DisposableDomains = %v", lists.DisposableDomains)
		}
	})

	t.Run("empty denylist rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseLists([]byte("spam_keywords: [casino]\n")); err == nil {
			t.Error("ParseLists() accepted a document without disposable_domains")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseLists([]byte("disposable_domains: [")); err == nil {
			t.Error("ParseLists() accepted malformed yaml")
		}
	})

	t.Run("embedded lists parse", func(t *testing.T) {
		t.Parallel()

		lists := DefaultLists()
		if len(lists.DisposableDomains) == 0 || len(lists.SpamKeywords) == 0 || len(lists.FreeEmailDomains) == 0 {
			t.Errorf("DefaultLists() returned incomplete lists: %+v", lists)
		}
	})
}
