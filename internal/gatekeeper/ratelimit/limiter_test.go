package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestLimiter(max int, window time.Duration) (*Limiter, *MemoryStore) {
	store := NewMemoryStore()
	return New(Policy{
		MaxSubmissions: max,
		Window:         window,
		Message:        "Too many submissions. Please try again later.",
	}, store), store
}

func TestCheckAndRecord_AllowsUpToLimit(t *testing.T) {
	t.Parallel()

	limiter, _ := newTestLimiter(3, time.Hour)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// First MaxSubmissions within the window succeed, the next is denied.
	for i := 0; i < 3; i++ {
		res := limiter.CheckAndRecord("ident-a", now.Add(time.Duration(i)*time.Minute))
		if !res.Allowed {
			t.Fatalf("submission %d denied, want allowed", i+1)
		}
	}

	res := limiter.CheckAndRecord("ident-a", now.Add(10*time.Minute))
	if res.Allowed {
		t.Fatal("4th submission inside window allowed, want denied")
	}
	if res.Message == "" {
		t.Error("denied result must carry the retry-later message")
	}
}

func TestCheckAndRecord_DeniedAttemptNotRecorded(t *testing.T) {
	t.Parallel()

	limiter, _ := newTestLimiter(1, time.Hour)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if res := limiter.CheckAndRecord("ident-b", now); !res.Allowed {
		t.Fatal("first submission denied")
	}

	// Hammering while denied must not extend the block: only the one
	// recorded timestamp counts, so just past the window we are allowed.
	for i := 1; i <= 5; i++ {
		if res := limiter.CheckAndRecord("ident-b", now.Add(time.Duration(i)*time.Minute)); res.Allowed {
			t.Fatalf("attempt at +%dm allowed, want denied", i)
		}
	}

	if res := limiter.CheckAndRecord("ident-b", now.Add(time.Hour+time.Second)); !res.Allowed {
		t.Fatal("submission after window rollover denied, want allowed")
	}
}

func TestCheckAndRecord_SlidingWindowRollover(t *testing.T) {
	t.Parallel()

	limiter, _ := newTestLimiter(2, 24*time.Hour)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	limiter.CheckAndRecord("ident-c", base)
	limiter.CheckAndRecord("ident-c", base.Add(time.Hour))

	if res := limiter.CheckAndRecord("ident-c", base.Add(2*time.Hour)); res.Allowed {
		t.Fatal("3rd submission inside 24h allowed, want denied")
	}

	// A true sliding window: once the first timestamp ages out, one slot
	// frees up even though the second is still in-window.
	if res := limiter.CheckAndRecord("ident-c", base.Add(24*time.Hour+time.Minute)); !res.Allowed {
		t.Fatal("submission after first timestamp expired denied, want allowed")
	}
	if res := limiter.CheckAndRecord("ident-c", base.Add(24*time.Hour+2*time.Minute)); res.Allowed {
		t.Fatal("window should be full again")
	}
}

func TestCheckAndRecord_IdentitiesIndependent(t *testing.T) {
	t.Parallel()

	limiter, _ := newTestLimiter(1, time.Hour)
	now := time.Now()

	if res := limiter.CheckAndRecord("ident-x", now); !res.Allowed {
		t.Fatal("ident-x first submission denied")
	}
	if res := limiter.CheckAndRecord("ident-y", now); !res.Allowed {
		t.Fatal("ident-y must not be affected by ident-x")
	}
}

func TestCheckAndRecord_ZeroPolicyDisablesLimiting(t *testing.T) {
	t.Parallel()

	limiter := New(Policy{}, NewMemoryStore())
	now := time.Now()
	for i := 0; i < 10; i++ {
		if res := limiter.CheckAndRecord("ident", now); !res.Allowed {
			t.Fatal("disabled limiter denied a submission")
		}
	}
}

func TestMemoryStore_PrunesExpiredIdentities(t *testing.T) {
	t.Parallel()

	limiter, store := newTestLimiter(3, time.Hour)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	limiter.CheckAndRecord("ident-old", base)
	if store.Len() != 1 {
		t.Fatalf("store has %d identities, want 1", store.Len())
	}

	// A denied-then-expired identity is dropped entirely once every
	// timestamp falls out of the window and nothing new is recorded.
	store.Swap("ident-old", func(timestamps []time.Time) []time.Time {
		return nil
	})
	if store.Len() != 0 {
		t.Fatalf("store has %d identities after prune, want 0", store.Len())
	}
}

func TestCheckAndRecord_ConcurrentSameIdentity(t *testing.T) {
	t.Parallel()

	limiter, _ := newTestLimiter(5, time.Hour)
	now := time.Now()

	var wg sync.WaitGroup
	allowed := make(chan bool, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- limiter.CheckAndRecord("ident-conc", now).Allowed
		}()
	}
	wg.Wait()
	close(allowed)

	var count int
	for ok := range allowed {
		if ok {
			count++
		}
	}
	if count != 5 {
		t.Fatalf("%d submissions allowed concurrently, want exactly 5", count)
	}
}

func TestTwoInstancesAreIndependent(t *testing.T) {
	t.Parallel()

	// Contact and portfolio policies run as two limiter instances over two
	// stores; exhausting one leaves the other untouched.
	contact, _ := newTestLimiter(3, time.Hour)
	portfolio, _ := newTestLimiter(2, 24*time.Hour)
	now := time.Now()

	for i := 0; i < 3; i++ {
		contact.CheckAndRecord("ident-z", now)
	}
	if res := contact.CheckAndRecord("ident-z", now); res.Allowed {
		t.Fatal("contact limiter should be exhausted")
	}
	if res := portfolio.CheckAndRecord("ident-z", now); !res.Allowed {
		t.Fatal("portfolio limiter must not share contact state")
	}
}

func ExampleLimiter_CheckAndRecord() {
	limiter := New(Policy{
		MaxSubmissions: 2,
		Window:         24 * time.Hour,
		Message:        "You have already requested the portfolio.",
	}, NewMemoryStore())

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	fmt.Println(limiter.CheckAndRecord("4f2a9c", now).Allowed)
	fmt.Println(limiter.CheckAndRecord("4f2a9c", now.Add(time.Minute)).Allowed)
	fmt.Println(limiter.CheckAndRecord("4f2a9c", now.Add(2*time.Minute)).Allowed)
	// Output:
	// true
	// true
	// false
}
