package session

import (
	"sync"
	"time"

	"github.com/jhoicas/pos-dashboard/pkg/logger"
)

// revocationSet tokens invalidados, guardados por huella y con expiración.
type revocationSet struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]time.Time
	now     func() time.Time
}

func newRevocationSet(ttl time.Duration) *revocationSet {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &revocationSet{ttl: ttl, entries: make(map[string]time.Time), now: time.Now}
}

// Add marca el token; devuelve false si ya estaba marcado.
func (r *revocationSet) Add(token string) bool {
	fp := logger.Fingerprint(token)
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.sweepLocked(now)
	if exp, ok := r.entries[fp]; ok && now.Before(exp) {
		return false
	}
	r.entries[fp] = now.Add(r.ttl)
	return true
}

// Contains indica si el token está marcado y vigente.
func (r *revocationSet) Contains(token string) bool {
	fp := logger.Fingerprint(token)
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.entries[fp]
	return ok && r.now().Before(exp)
}

func (r *revocationSet) sweepLocked(now time.Time) {
	for k, exp := range r.entries {
		if !now.Before(exp) {
			delete(r.entries, k)
		}
	}
}
