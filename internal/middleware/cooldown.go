package middleware

import (
	"fmt"
	"sync"
	"time"
)

// ==================== CooldownLimiter ====================

// CooldownLimiter allows one action per key per interval. In-process only;
// each replica keeps its own clock.
type CooldownLimiter struct {
	locks sync.Map // key -> *lockEntry
	now   func() time.Time
}

type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

func NewCooldownLimiter() *CooldownLimiter {
	return &CooldownLimiter{now: time.Now}
}

type CheckResult struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Check records an attempt for key and reports whether it is allowed
func (r *CooldownLimiter) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := r.now()
	if !entry.lastTime.IsZero() {
		if elapsed := now.Sub(entry.lastTime); elapsed < interval {
			return CheckResult{Allowed: false, RetryAfter: interval - elapsed}
		}
	}

	entry.lastTime = now
	return CheckResult{Allowed: true}
}

// Reset clears the cooldown for key
func (r *CooldownLimiter) Reset(key string) {
	r.locks.Delete(key)
}

// IngestionCooldownKey one cooldown bucket per tenant
func IngestionCooldownKey(tenantID int64) string {
	return fmt.Sprintf("tenant:%d:ingestion", tenantID)
}
