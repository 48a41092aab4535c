package scan

import (
	"sync"
	"time"
)

// staleAfterCooldowns bounds the debounce table: entries this many cooldown
// windows old are swept out during accepts.
const staleAfterCooldowns = 10

// Debouncer suppresses repeated detections of the same barcode within a
// cooldown window. The dominant call pattern is many frames per second with
// the same code while a product is held in front of the camera.
type Debouncer struct {
	mu         sync.Mutex
	cooldown   time.Duration
	maxEntries int
	seen       map[string]time.Time
}

func NewDebouncer(cooldown time.Duration, maxEntries int) *Debouncer {
	return &Debouncer{
		cooldown:   cooldown,
		maxEntries: maxEntries,
		seen:       make(map[string]time.Time),
	}
}

// ShouldAccept returns true and records now when the barcode has no entry or
// its last-accepted timestamp is at least a cooldown old. Rejections have no
// side effects.
func (d *Debouncer) ShouldAccept(barcode string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if last, ok := d.seen[barcode]; ok && now.Sub(last) < d.cooldown {
		return false
	}

	d.seen[barcode] = now
	if d.maxEntries > 0 && len(d.seen) > d.maxEntries {
		d.sweep(now)
	}
	return true
}

// sweep drops entries older than staleAfterCooldowns windows. Called with the
// lock held.
func (d *Debouncer) sweep(now time.Time) {
	horizon := time.Duration(staleAfterCooldowns) * d.cooldown
	for code, last := range d.seen {
		if now.Sub(last) >= horizon {
			delete(d.seen, code)
		}
	}
}

// Len reports the debounce table size.
func (d *Debouncer) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
