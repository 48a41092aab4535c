package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/korzewarrior/smartkart/internal/product"
)

// NoCursor is the cursor sentinel for an empty cart.
const NoCursor = -1

// Entry wraps a product record with insertion metadata. The record is held by
// value so a cache reset cannot invalidate cart contents.
type Entry struct {
	ID      uuid.UUID      `json:"id"`
	Product product.Record `json:"product"`
	AddedAt time.Time      `json:"added_at"`
}

// Cart is an ordered collection of accepted products plus a review cursor.
// The interaction controller owns synchronization; Cart itself is not safe
// for concurrent use.
type Cart struct {
	entries []Entry
	cursor  int
	now     func() time.Time
}

func New() *Cart {
	return &Cart{cursor: NoCursor, now: time.Now}
}

// Add appends the record and moves the cursor to the new last entry.
func (c *Cart) Add(record product.Record) Entry {
	entry := Entry{
		ID:      uuid.New(),
		Product: record,
		AddedAt: c.now().UTC(),
	}
	c.entries = append(c.entries, entry)
	c.cursor = len(c.entries) - 1
	return entry
}

// Current returns the entry under the cursor.
func (c *Cart) Current() (Entry, bool) {
	if c.cursor == NoCursor {
		return Entry{}, false
	}
	return c.entries[c.cursor], true
}

// RemoveCurrent deletes the entry under the cursor. The cursor clamps to the
// new last index, or NoCursor when the cart empties.
func (c *Cart) RemoveCurrent() (Entry, bool) {
	if c.cursor == NoCursor {
		return Entry{}, false
	}

	removed := c.entries[c.cursor]
	c.entries = append(c.entries[:c.cursor], c.entries[c.cursor+1:]...)
	if len(c.entries) == 0 {
		c.cursor = NoCursor
	} else if c.cursor >= len(c.entries) {
		c.cursor = len(c.entries) - 1
	}
	return removed, true
}

// Next moves the cursor forward with wraparound. No-op on an empty cart.
func (c *Cart) Next() (Entry, bool) {
	if len(c.entries) == 0 {
		return Entry{}, false
	}
	c.cursor = (c.cursor + 1) % len(c.entries)
	return c.entries[c.cursor], true
}

// Previous moves the cursor backward with wraparound. No-op on an empty cart.
func (c *Cart) Previous() (Entry, bool) {
	if len(c.entries) == 0 {
		return Entry{}, false
	}
	c.cursor = (c.cursor - 1 + len(c.entries)) % len(c.entries)
	return c.entries[c.cursor], true
}

// Rewind moves the cursor back to the first entry. No-op on an empty cart.
// Used when review mode opens so announcements start from the top.
func (c *Cart) Rewind() (Entry, bool) {
	if len(c.entries) == 0 {
		return Entry{}, false
	}
	c.cursor = 0
	return c.entries[0], true
}

// Clear empties the cart and resets the cursor.
func (c *Cart) Clear() {
	c.entries = nil
	c.cursor = NoCursor
}

// Len reports the number of entries.
func (c *Cart) Len() int {
	return len(c.entries)
}

// Cursor reports the current review index, or NoCursor when empty.
func (c *Cart) Cursor() int {
	return c.cursor
}

// Entries returns a copy of the cart contents in insertion order.
func (c *Cart) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}
