package cart

import (
	"fmt"
	"testing"

	"github.com/korzewarrior/smartkart/internal/product"
)

func record(name string) product.Record {
	return product.Record{Barcode: name, Name: name, Brand: "Acme"}
}

func fill(c *Cart, names ...string) {
	for _, name := range names {
		c.Add(record(name))
	}
}

func TestAddMovesCursorToLast(t *testing.T) {
	c := New()
	fill(c, "a", "b", "c")

	if c.Cursor() != 2 {
		t.Fatalf("expected cursor at last entry, got %d", c.Cursor())
	}
	current, ok := c.Current()
	if !ok || current.Product.Name != "c" {
		t.Fatalf("expected current entry c, got %+v ok=%v", current, ok)
	}
}

func TestNextAndPreviousWrapAround(t *testing.T) {
	c := New()
	fill(c, "a", "b", "c")
	c.cursor = 0

	if entry, _ := c.Next(); entry.Product.Name != "b" {
		t.Fatalf("expected b, got %s", entry.Product.Name)
	}
	if entry, _ := c.Next(); entry.Product.Name != "c" {
		t.Fatalf("expected c, got %s", entry.Product.Name)
	}
	if entry, _ := c.Next(); entry.Product.Name != "a" {
		t.Fatalf("expected wraparound to a, got %s", entry.Product.Name)
	}
	if entry, _ := c.Previous(); entry.Product.Name != "c" {
		t.Fatalf("expected wraparound back to c, got %s", entry.Product.Name)
	}
}

func TestFullCycleReturnsToStart(t *testing.T) {
	c := New()
	fill(c, "a", "b", "c", "d")
	start := c.Cursor()

	for i := 0; i < c.Len(); i++ {
		c.Next()
	}
	if c.Cursor() != start {
		t.Fatalf("len(cart) calls of Next must compose to identity, got cursor %d", c.Cursor())
	}

	for i := 0; i < c.Len(); i++ {
		c.Previous()
	}
	if c.Cursor() != start {
		t.Fatalf("len(cart) calls of Previous must compose to identity, got cursor %d", c.Cursor())
	}
}

func TestRemoveCurrentClampsCursor(t *testing.T) {
	c := New()
	fill(c, "a", "b", "c")

	removed, ok := c.RemoveCurrent()
	if !ok || removed.Product.Name != "c" {
		t.Fatalf("expected c removed, got %+v ok=%v", removed, ok)
	}
	if c.Cursor() != 1 {
		t.Fatalf("expected cursor clamped to new last index, got %d", c.Cursor())
	}

	c.cursor = 0
	removed, _ = c.RemoveCurrent()
	if removed.Product.Name != "a" {
		t.Fatalf("expected a removed, got %s", removed.Product.Name)
	}
	if current, _ := c.Current(); current.Product.Name != "b" {
		t.Fatalf("expected cursor to stay on b, got %s", current.Product.Name)
	}
}

func TestRemoveLastEntryEmptiesCart(t *testing.T) {
	c := New()
	fill(c, "only")

	if _, ok := c.RemoveCurrent(); !ok {
		t.Fatal("expected removal to succeed")
	}
	if c.Len() != 0 || c.Cursor() != NoCursor {
		t.Fatalf("expected empty cart with sentinel cursor, len=%d cursor=%d", c.Len(), c.Cursor())
	}
	if _, ok := c.Next(); ok {
		t.Fatal("Next on empty cart must be a no-op")
	}
	if _, ok := c.Previous(); ok {
		t.Fatal("Previous on empty cart must be a no-op")
	}
	if _, ok := c.RemoveCurrent(); ok {
		t.Fatal("RemoveCurrent on empty cart must be a no-op")
	}
}

func TestClear(t *testing.T) {
	c := New()
	fill(c, "a", "b")
	c.Clear()

	if c.Len() != 0 || c.Cursor() != NoCursor {
		t.Fatalf("expected cleared cart, len=%d cursor=%d", c.Len(), c.Cursor())
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	c := New()
	fill(c, "a", "b")

	entries := c.Entries()
	entries[0].Product.Name = "mutated"

	if got, _ := c.Current(); got.Product.Name == "mutated" {
		t.Fatal("Entries must return a copy, not the backing slice")
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	c := New()
	names := []string{"a", "b", "c", "d", "e"}
	fill(c, names...)

	for i, entry := range c.Entries() {
		if entry.Product.Name != names[i] {
			t.Fatalf("expected %s at %d, got %s", names[i], i, entry.Product.Name)
		}
	}
	for i, entry := range c.Entries() {
		if entry.ID.String() == "" {
			t.Fatalf("entry %d missing id", i)
		}
	}
	if fmt.Sprint(c.Entries()[0].ID) == fmt.Sprint(c.Entries()[1].ID) {
		t.Fatal("entry ids must be unique")
	}
}
