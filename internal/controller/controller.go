package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/korzewarrior/smartkart/internal/cart"
	"github.com/korzewarrior/smartkart/internal/product"
	"github.com/korzewarrior/smartkart/internal/scan"
	"github.com/korzewarrior/smartkart/internal/speech"
	"github.com/korzewarrior/smartkart/pkg/logger"
	"github.com/korzewarrior/smartkart/pkg/metrics"
)

// Resolver turns a barcode into a product record. May block for a network
// round trip, so the controller runs it off the event path.
type Resolver interface {
	Resolve(ctx context.Context, barcode string) product.Record
}

// Enqueuer accepts utterances without blocking on playback.
type Enqueuer interface {
	Enqueue(u speech.Utterance)
}

// CacheResetter clears the product cache and its persistence layer.
type CacheResetter interface {
	Reset(ctx context.Context) error
}

// Controller is the interaction state machine: it consumes decoded barcodes
// and button events, drives mode transitions, and issues lookup, speech and
// cart commands. All state lives behind one mutex so the transition table can
// be reasoned about sequentially even though the camera loop and HTTP
// handlers call in from different goroutines.
type Controller struct {
	mu          sync.Mutex
	mode        Mode
	cart        *cart.Cart
	lastScanned *product.Record
	lookingUp   bool
	lookupSeq   uint64
	activity    *activityLog

	debouncer *scan.Debouncer
	resolver  Resolver
	speech    Enqueuer
	cache     CacheResetter
	logg      *logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
	dispatch  func(fn func())
}

// Params wires the controller's collaborators.
type Params struct {
	Debouncer *scan.Debouncer
	Resolver  Resolver
	Speech    Enqueuer
	Cache     CacheResetter
	Logger    *logger.Logger
	Metrics   *metrics.Metrics
	Now       func() time.Time
}

func New(p Params) (*Controller, error) {
	if p.Debouncer == nil {
		return nil, fmt.Errorf("debouncer required")
	}
	if p.Resolver == nil {
		return nil, fmt.Errorf("resolver required")
	}
	if p.Speech == nil {
		return nil, fmt.Errorf("speech queue required")
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		mode:      ModeScanning,
		cart:      cart.New(),
		activity:  newActivityLog(20),
		debouncer: p.Debouncer,
		resolver:  p.Resolver,
		speech:    p.Speech,
		cache:     p.Cache,
		logg:      p.Logger,
		metrics:   p.Metrics,
		now:       now,
		dispatch:  func(fn func()) { go fn() },
	}, nil
}

// OnBarcodeDetected handles one decoded barcode from one frame. Detections
// are dropped entirely outside SCANNING so new scans never interrupt item
// review, and while a lookup is outstanding so the event path stays
// responsive with a single resolution in flight.
func (c *Controller) OnBarcodeDetected(ctx context.Context, code string) {
	c.mu.Lock()
	if c.mode != ModeScanning || c.lookingUp {
		c.mu.Unlock()
		return
	}
	if !c.debouncer.ShouldAccept(code, c.now()) {
		c.mu.Unlock()
		c.metrics.IncScanDebounced()
		return
	}
	c.lookupSeq++
	seq := c.lookupSeq
	c.lookingUp = true
	c.mu.Unlock()

	c.metrics.IncScanAccepted()
	if c.logg != nil {
		c.logg.Info(c.logg.WithBarcode(ctx, code), "barcode accepted, resolving")
	}

	// The lookup outlives the frame that triggered it; a stale result is
	// still valid to cache.
	lookupCtx := context.WithoutCancel(ctx)
	c.dispatch(func() {
		record := c.resolver.Resolve(lookupCtx, code)
		c.applyLookup(lookupCtx, seq, record)
	})
}

func (c *Controller) applyLookup(ctx context.Context, seq uint64, record product.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// The user acted (mode toggle, reset) while the lookup was in flight; the
	// cache write already happened, only the interaction is discarded.
	if seq != c.lookupSeq {
		if c.logg != nil {
			c.logg.Debug(c.logg.WithBarcode(ctx, record.Barcode), "stale lookup result discarded")
		}
		return
	}
	c.lookingUp = false

	c.lastScanned = &record
	c.mode = ModeItemScanned

	if record.Found() {
		c.say(fmt.Sprintf("Found %s by %s", record.Name, record.Brand))
		if len(record.Allergens) > 0 {
			c.say("Warning: contains " + strings.Join(record.Allergens, ", "))
		}
		c.activity.add("Found: " + record.Name)
	} else {
		c.say("Product not found")
		c.activity.add("Product not found: " + record.Barcode)
	}
}

// OnButtonPress applies the transition table for the current mode. Button
// events not matched by the current state's guards are silent no-ops.
func (c *Controller) OnButtonPress(ctx context.Context, button Button, longPress bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.mode {
	case ModeScanning:
		if button == ButtonModeToggle {
			c.enterCartReview()
			return
		}
	case ModeItemScanned:
		c.handleItemScannedButton(button)
		return
	case ModeCartReview:
		c.handleCartReviewButton(button, longPress)
		return
	}

	if c.logg != nil {
		entry := c.logg.WithMode(ctx, c.mode.String())
		c.logg.Debug(c.logg.WithField(entry, "button", string(button)), "button ignored in current mode")
	}
}

func (c *Controller) handleItemScannedButton(button Button) {
	switch button {
	case ButtonSelectConfirm:
		if c.lastScanned == nil || !c.lastScanned.Found() {
			c.say("Cannot add unknown product")
			return
		}
		entry := c.cart.Add(*c.lastScanned)
		c.say(fmt.Sprintf("Added %s to cart", entry.Product.Name))
		c.activity.add("Added to cart: " + entry.Product.Name)
		c.mode = ModeScanning
	case ButtonInfoAllergens:
		if c.lastScanned == nil || len(c.lastScanned.Allergens) == 0 {
			c.say("No known allergens")
			return
		}
		c.say("Contains " + strings.Join(c.lastScanned.Allergens, ", "))
	case ButtonBackCancelDelete:
		c.say("Scan cancelled")
		c.mode = ModeScanning
	case ButtonModeToggle:
		c.enterCartReview()
	}
}

func (c *Controller) handleCartReviewButton(button Button, longPress bool) {
	switch button {
	case ButtonSelectConfirm:
		entry, ok := c.cart.Current()
		if !ok {
			return
		}
		if len(entry.Product.Ingredients) == 0 {
			c.say("Ingredients not available")
			return
		}
		c.say(strings.Join(entry.Product.Ingredients, ", "))
	case ButtonInfoAllergens:
		// Acts as "dial next" so a four-button build can still navigate.
		if entry, ok := c.cart.Next(); ok {
			c.announceCartEntry(entry)
		}
	case ButtonBackCancelDelete:
		removed, ok := c.cart.RemoveCurrent()
		if !ok {
			return
		}
		c.say("Removed " + removed.Product.Name)
		c.activity.add("Removed from cart: " + removed.Product.Name)
	case ButtonHelpClear:
		if !longPress {
			return
		}
		c.cart.Clear()
		c.say("Cart cleared")
		c.activity.add("Cart cleared")
	case ButtonModeToggle:
		c.mode = ModeScanning
		c.sayInterrupting("Exiting cart view")
	}
}

// OnDialChange navigates the cart during review. A no-op in any other mode or
// on an empty cart.
func (c *Controller) OnDialChange(ctx context.Context, direction DialDirection) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeCartReview {
		return
	}

	var entry cart.Entry
	var ok bool
	switch direction {
	case DialNext:
		entry, ok = c.cart.Next()
	case DialPrevious:
		entry, ok = c.cart.Previous()
	}
	if ok {
		c.announceCartEntry(entry)
	}
}

// enterCartReview announces the transition and the first item. Called with
// the lock held.
func (c *Controller) enterCartReview() {
	c.invalidatePendingLookup()
	c.mode = ModeCartReview
	c.sayInterrupting("Entering cart view")
	if entry, ok := c.cart.Rewind(); ok {
		c.announceCartEntry(entry)
	} else {
		c.say("Cart is empty")
	}
}

// Reset voluntarily clears the cart and the product cache; the only way to
// lose session state.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cart.Clear()
	c.lastScanned = nil
	c.mode = ModeScanning
	c.invalidatePendingLookup()
	c.activity.add("Cart and scan history cleared")
	c.sayInterrupting("SmartKart reset")

	if c.cache == nil {
		return nil
	}
	return c.cache.Reset(ctx)
}

// Snapshot returns a consistent copy of the interaction state for polling.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Mode:       c.mode.String(),
		LookingUp:  c.lookingUp,
		CartSize:   c.cart.Len(),
		CartCursor: c.cart.Cursor(),
		Activity:   c.activity.list(),
	}
	if c.lastScanned != nil {
		record := *c.lastScanned
		snap.LastScanned = &record
	}
	if entry, ok := c.cart.Current(); ok {
		snap.CartCurrent = &entry
	}
	return snap
}

// CartEntries returns the cart contents in insertion order.
func (c *Controller) CartEntries() []cart.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart.Entries()
}

// invalidatePendingLookup discards any in-flight lookup result so it cannot
// land after the user has moved on. The cache write inside the resolver still
// proceeds. Called with the lock held.
func (c *Controller) invalidatePendingLookup() {
	c.lookupSeq++
	c.lookingUp = false
}

func (c *Controller) announceCartEntry(entry cart.Entry) {
	c.say(fmt.Sprintf("Item %d: %s", c.cart.Cursor()+1, entry.Product.Name))
}

func (c *Controller) say(text string) {
	c.speech.Enqueue(speech.Utterance{Text: text})
}

func (c *Controller) sayInterrupting(text string) {
	c.speech.Enqueue(speech.Utterance{Text: text, Interrupt: true})
}
