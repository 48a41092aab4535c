package controllers

import (
	"context"
	"net/http"

	"github.com/korzewarrior/smartkart/api/responses"
	"github.com/korzewarrior/smartkart/internal/cart"
	"github.com/korzewarrior/smartkart/internal/controller"
	pkgerrors "github.com/korzewarrior/smartkart/pkg/errors"
	"github.com/korzewarrior/smartkart/pkg/logger"
)

// Core is the interaction surface the HTTP layer drives. Every call returns
// promptly; effects are observed through the snapshot on the next poll.
type Core interface {
	OnBarcodeDetected(ctx context.Context, code string)
	OnButtonPress(ctx context.Context, button controller.Button, longPress bool)
	OnDialChange(ctx context.Context, direction controller.DialDirection)
	Snapshot() controller.Snapshot
	CartEntries() []cart.Entry
	Reset(ctx context.Context) error
}

// GetState serves the polled state snapshot.
func GetState(core Core, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if core == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "controller unavailable"))
			return
		}
		responses.WriteSuccess(w, core.Snapshot())
	}
}

// GetCart serves the cart contents in insertion order.
func GetCart(core Core, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if core == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "controller unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": core.CartEntries()})
	}
}
