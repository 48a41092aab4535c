package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/korzewarrior/smartkart/api/responses"
	"github.com/korzewarrior/smartkart/api/validators"
	"github.com/korzewarrior/smartkart/internal/controller"
	pkgerrors "github.com/korzewarrior/smartkart/pkg/errors"
	"github.com/korzewarrior/smartkart/pkg/logger"
)

type scanRequest struct {
	Barcode string `json:"barcode" validate:"required,numeric,min=4,max=20"`
}

// PostScan injects a decoded barcode, the entry point for the web decoder.
func PostScan(core Core, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if core == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "controller unavailable"))
			return
		}

		var payload scanRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		core.OnBarcodeDetected(r.Context(), payload.Barcode)
		responses.WriteSuccessStatus(w, http.StatusAccepted, core.Snapshot())
	}
}

type buttonRequest struct {
	LongPress bool `json:"long_press"`
}

// PostButton applies one button press to the state machine.
func PostButton(core Core, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if core == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "controller unavailable"))
			return
		}

		button, err := controller.ParseButton(chi.URLParam(r, "button"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid button"))
			return
		}

		var payload buttonRequest
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		core.OnButtonPress(r.Context(), button, payload.LongPress)
		responses.WriteSuccess(w, core.Snapshot())
	}
}

// PostDial applies one dial step to the state machine.
func PostDial(core Core, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if core == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "controller unavailable"))
			return
		}

		direction, err := controller.ParseDialDirection(chi.URLParam(r, "direction"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid dial direction"))
			return
		}

		core.OnDialChange(r.Context(), direction)
		responses.WriteSuccess(w, core.Snapshot())
	}
}

// PostReset clears the cart and the product cache.
func PostReset(core Core, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if core == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "controller unavailable"))
			return
		}

		if err := core.Reset(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reset failed"))
			return
		}
		responses.WriteSuccess(w, core.Snapshot())
	}
}
