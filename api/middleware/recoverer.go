package middleware

import (
	"fmt"
	"net/http"

	"github.com/korzewarrior/smartkart/api/responses"
	pkgerrors "github.com/korzewarrior/smartkart/pkg/errors"
	"github.com/korzewarrior/smartkart/pkg/logger"
)

// Recoverer converts a handler panic into a 500 envelope. Nothing in this
// process may die over one bad request; the interaction loop keeps running.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				err := fmt.Errorf("panic: %v", p)
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithField(ctx, "panic", p)
					logg.Error(ctx, "recovered handler panic", err)
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "internal error"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
