package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const IdentifierKey contextKey = "resource_id"

// IdentifierMiddleware rejects requests whose {param} URL segment is not a valid
// identifier, so malformed ids never reach the store
func IdentifierMiddleware(param string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := ParseIdentifier(chi.URLParam(r, param))
			if err != nil {
				logger.Debug("Invalid identifier", zap.String("path", r.URL.Path))
				RespondWithValidationErrors(w, FormatValidationErrors(err))
				return
			}

			ctx := context.WithValue(r.Context(), IdentifierKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentifier extracts the identifier stored by IdentifierMiddleware
func GetIdentifier(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(IdentifierKey).(uuid.UUID)
	return id, ok
}
