package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/straye-as/pipeline-api/internal/domain"
	"go.uber.org/zap"
)

// Headers set by the upstream gateway after it has authenticated the caller
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserName = "X-User-Name"
)

// Middleware resolves the acting user for each request
type Middleware struct {
	logger *zap.Logger
}

// NewMiddleware creates a new actor middleware
func NewMiddleware(logger *zap.Logger) *Middleware {
	return &Middleware{logger: logger}
}

// RequireActor rejects requests without a user id header and stores the actor in the context
func (m *Middleware) RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if userID == "" {
			m.logger.Debug("request rejected without actor",
				zap.String("path", r.URL.Path),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(domain.APIError{
				Type:   domain.ErrorTypeUnauthorized,
				Title:  "Unauthorized",
				Status: http.StatusUnauthorized,
				Detail: HeaderUserID + " header is required",
			})
			return
		}

		actor := domain.Actor{
			UserID:      userID,
			DisplayName: strings.TrimSpace(r.Header.Get(HeaderUserName)),
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}
