package http

import (
	"log/slog"
	"net/http"
	"strings"

	"fintrack/internal/auth"
)

// requireAuth guards a handler behind bearer-token verification. A missing
// or malformed header is "Unauthorized access"; a token that fails
// verification is "Forbidden access". Both are 401s.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			UnauthorizedResponse("Unauthorized access").Write(w)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[1] == "" {
			UnauthorizedResponse("Unauthorized access").Write(w)
			return
		}

		identity, err := s.verifier.Verify(r.Context(), parts[1])
		if err != nil {
			slog.WarnContext(r.Context(), "Token verification failed", "error", err)
			UnauthorizedResponse("Forbidden access").Write(w)
			return
		}

		next(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	}
}
