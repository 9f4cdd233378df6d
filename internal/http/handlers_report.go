package http

import (
	"log/slog"
	"net/http"

	"fintrack/internal/auth"
)

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.IdentityFromContext(r.Context())

	report, err := s.service.Report(r.Context(), owner)
	if err != nil {
		slog.ErrorContext(r.Context(), "Reports aggregation failed", "error", err)
		InternalErrorResponse("Failed to retrieve reports data", err).Write(w)
		return
	}

	NewJSONResponse().
		Message("Reports data retrieved successfully").
		Data(report).
		Write(w)
}
