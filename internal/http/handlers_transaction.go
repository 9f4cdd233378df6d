package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/auth"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.IdentityFromContext(r.Context())

	var payload services.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		BadRequestResponse("Invalid request body").Write(w)
		return
	}

	id, err := s.service.Create(r.Context(), owner, payload)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create transaction failed", "error", err)
		InternalErrorResponse("Failed to create transaction", err).Write(w)
		return
	}

	NewJSONResponse().
		Status(http.StatusCreated).
		Message("Transaction created successfully").
		Data(map[string]string{"id": id}).
		Write(w)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.IdentityFromContext(r.Context())
	txType := r.URL.Query().Get("type")

	txs, err := s.service.List(r.Context(), owner, txType)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err)
		InternalErrorResponse("Failed to retrieve transactions", err).Write(w)
		return
	}

	NewJSONResponse().
		Message("Transactions retrieved successfully").
		Data(txs).
		Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	tx, err := s.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundResponse("Transaction not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Get transaction failed", "id", id, "error", err)
		InternalErrorResponse("Failed to retrieve transaction", err).Write(w)
		return
	}

	NewJSONResponse().
		Message("Transaction retrieved successfully").
		Data(tx).
		Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var payload services.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		BadRequestResponse("Invalid request body").Write(w)
		return
	}

	tx, err := s.service.Update(r.Context(), id, payload)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundResponse("Transaction not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Update transaction failed", "id", id, "error", err)
		InternalErrorResponse("Failed to update transaction", err).Write(w)
		return
	}

	// The body reports 201 while the HTTP status stays 200.
	NewJSONResponse().
		BodyStatusCode(http.StatusCreated).
		Data(tx).
		Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.IdentityFromContext(r.Context())
	id := r.PathValue("id")

	err := s.service.Delete(r.Context(), owner, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		NotFoundResponse("Transaction not found").Write(w)
	case errors.Is(err, services.ErrForbidden):
		UnauthorizedResponse("You can't delete this transaction").Write(w)
	case err != nil:
		slog.ErrorContext(r.Context(), "Delete transaction failed", "id", id, "error", err)
		InternalErrorResponse("Failed to delete transaction", err).Write(w)
	default:
		// success:false on the happy path is kept for client compatibility.
		NewJSONResponse().
			Success(false).
			Message("Transaction deleted successfully").
			Write(w)
	}
}
