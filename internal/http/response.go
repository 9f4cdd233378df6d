// Package http provides the JSON HTTP surface: route wiring, auth guard,
// and the response envelope shared by every endpoint.
package http

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform JSON response body. StatusCode is only populated
// by the update endpoint, which reports 201 inside a 200 response.
type Envelope struct {
	StatusCode int    `json:"statusCode,omitempty"`
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
}

// JSONResponseBuilder provides a fluent API for envelope responses.
type JSONResponseBuilder struct {
	status   int
	envelope Envelope
}

// NewJSONResponse creates a builder with a 200 status and success=true.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		status:   http.StatusOK,
		envelope: Envelope{Success: true},
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.status = code
	return b
}

// Success sets the envelope success flag.
func (b *JSONResponseBuilder) Success(ok bool) *JSONResponseBuilder {
	b.envelope.Success = ok
	return b
}

// Message sets the envelope message.
func (b *JSONResponseBuilder) Message(msg string) *JSONResponseBuilder {
	b.envelope.Message = msg
	return b
}

// Data sets the envelope payload.
func (b *JSONResponseBuilder) Data(data any) *JSONResponseBuilder {
	b.envelope.Data = data
	return b
}

// Error sets the envelope error detail.
func (b *JSONResponseBuilder) Error(detail string) *JSONResponseBuilder {
	b.envelope.Error = detail
	return b
}

// BodyStatusCode sets the statusCode field inside the envelope body,
// independent of the HTTP status line.
func (b *JSONResponseBuilder) BodyStatusCode(code int) *JSONResponseBuilder {
	b.envelope.StatusCode = code
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.status)
	_ = json.NewEncoder(w).Encode(b.envelope)
}

// UnauthorizedResponse creates a 401 envelope.
func UnauthorizedResponse(message string) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(http.StatusUnauthorized).
		Success(false).
		Message(message)
}

// NotFoundResponse creates a 404 envelope.
func NotFoundResponse(message string) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(http.StatusNotFound).
		Success(false).
		Message(message)
}

// BadRequestResponse creates a 400 envelope.
func BadRequestResponse(message string) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(http.StatusBadRequest).
		Success(false).
		Message(message)
}

// InternalErrorResponse creates a 500 envelope.
func InternalErrorResponse(message string, err error) *JSONResponseBuilder {
	b := NewJSONResponse().
		Status(http.StatusInternalServerError).
		Success(false).
		Message(message)
	if err != nil {
		b.Error(err.Error())
	}
	return b
}
