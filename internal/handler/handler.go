package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"prolens/internal/auth"
	"prolens/internal/middleware"
	"prolens/internal/model"
	"prolens/internal/report"
	"prolens/internal/validate"

	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// envelope is the success body: {"success": true, ...payload}.
type envelope map[string]any

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

func writeSuccess(w http.ResponseWriter, status int, payload envelope) {
	payload["success"] = true
	writeJSON(w, status, payload)
}

// writeError maps err to a status code. Domain errors keep their message; anything else
// is logged with the correlation id and answered generically.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	correlationID := middleware.CorrelationID(r.Context())

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := statusFor(domainErr.Code)
		logger.Debug().
			Str("code", domainErr.Code).
			Int("status", status).
			Str("correlation_id", correlationID).
			Msg(domainErr.Message)
		writeJSON(w, status, model.ErrorResponse{
			Success:       false,
			Error:         domainErr.Code,
			Message:       domainErr.Message,
			CorrelationID: correlationID,
		})
		return
	}

	logger.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("correlation_id", correlationID).
		Msg("handler error")
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Success:       false,
		Error:         model.ErrCodeInternalError,
		Message:       "Internal server error",
		CorrelationID: correlationID,
	})
}

func statusFor(code string) int {
	switch code {
	case model.ErrCodeInvalidJSON,
		model.ErrCodeValidationFailed,
		model.ErrCodeInvalidStatus,
		model.ErrCodeInvalidQuantity,
		model.ErrCodeInvalidRating,
		model.ErrCodeEmptyCart,
		model.ErrCodeInsufficientStock,
		model.ErrCodeProductMissing:
		return http.StatusBadRequest
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeProductNotFound,
		model.ErrCodeOrderNotFound,
		model.ErrCodeReviewNotFound,
		model.ErrCodeCartLineNotFound,
		model.ErrCodeShippingNotFound:
		return http.StatusNotFound
	case model.ErrCodeReviewExists,
		model.ErrCodeProductExists,
		model.ErrCodeInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into dst and validates it.
func decode(w http.ResponseWriter, r *http.Request, v *validate.Validator, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return model.ErrInvalidJSON
	}
	return v.Struct(dst)
}

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	return parseID(r.PathValue(name), name)
}

// queryID parses a positive integer query parameter.
func queryID(r *http.Request, name string) (int64, error) {
	return parseID(r.URL.Query().Get(name), name)
}

func parseID(raw, name string) (int64, error) {
	if raw == "" {
		return 0, model.NewValidationError(name + " is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewValidationError(name + " must be a positive integer")
	}
	return id, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewValidationError(fmt.Sprintf("invalid %s parameter", name))
	}
	return n, nil
}

// caller returns the identity stored by the auth middleware.
func caller(r *http.Request) (model.Identity, error) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		return model.Identity{}, model.ErrUnauthorised
	}
	return identity, nil
}

// writeWorkbook renders into memory first so a failure can still be reported as JSON.
func writeWorkbook(w http.ResponseWriter, r *http.Request, filename string, render func(io.Writer) error, logger zerolog.Logger) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		writeError(w, r, err, logger)
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
