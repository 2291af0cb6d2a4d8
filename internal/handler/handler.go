package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"freshkart/internal/middleware"
	"freshkart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartSessionHeader identifies a guest cart.
const CartSessionHeader = "X-Cart-Session"

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps err to a status and the error envelope. Domain
// errors carry their own message; anything else is a 500 with the upstream
// message as details.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := statusForCode(domainErr.Code)
		if status >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("code", domainErr.Code).Msg("request failed")
		} else {
			logger.Debug().Err(err).Str("code", domainErr.Code).Int("status", status).Msg("request rejected")
		}
		writeJSON(w, status, ErrorResponse{Error: domainErr.Message})
		return
	}

	resp := ErrorResponse{Error: "internal server error", Details: err.Error()}
	var upstream *model.UpstreamError
	if errors.As(err, &upstream) {
		resp = ErrorResponse{Error: upstream.Op + " failed", Details: upstream.Err.Error()}
	}
	logger.Error().Err(err).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, resp)
}

func statusForCode(code string) int {
	switch code {
	case model.ErrCodeInvalidJSON,
		model.ErrCodeValidation,
		model.ErrCodeInvalidQuantity,
		model.ErrCodeInvalidDiscount,
		model.ErrCodeInvalidSignature:
		return http.StatusBadRequest
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeConflict, model.ErrCodeInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body")
	}
	return nil
}

// pathID parses the named path value as a UUID.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, model.NewValidationError("invalid " + name + " format")
	}
	return id, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewValidationError("invalid " + name + " parameter")
	}
	return v, nil
}

// paging reads limit and offset. Clamping is left to the services.
func paging(r *http.Request) (limit, offset int, err error) {
	if limit, err = queryInt(r, "limit", 0); err != nil {
		return 0, 0, err
	}
	if offset, err = queryInt(r, "offset", 0); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

// currentUser returns the session user or ErrUnauthorised.
func currentUser(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		return uuid.Nil, model.ErrUnauthorised
	}
	return id, nil
}
