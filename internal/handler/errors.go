package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kanchai/trip-budget/internal/domain"
)

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON serializes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a sentinel error from the domain to its HTTP status and
// error code. Unrecognized errors become an opaque 500; the real cause is
// logged, not leaked to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	var code string
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrForbidden):
		status, code = http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrDuplicateAssignment):
		status, code = http.StatusConflict, "duplicate_assignment"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidRouteInput),
		errors.Is(err, domain.ErrOriginUnavailable):
		status, code = http.StatusUnprocessableEntity, "validation_error"
	case errors.Is(err, domain.ErrRouteUnavailable):
		status, code = http.StatusBadGateway, "route_unavailable"
	case errors.Is(err, domain.ErrPersistenceFailure):
		status, code = http.StatusBadGateway, "persistence_failure"
	default:
		s.log.ErrorContext(r.Context(), "unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: errorDetail{Code: "internal_error", Message: "internal server error"},
		})
		return
	}
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: unwrapMessage(err)}})
}

// requestError writes a 422 for a request rejected before reaching any
// service (e.g. missing or malformed body, bad path parameter).
func requestError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Error: errorDetail{Code: "validation_error", Message: message},
	})
}

// unauthorized writes a 401 for a request missing auth context.
// Normally unreachable behind the auth middleware.
func unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, errorResponse{
		Error: errorDetail{Code: "unauthorized", Message: "authentication required"},
	})
}

// unwrapMessage strips the "pkg.Type.Method: " call-site prefixes that error
// wrapping accumulates, leaving the human-readable part for the client.
// e.g. "selection.Session.Assign: location 3 already on day 2: duplicate assignment"
// becomes "location 3 already on day 2: duplicate assignment".
func unwrapMessage(err error) string {
	msg := err.Error()
	for {
		i := strings.Index(msg, ": ")
		if i < 0 {
			return msg
		}
		head := msg[:i]
		if strings.Contains(head, ".") && !strings.Contains(head, " ") {
			msg = msg[i+2:]
			continue
		}
		return msg
	}
}
