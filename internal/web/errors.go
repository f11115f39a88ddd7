package web

// errors.go maps core errors to HTTP responses. Technical details are
// logged server-side with the request id; clients get a stable JSON shape
// with a machine-readable code.

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carbase/dealership/internal/core"
	"github.com/carbase/dealership/internal/importer"
	"github.com/carbase/dealership/internal/logging"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusAndCode classifies an error into an HTTP status and a stable code.
func statusAndCode(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrCarNotFound):
		return http.StatusNotFound, "car_not_found"
	case errors.Is(err, core.ErrBuyerNotFound):
		return http.StatusNotFound, "buyer_not_found"
	case errors.Is(err, core.ErrDuplicateVIN):
		return http.StatusBadRequest, "duplicate_vin"
	case errors.Is(err, core.ErrAlreadySold):
		return http.StatusBadRequest, "already_sold"
	case errors.Is(err, core.ErrLocationMismatch):
		return http.StatusBadRequest, "location_mismatch"
	case errors.Is(err, importer.ErrUnknownFileKind):
		return http.StatusBadRequest, "unknown_file_kind"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// respondError writes the JSON error for err, deriving status and code
// from the core error taxonomy.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusAndCode(err)
	s.writeError(w, r, err, status, code)
}

// respondBadRequest reports a malformed or invalid request body.
func (s *Server) respondBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	s.writeError(w, r, err, http.StatusBadRequest, "bad_request")
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, status int, code string) {
	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", code,
		"error", err.Error(),
	)

	// Internal details stay in the log for 5xx responses.
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: msg, Code: code})
}
