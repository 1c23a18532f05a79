package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/services"
)

const (
	statusSuccess    = "success"
	statusError      = "error"
	statusRequireOTP = "require_otp"

	maxBodyBytes = 1 << 20
)

// ErrorResponse is the transport-level error payload used by the
// authorization gates and unexpected failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the business-level result payload. Failures are
// reported through Status with HTTP 200.
type StatusResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	Username string `json:"username,omitempty"`
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*f = 0
		return nil
	}
	raw = strings.TrimSpace(strings.Trim(raw, `"`))
	if raw == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid number %q", raw)
	}
	*f = flexInt(n)
	return nil
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func writeSuccess(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: statusSuccess, Message: message})
}

func writeFailure(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: statusError, Message: message})
}

// writeServiceError reports business-rule failures as a 200 error status
// and anything else as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrVerificationRequired) {
		writeJSON(w, http.StatusOK, StatusResponse{Status: statusRequireOTP, Message: err.Error()})
		return
	}
	if svcErr, ok := services.AsError(err); ok {
		if svcErr.Err != nil {
			log.Printf("%s %s: %v", r.Method, r.URL.Path, svcErr)
		}
		writeFailure(w, svcErr.Message)
		return
	}
	log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

// decodeJSON reads a request body into dst. On failure it writes a 400
// and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}

// Healthz reports process liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
