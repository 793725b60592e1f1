package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rpggio/v2c/internal/apierror"
)

// envelope is a JSON response body. Every response carries "success".
type envelope map[string]any

// errBadJSON marks a request body that could not be decoded.
var errBadJSON = errors.New("invalid JSON body")

// decodeJSON reads a JSON request body into v. An empty body leaves v at its
// zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	body := r.Body
	if limit > 0 {
		body = http.MaxBytesReader(w, r.Body, limit)
	}
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}
	return nil
}

// writeOK writes a success envelope.
func writeOK(w http.ResponseWriter, payload envelope) {
	if payload == nil {
		payload = envelope{}
	}
	payload["success"] = true
	writeJSON(w, http.StatusOK, payload)
}

// writeFailure writes a failure envelope with apiErr's code and message.
// extra fields are merged in first so they cannot mask the error fields.
func writeFailure(w http.ResponseWriter, status int, apiErr *apierror.APIError, extra envelope) {
	payload := envelope{}
	for k, v := range extra {
		payload[k] = v
	}
	payload["success"] = false
	payload["error"] = apiErr.Message
	payload["code"] = apiErr.Code
	if apiErr.RecoveryHint != "" {
		payload["recovery_hint"] = apiErr.RecoveryHint
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps err and writes it. Domain failures are reported with
// status 200 and success=false; malformed input gets 400.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errBadJSON) {
		writeFailure(w, http.StatusBadRequest, apierror.InvalidInput(err.Error()), nil)
		return
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeFailure(w, http.StatusRequestEntityTooLarge,
			apierror.InvalidInput(fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)), nil)
		return
	}

	apiErr := apierror.Map(err)
	if apiErr.Code == apierror.CodeInternal {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "code", apiErr.Code)
	}
	writeFailure(w, http.StatusOK, apiErr, nil)
}
