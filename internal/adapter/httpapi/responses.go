package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/skybrief/aviation-nlp/internal/briefing"
)

// envelope is the common response shape for data-bearing routes. The NOTAM
// parse and summarize routes return their own dedicated shapes instead.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}

func writeData(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}

// writeFetchError maps live-weather failures: a disabled backend is the
// service's own condition (503), anything else is an upstream failure (502).
func writeFetchError(w http.ResponseWriter, err error) {
	if errors.Is(err, briefing.ErrWeatherUnavailable) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeError(w, http.StatusBadGateway, err.Error())
}

// maxBodyBytes caps request bodies. The largest legitimate payloads are
// batch report lists, well under this.
const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into v, enforcing the size cap.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %v", err)
	}
	return nil
}
