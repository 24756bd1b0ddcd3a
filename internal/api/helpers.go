package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/danielvr/adaptengine/internal/errors"
	"github.com/danielvr/adaptengine/internal/logger"
)

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// decodeJSON parses the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.NewBadRequestError("invalid request body: " + err.Error())
	}
	return nil
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed, and clamping to [1, max].
func queryInt(r *http.Request, name string, def, max int) int {
	v := def
	if raw := r.URL.Query().Get(name); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			v = parsed
		}
	}
	if v < 1 {
		v = 1
	}
	if v > max {
		v = max
	}
	return v
}
