package response

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// encodeFailure is sent when a payload cannot be marshalled
const encodeFailure = `{"error":{"code":"INTERNAL_ERROR","message":"Internal server error"}}` + "\n"

// JSON encodes data before touching the response, so a marshalling failure
// becomes a 500 instead of a truncated body under the intended status.
// Client state changes per request, so nothing is cacheable.
func JSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if data != nil {
		if err := json.NewEncoder(&buf).Encode(data); err != nil {
			status = http.StatusInternalServerError
			buf.Reset()
			buf.WriteString(encodeFailure)
		}
	}

	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNoContent)
}
