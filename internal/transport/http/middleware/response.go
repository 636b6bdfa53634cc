package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError writes the same error body the handlers produce.
func writeJSONError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"code":    code,
		"message": msg,
	})
}
