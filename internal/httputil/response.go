// Package httputil holds the JSON request and response helpers shared by
// handlers and middleware.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"contentadmin/internal/domain"
)

// RespondJSON writes data as JSON with the given status. The payload is
// marshaled before any header is sent, so an encoding failure still yields
// a clean 500.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		slog.Error("encode response", "error", err)
		RespondError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(payload)
}

// RespondError writes {"error": message} with the given status.
func RespondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// RespondErr maps err to a status through the domain taxonomy. Typed
// errors keep their message; anything else is logged and replaced with a
// generic one.
func RespondErr(w http.ResponseWriter, r *http.Request, err error) {
	var he domain.HTTPError
	if errors.As(err, &he) {
		RespondError(w, he.StatusCode(), he.Error())
		return
	}

	slog.Error("request failed",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"transient", errors.Is(err, domain.ErrTransientStore),
	)
	RespondError(w, http.StatusInternalServerError, "Internal server error.")
}
