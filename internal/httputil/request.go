package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"contentadmin/internal/domain"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// ParseJSON decodes the request body into dest. An empty body leaves dest
// untouched; malformed JSON is a ValidationError.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.Validationf("Request body is too large.")
		}
		return domain.Validationf("Invalid JSON body.")
	}
	return nil
}
