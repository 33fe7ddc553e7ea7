package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"taskzone/internal/common"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body into dst. Values of the wrong type are
// reported as validation errors on the offending field; anything else that
// cannot be decoded is a bad request.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return common.NewValidationError(common.BodyFieldError(typeErr.Field,
				"value has the wrong type, got "+typeErr.Value, "type_error"))
		}
		return fmt.Errorf("%w: %v", common.ErrInvalidRequestPayload, err)
	}
	return nil
}

// pathID parses the int64 URL parameter name.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, common.NewDetailedError(common.ErrBadRequest, fmt.Sprintf("Invalid %s %q", name, raw))
	}
	return id, nil
}

// queryInt parses an optional integer query parameter. A missing or empty
// parameter yields nil.
func queryInt(q url.Values, name string) (*int, *common.FieldError) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		fe := common.QueryFieldError(name, "value is not a valid integer", "type_error.integer")
		return nil, &fe
	}
	return &v, nil
}
