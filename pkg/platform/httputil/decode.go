package httputil

import (
	"context"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
)

// Validator is implemented by request bodies that check their own fields.
type Validator interface {
	Validate() error
}

// DecodeAndPrepare decodes the body into T, trims its string fields and
// validates it. On failure it writes the error response and returns ok=false.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	if err := DecodeJSON(r, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "request_id", requestID, "error", err)
		WriteError(w, err)
		return nil, false
	}
	Sanitize(&req)
	if v, ok := any(&req).(Validator); ok {
		if err := v.Validate(); err != nil {
			logger.WarnContext(ctx, "request failed validation", "request_id", requestID, "error", err)
			WriteError(w, err)
			return nil, false
		}
	}
	return &req, true
}

// Sanitize trims whitespace from the string and []string fields of the struct
// v points to.
func Sanitize(v any) {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Pointer || val.IsNil() {
		return
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}
		switch field.Kind() {
		case reflect.String:
			field.SetString(strings.TrimSpace(field.String()))
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				for j := 0; j < field.Len(); j++ {
					elem := field.Index(j)
					elem.SetString(strings.TrimSpace(elem.String()))
				}
			}
		}
	}
}
