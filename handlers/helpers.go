// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/danielhkuo/dcon-scoreboard/middleware"
	"github.com/danielhkuo/dcon-scoreboard/models"
	"github.com/danielhkuo/dcon-scoreboard/store"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return models.IsSlug(fl.Field().String())
	})

	return v
}

// decodeRequest parses the JSON body into dst and validates it. On failure
// it writes the 400 response and returns false.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := middleware.ParseJSONBody(r, dst); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		writeValidationError(w, err)
		return false
	}
	return true
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		middleware.ValidationErrorResponse(w, validationFields(verrs))
		return
	}
	middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request")
}

// validationFields flattens validator errors into {json path: rule}.
// Nested paths keep their index, e.g. "sub_events[0].title".
func validationFields(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fe.Namespace()
		if _, rest, ok := strings.Cut(key, "."); ok {
			key = rest
		}
		fields[key] = fe.Tag()
	}
	return fields
}

// pathID parses a positive integer path value.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// queryInt parses an optional positive integer query parameter. A missing
// parameter yields nil.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (*int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		middleware.ValidationErrorResponse(w, map[string]string{name: "gt"})
		return nil, false
	}
	return &n, true
}

// writeStoreError maps a store error onto the HTTP error taxonomy.
// entity names the resource in 404 and 409 messages.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, entity string) {
	var fe *store.FieldError
	switch {
	case errors.As(err, &fe):
		middleware.ValidationErrorResponse(w, map[string]string{fe.Field: fe.Msg})
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, store.ErrConflict):
		middleware.ErrorResponse(w, http.StatusConflict, entity+" already exists")
	case errors.Is(err, store.ErrInvalid), errors.Is(err, store.ErrInvalidReference):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid "+strings.ToLower(entity))
	default:
		middleware.InternalError(w, r, "Failed to process "+strings.ToLower(entity), err)
	}
}
