/*
Package req provides helpers for HTTP request parsing and data binding.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"channelchat/internal/pkg/errs"
)

// MaxJSONBodySize caps request bodies accepted by BindJSON.
const MaxJSONBodySize int64 = 1 << 20

// BindJSON decodes the JSON request body into dst, rejecting unknown fields and trailing data.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}

// PathInt64 parses the named chi URL parameter as a positive int64.
func PathInt64(r *http.Request, name string) (int64, *errs.CustomError) {
	return parsePositive(chi.URLParam(r, name))
}

// QueryInt64 parses the named query parameter as a positive int64.
func QueryInt64(r *http.Request, name string) (int64, *errs.CustomError) {
	return parsePositive(r.URL.Query().Get(name))
}

// QueryIntDefault parses the named query parameter as an int bounded to [min, max],
// returning def when the parameter is absent.
func QueryIntDefault(r *http.Request, name string, def, min, max int) (int, *errs.CustomError) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return 0, errs.NewError(errs.ErrInvalidParams)
	}
	return v, nil
}

func parsePositive(raw string) (int64, *errs.CustomError) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, errs.NewError(errs.ErrInvalidParams)
	}
	return v, nil
}
