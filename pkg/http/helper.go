package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	apperrors "stallmap/pkg/errors"
)

// ExtractInt64Param reads a positive integer path parameter.
func ExtractInt64Param(ps httprouter.Params, name string) (int64, error) {
	s := ps.ByName(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, apperrors.InvalidInput("invalid " + name + " parameter: " + s)
	}
	return v, nil
}

// ExtractQueryOption reads a query parameter restricted to allowed values,
// falling back to def when it is absent.
func ExtractQueryOption(r *http.Request, name, def string, allowed ...string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(name)))
	if s == "" {
		return def, nil
	}
	for _, a := range allowed {
		if s == a {
			return s, nil
		}
	}
	return "", apperrors.InvalidInput("invalid " + name + " parameter: " + s)
}
