package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func fieldError(field, message string) error {
	return &domain.ValidationError{Fields: []domain.FieldError{{Field: field, Message: message}}}
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fieldError(field, field+" must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func queryDate(r *http.Request, key string) (*time.Time, error) {
	v := r.URL.Query().Get(key)
	return parseOptionalDate(key, &v)
}

func queryID(r *http.Request, key string) (*int64, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil, fieldError(key, key+" must be a positive integer")
	}
	return &id, nil
}

// queryBool treats a missing or unparsable value as false.
func queryBool(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}
