package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes caps admin and inquiry payloads. Markdown bodies for insights
// are the largest legitimate input.
const MaxBodyBytes = 1 << 20

var (
	ErrInvalidPage   = errors.New("invalid page")
	ErrInvalidLimit  = errors.New("invalid limit")
	ErrInvalidOffset = errors.New("invalid offset")
	ErrEmptyBody     = errors.New("empty request body")
	ErrBodyTooLarge  = errors.New("request body too large")
)

// DecodeJSON decodes exactly one JSON object into v, rejecting unknown fields.
func DecodeJSON(body io.Reader, v interface{}) error {
	limited := &io.LimitedReader{R: body, N: MaxBodyBytes + 1}
	dec := json.NewDecoder(limited)
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	switch {
	case limited.N <= 0:
		return ErrBodyTooLarge
	case errors.Is(err, io.EOF):
		return ErrEmptyBody
	case err != nil:
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}

// ValidationDetails maps each failing json field to the rule it broke.
func ValidationDetails(errs validator.ValidationErrors) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}

// ParseLimitOffset reads "limit" and "offset". Limits above maxLimit are
// clamped rather than rejected.
func ParseLimitOffset(values url.Values, defaultLimit, maxLimit int64) (int64, int64, error) {
	limit, err := queryInt(values, "limit", defaultLimit, 1)
	if err != nil {
		return 0, 0, ErrInvalidLimit
	}
	offset, err := queryInt(values, "offset", 0, 0)
	if err != nil {
		return 0, 0, ErrInvalidOffset
	}
	return min(limit, maxLimit), offset, nil
}

// ParsePage reads a 1-based "page" query value. A missing value means page 1.
func ParsePage(values url.Values) (int, error) {
	page, err := queryInt(values, "page", 1, 1)
	if err != nil {
		return 0, ErrInvalidPage
	}
	return int(page), nil
}

func queryInt(values url.Values, key string, fallback, floor int64) (int64, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n < floor {
		return 0, fmt.Errorf("%s below %d", key, floor)
	}
	return n, nil
}
