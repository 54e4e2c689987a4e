package httpx

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var v struct {
		Title string `json:"title"`
	}
	err := DecodeJSON(strings.NewReader(`{"title":"a","extra":1}`), &v)
	require.Error(t, err)
}

func TestDecodeJSONRejectsTrailingObject(t *testing.T) {
	var v struct {
		Title string `json:"title"`
	}
	err := DecodeJSON(strings.NewReader(`{"title":"a"}{"title":"b"}`), &v)
	require.Error(t, err)
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Title string `json:"title"`
	}
	require.NoError(t, DecodeJSON(strings.NewReader(`{"title":"Semen"}`), &v))
	assert.Equal(t, "Semen", v.Title)
}

func TestDecodeJSONEmptyAndOversized(t *testing.T) {
	var v map[string]string
	assert.ErrorIs(t, DecodeJSON(strings.NewReader(""), &v), ErrEmptyBody)

	big := `{"body":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	assert.ErrorIs(t, DecodeJSON(strings.NewReader(big), &v), ErrBodyTooLarge)
}

func TestParseLimitOffset(t *testing.T) {
	limit, offset, err := ParseLimitOffset(url.Values{}, 20, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(20), limit)
	assert.Equal(t, int64(0), offset)

	limit, offset, err = ParseLimitOffset(url.Values{"limit": {"500"}, "offset": {"40"}}, 20, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), limit)
	assert.Equal(t, int64(40), offset)

	_, _, err = ParseLimitOffset(url.Values{"limit": {"0"}}, 20, 100)
	assert.ErrorIs(t, err, ErrInvalidLimit)
	_, _, err = ParseLimitOffset(url.Values{"offset": {"-1"}}, 20, 100)
	assert.ErrorIs(t, err, ErrInvalidOffset)
	_, _, err = ParseLimitOffset(url.Values{"offset": {"x"}}, 20, 100)
	assert.ErrorIs(t, err, ErrInvalidOffset)
}

func TestParsePage(t *testing.T) {
	page, err := ParsePage(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 1, page)

	page, err = ParsePage(url.Values{"page": {"3"}})
	require.NoError(t, err)
	assert.Equal(t, 3, page)

	for _, raw := range []string{"0", "-2", "two"} {
		_, err = ParsePage(url.Values{"page": {raw}})
		assert.ErrorIs(t, err, ErrInvalidPage, raw)
	}
}
