package matching

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchHeader(t *testing.T) {
	t.Parallel()

	headers := http.Header{}
	headers.Set("Foo", "bar")
	headers.Add("X-Multi", "first")
	headers.Add("X-Multi", "second")

	tests := []struct {
		name     string
		header   string
		value    string
		expected bool
	}{
		{"exact", "Foo", "bar", true},
		{"lowercase name", "foo", "bar", true},
		{"wrong value", "foo", "baz", false},
		{"value is case sensitive", "foo", "BAR", false},
		{"missing", "X-Missing", "bar", false},
		{"first of repeated", "X-Multi", "first", true},
		{"second of repeated", "X-Multi", "second", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, MatchHeader(tt.header, tt.value, headers))
		})
	}
}

func TestMatchHeaders_Subset(t *testing.T) {
	t.Parallel()

	headers := http.Header{}
	headers.Set("Foo", "bar")
	headers.Set("Accept", "*/*")

	assert.True(t, MatchHeaders(nil, headers))
	assert.True(t, MatchHeaders(map[string]string{"foo": "bar"}, headers))
	assert.False(t, MatchHeaders(map[string]string{"foo": "bar", "x-id": "1"}, headers))
	assert.False(t, MatchHeaders(map[string]string{"foo": "bar"}, http.Header{}))
}

func TestMatch(t *testing.T) {
	t.Parallel()

	c := Criteria{Path: "/headers", Method: http.MethodGet, Headers: map[string]string{"foo": "bar"}}

	matching := httptest.NewRequest(http.MethodGet, "/headers?q=1", nil)
	matching.Header.Set("foo", "bar")
	matching.Header.Set("User-Agent", "test")
	assert.True(t, Match(c, matching))

	tests := []struct {
		name      string
		req       *http.Request
		setHeader bool
	}{
		{"wrong path", httptest.NewRequest(http.MethodGet, "/headers/", nil), true},
		{"prefix path", httptest.NewRequest(http.MethodGet, "/head", nil), true},
		{"wrong method", httptest.NewRequest(http.MethodPost, "/headers", nil), true},
		{"missing header", httptest.NewRequest(http.MethodGet, "/headers", nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.setHeader {
				tt.req.Header.Set("foo", "bar")
			}
			tt.req.Header.Set("Other", "x")
			assert.False(t, Match(c, tt.req))
		})
	}
}

func TestMatch_EscapedPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expected string
		target   string
		want     bool
	}{
		{"encoded space", "/a%20b", "/a%20b", true},
		{"decoded form does not match", "/a b", "/a%20b", false},
		{"encoded letter kept as sent", "/%41", "/%41", true},
		{"encoded letter is not its decoding", "/A", "/%41", false},
		{"plain path", "/plain", "/plain", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.want, Match(Criteria{Path: tt.expected, Method: http.MethodGet}, req))
		})
	}
}

func TestMatchMethod_CaseSensitive(t *testing.T) {
	t.Parallel()

	assert.True(t, MatchMethod("GET", "GET"))
	assert.False(t, MatchMethod("GET", "get"))
}
