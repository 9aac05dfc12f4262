package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><head><title>dbt Fundamentals</title></head><body></body></html>"))
	}))
	defer srv.Close()

	result, err := URL(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, result.HTML, "dbt Fundamentals")
	assert.Contains(t, result.ContentType, "text/html")
}

func TestURLNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	result, err := URL(context.Background(), srv.URL+"/gone", nil)
	var fe *Error
	require.True(t, errors.As(err, &fe))
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
}

func TestURLInvalid(t *testing.T) {
	for _, bad := range []string{"", "not-a-url", "/relative/path"} {
		_, err := URL(context.Background(), bad, nil)
		var fe *Error
		require.True(t, errors.As(err, &fe), "expected fetch error for %q", bad)
	}
}

func TestPageTitle(t *testing.T) {
	cases := []struct {
		name string
		html string
		want string
	}{
		{"title tag", "<html><head><title> dbt Fundamentals </title></head></html>", "dbt Fundamentals"},
		{"h1 fallback", "<html><body><h1>Airflow Guide</h1></body></html>", "Airflow Guide"},
		{"title wins over h1", "<html><head><title>T</title></head><body><h1>H</h1></body></html>", "T"},
		{"nothing", "<html><body><p>no headings</p></body></html>", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PageTitle(tc.html))
		})
	}
}
