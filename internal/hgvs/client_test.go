package hgvs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"normalized_description":"NM_003002.2:c.274G>T"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/normalize/", time.Second)
	assert.Equal(t, srv.URL+"/api/normalize", c.Endpoint())

	got, err := c.Normalize(context.Background(), " NM_003002.2:c.274G>T ")
	require.NoError(t, err)
	assert.Equal(t, "/api/normalize/NM_003002.2:c.274G>T", gotPath)
	assert.JSONEq(t, `{"normalized_description":"NM_003002.2:c.274G>T"}`, string(got))
}

func TestNormalize_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"custom":{"errors":[{"code":"ESYNTAXUC"}]}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Normalize(context.Background(), "garbage")
	var herr *HTTPError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, http.StatusUnprocessableEntity, herr.StatusCode)
	assert.Equal(t, `{"custom":{"errors":[{"code":"ESYNTAXUC"}]}}`, herr.Body)
	assert.Contains(t, err.Error(), "422")
}

func TestNormalize_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Normalize(context.Background(), "x")
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestNormalize_EmptyDescriptor(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Normalize(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyDescriptor)
	assert.False(t, called)
}

func TestNormalize_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(srv.URL, time.Second).Normalize(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", 0)
	assert.Equal(t, DefaultEndpoint, c.Endpoint())
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
}
