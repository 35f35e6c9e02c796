package fetcher

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urlharvest/pkg/errors"
)

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	client := New(5*time.Second, "test-agent", nil)
	resp, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "hello", string(resp.Body))
}

func TestFetchReturnsNonOKResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
	}))
	defer server.Close()

	client := New(5*time.Second, "", nil)
	resp, err := client.Fetch(context.Background(), server.URL)

	// A non-2xx response is not a transport error; the classifier decides.
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "missing", string(resp.Body))
}

func TestFetchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	client := New(2*time.Second, "", nil)
	_, err := client.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var typed *errors.Error
	require.True(t, stderrors.As(err, &typed))
	assert.Equal(t, errors.ErrorTypeTransport, typed.Type)
}

func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := New(50*time.Millisecond, "", nil)
	_, err := client.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var typed *errors.Error
	require.True(t, stderrors.As(err, &typed))
	assert.Equal(t, errors.ErrorTypeTransport, typed.Type)
}

func TestFetchInvalidURL(t *testing.T) {
	client := New(time.Second, "", nil)
	_, err := client.Fetch(context.Background(), "http://\x00bad")
	require.Error(t, err)
}
