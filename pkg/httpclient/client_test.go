package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserAgentHeader(t *testing.T) {
	t.Parallel()

	var capturedHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		capturedHeaders = r.Header
	}))
	defer srv.Close()

	client := NewHTTPClient()
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "something-else")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, UserAgent, capturedHeaders.Get("User-Agent"))
	assert.Equal(t, "something-else", req.Header.Get("User-Agent"), "original request must not be mutated")
}

func TestWithTimeout(t *testing.T) {
	t.Parallel()

	client := NewHTTPClient(WithTimeout(3 * time.Second))
	assert.Equal(t, 3*time.Second, client.Timeout)
}

func TestWithTransport(t *testing.T) {
	t.Parallel()

	called := false
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		called = true
		assert.Equal(t, UserAgent, req.Header.Get("User-Agent"))
		return &http.Response{StatusCode: http.StatusNoContent, Body: http.NoBody, Request: req}, nil
	})

	client := NewHTTPClient(WithTransport(rt))
	resp, err := client.Get("http://usage.invalid/")
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
