package usage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// MockHTTPClient captures HTTP requests for testing
type MockHTTPClient struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   [][]byte
	status   int
	err      error
}

// NewMockHTTPClient creates a new mock HTTP client with a default success response
func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{status: http.StatusOK}
}

// FailWith makes every request fail with err before reaching a server.
func (m *MockHTTPClient) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if req.Body != nil {
		body, _ := io.ReadAll(req.Body)
		m.bodies = append(m.bodies, body)
	} else {
		m.bodies = append(m.bodies, nil)
	}

	if m.err != nil {
		return nil, m.err
	}
	return &http.Response{
		StatusCode: m.status,
		Body:       io.NopCloser(bytes.NewReader([]byte(`{"success": true}`))),
		Header:     make(http.Header),
	}, nil
}

// GetRequests returns all captured requests
func (m *MockHTTPClient) GetRequests() []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*http.Request{}, m.requests...)
}

// GetBodies returns all captured request bodies
func (m *MockHTTPClient) GetBodies() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte{}, m.bodies...)
}

// GetRequestCount returns the number of HTTP requests made
func (m *MockHTTPClient) GetRequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// fixedRand always returns the same value.
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

var errNetwork = errors.New("connection refused")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// newTestClient returns an enabled client delivering to mock.
func newTestClient(t *testing.T, mock *MockHTTPClient, opts ...Option) *Client {
	t.Helper()

	base := []Option{
		WithEnabled(true),
		WithLogger(testLogger()),
		WithHTTPClient(mock),
		WithEndpoint("https://usage.test/"),
		WithConfigDir(t.TempDir()),
	}
	c := New(append(base, opts...)...)
	t.Cleanup(func() {
		_ = c.Close(context.Background())
	})
	return c
}

func flush(t *testing.T, c *Client) {
	t.Helper()
	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Flush(ctx))
}
