// Package usagetest provides an in-process usage endpoint for tests.
package usagetest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/logicalclocks/hopsworks-usage/pkg/concurrent"
	"github.com/logicalclocks/hopsworks-usage/pkg/usage"
)

// Request is one request received by a Sink.
type Request struct {
	Method      string
	ContentType string
	Body        []byte
	Payload     usage.Payload
}

// Sink is an httptest server that records usage payloads.
type Sink struct {
	server   *httptest.Server
	requests *concurrent.Slice[Request]
	status   int
}

// NewSink starts a sink that answers every request with status. It is
// closed when the test ends.
func NewSink(t testing.TB, status int) *Sink {
	t.Helper()

	s := &Sink{
		requests: concurrent.NewSlice[Request](),
		status:   status,
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.server.Close)
	return s
}

func (s *Sink) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	req := Request{
		Method:      r.Method,
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	}
	_ = json.Unmarshal(body, &req.Payload)
	s.requests.Append(req)

	w.WriteHeader(s.status)
	_, _ = w.Write([]byte(`{"ok":true}`))
}

// URL is the endpoint to configure with usage.WithEndpoint.
func (s *Sink) URL() string {
	return s.server.URL + "/"
}

// Requests returns the recorded requests in arrival order.
func (s *Sink) Requests() []Request {
	return s.requests.Snapshot()
}

// Events returns the decoded events in arrival order.
func (s *Sink) Events() []usage.Event {
	var events []usage.Event
	for r := range s.requests.Values() {
		if r.Payload.Data != nil {
			events = append(events, *r.Payload.Data)
		}
	}
	return events
}

// Count returns the number of recorded requests.
func (s *Sink) Count() int {
	return s.requests.Length()
}
