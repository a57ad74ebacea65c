package usage

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	datetimeLayout   = "2006-01-02 15:04:05 MST"
	maxResponseBytes = 4096
)

// deliver builds the event for r and POSTs it. It runs on a dispatcher
// worker; failures are only logged at debug level.
func (c *Client) deliver(ctx context.Context, r report) {
	ctx, span := c.tracer.Start(ctx, "usage.dispatch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("usage.module", r.site.Module),
			attribute.String("usage.method", r.site.Name),
			attribute.Int64("usage.num_call", r.numCall),
			attribute.Bool("usage.error", r.hasError),
		))
	defer span.End()

	event, err := c.buildEvent(r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build event")
		c.logger.Debug("Failed to build usage event", "site", r.site.String(), "error", err)
		return
	}

	if err := c.send(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send event")
		c.logger.Debug("Failed to send usage event", "site", r.site.String(), "error", err)
		return
	}
	c.logger.Debug("Sent usage event", "site", r.site.String())
}

func (c *Client) buildEvent(r report) (*Event, error) {
	userID, err := c.identity.UserID()
	if err != nil {
		return nil, err
	}

	hostname, backendVersion := c.gate.Backend()
	now := c.now()

	event := &Event{
		UserID:           userID,
		TZ:               c.identity.TimezoneName(now),
		Datetime:         now.UTC().Format(datetimeLayout),
		BackendHostname:  hashString(hostname),
		BackendVersion:   backendVersion,
		Platform:         c.identity.Platform(),
		PythonVersion:    c.identity.RuntimeVersion(),
		HSMLVersion:      c.identity.LibraryVersion(LibraryHSML),
		HSFSVersion:      c.identity.LibraryVersion(LibraryHSFS),
		HopsworksVersion: c.identity.LibraryVersion(LibraryHopsworks),
		MethodName:       r.site.Name,
		ModuleName:       r.site.Module,
		ExecutionTime:    r.elapsed,
		NumCall:          r.numCall,
	}
	if r.hasError {
		msg, stack := r.errMsg, r.stack
		event.ErrorMessage = &msg
		event.StackTrace = &stack
	}
	return event, nil
}

// send POSTs a single event wrapped in a Payload.
func (c *Client) send(ctx context.Context, event *Event) error {
	body, err := json.Marshal(Payload{Data: event})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	c.logger.Debug("Sending usage event", "payload", string(body))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.logger.Debug("Usage endpoint response", "status_code", resp.StatusCode, "body", string(respBody))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP request failed with status %d", resp.StatusCode)
	}
	return nil
}

// hashString returns the hex MD5 of s, or "" for an empty s.
func hashString(s string) string {
	if s == "" {
		return ""
	}
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
