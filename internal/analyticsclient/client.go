package analyticsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"event-analytics-service/internal/metrics"
	"event-analytics-service/internal/model"
)

// Source tells whether a result came from the server or from the
// built-in fallback data.
type Source string

const (
	SourceServer   Source = "server"
	SourceFallback Source = "fallback"
)

// Result wraps a payload with its origin and a sequence number. Seq grows
// with every request issued by the same Client, so a caller that keeps the
// highest Seq seen can drop responses that arrive out of order.
type Result[T any] struct {
	Data   T
	Source Source
	Seq    uint64
}

// Client talks to the owner analytics endpoints of the event service.
// A 404 on a read yields deterministic fallback data; a 404 on a write is
// treated as success.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *slog.Logger
	seq     atomic.Uint64
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds every request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.http.Timeout = timeout }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.http = client }
}

// WithLogger sets the logger used for fallback warnings.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New builds a Client for the API rooted at baseURL, e.g. http://host:8080/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) FetchEventAnalytics(ctx context.Context, eventID string) (Result[model.EventAnalytics], error) {
	return getJSON(ctx, c, "fetch event analytics", eventPath(eventID, "analytics"), nil, func() model.EventAnalytics {
		return MockEventAnalytics(eventID)
	})
}

func (c *Client) FetchRegisteredUsers(ctx context.Context, eventID string) (Result[[]model.RegisteredUser], error) {
	return getJSON(ctx, c, "fetch registered users", eventPath(eventID, "registrations"), nil, func() []model.RegisteredUser {
		return MockRegisteredUsers(eventID)
	})
}

func (c *Client) FetchEventFinancials(ctx context.Context, eventID string) (Result[model.EventFinancials], error) {
	return getJSON(ctx, c, "fetch event financials", eventPath(eventID, "financials"), nil, func() model.EventFinancials {
		return MockEventFinancials(eventID)
	})
}

// FetchEventMetrics accepts the 7d, 30d and 90d periods only.
func (c *Client) FetchEventMetrics(ctx context.Context, eventID string, period model.Period) (Result[model.EventMetrics], error) {
	if period.Days() == 0 {
		return Result[model.EventMetrics]{}, &RequestError{
			Op:  "fetch event metrics",
			Err: fmt.Errorf("invalid period %q", period),
		}
	}
	query := url.Values{"period": {string(period)}}
	return getJSON(ctx, c, "fetch event metrics", eventPath(eventID, "metrics"), query, func() model.EventMetrics {
		return MockEventMetrics(eventID, period)
	})
}

// ExportEventData downloads a CSV export. On 404 the CSV is built from the
// fallback attendee list.
func (c *Client) ExportEventData(ctx context.Context, eventID string, kind model.ExportKind) (Result[[]byte], error) {
	const op = "export event data"
	seq := c.seq.Add(1)

	query := url.Values{"type": {string(kind)}}
	resp, err := c.do(ctx, op, http.MethodGet, eventPath(eventID, "export"), query, nil)
	if err != nil {
		return Result[[]byte]{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.fallback(op, eventID)
		return Result[[]byte]{Data: MockExportCSV(MockRegisteredUsers(eventID)), Source: SourceFallback, Seq: seq}, nil
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return Result[[]byte]{}, c.failure(op, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result[[]byte]{}, &RequestError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}
	return Result[[]byte]{Data: data, Source: SourceServer, Seq: seq}, nil
}

// SendEventUpdate messages every attendee of the event.
func (c *Client) SendEventUpdate(ctx context.Context, eventID, message, subject string) error {
	return c.postJSON(ctx, "send event update", eventPath(eventID, "updates"), model.EventUpdateRequest{
		Subject: subject,
		Message: message,
	})
}

func (c *Client) CheckInAttendee(ctx context.Context, eventID, registrationID string) error {
	return c.postJSON(ctx, "check in attendee", eventPath(eventID, "checkin"), model.CheckInRequest{
		RegistrationID: registrationID,
	})
}

func getJSON[T any](ctx context.Context, c *Client, op, path string, query url.Values, fallback func() T) (Result[T], error) {
	seq := c.seq.Add(1)

	resp, err := c.do(ctx, op, http.MethodGet, path, query, nil)
	if err != nil {
		return Result[T]{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.fallback(op, path)
		return Result[T]{Data: fallback(), Source: SourceFallback, Seq: seq}, nil
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return Result[T]{}, c.failure(op, resp.StatusCode)
	}

	var data T
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		metrics.RemoteFailures.WithLabelValues(op).Inc()
		return Result[T]{}, &RequestError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return Result[T]{Data: data, Source: SourceServer, Seq: seq}, nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload any) error {
	c.seq.Add(1)

	body, err := json.Marshal(payload)
	if err != nil {
		return &RequestError{Op: op, Err: fmt.Errorf("marshal payload: %w", err)}
	}

	resp, err := c.do(ctx, op, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.fallback(op, path)
		return nil
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return c.failure(op, resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body []byte) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &RequestError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RemoteFailures.WithLabelValues(op).Inc()
		return nil, &RequestError{Op: op, Err: err}
	}
	return resp, nil
}

func (c *Client) fallback(op, target string) {
	metrics.RemoteFallbacks.WithLabelValues(op).Inc()
	c.log.Warn("analytics endpoint not found, using fallback data", "operation", op, "target", target)
}

func (c *Client) failure(op string, status int) error {
	metrics.RemoteFailures.WithLabelValues(op).Inc()
	return &RequestError{Op: op, StatusCode: status}
}

func eventPath(eventID, resource string) string {
	return "/events/" + url.PathEscape(eventID) + "/" + resource
}
