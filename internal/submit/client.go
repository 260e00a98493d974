// Package submit delivers completed registrations to the remote
// persistence endpoint. One Submit call is exactly one request: no retries,
// no backoff; the user retries by submitting again.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/emekaobi/staffintake/internal/intake"
	"github.com/emekaobi/staffintake/pkg/logging"
)

// submitPath is the endpoint route registrations are posted to.
const submitPath = "/api/employee/add"

// FailureMessage is shown when the endpoint gives no message of its own or
// the request does not complete.
const FailureMessage = "Registration failed, please try again"

// Client posts registration payloads to the endpoint. It implements
// intake.Submitter.
type Client struct {
	base  *url.URL
	token string
	http  *http.Client
	log   logging.Logger
}

// Opt configures a client.
type Opt func(*Client)

// WithToken sends a bearer token on every submission.
func WithToken(token string) Opt {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds one submission request end to end.
func WithTimeout(d time.Duration) Opt {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the client logger.
func WithLogger(log logging.Logger) Opt {
	return func(c *Client) { c.log = log }
}

// New creates a client for the endpoint at baseURL.
func New(baseURL string, opts ...Opt) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("submit: parse base url: %w", err)
	}

	// The endpoint authenticates with session cookies; keep them across
	// submissions.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("submit: cookie jar: %w", err)
	}

	c := &Client{
		base: base,
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		log: logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// endpointReply is the failure body shape the endpoint may return.
type endpointReply struct {
	Message string `json:"message"`
}

// Submit posts one payload. It never returns an error: every outcome maps
// to a SubmitResult the form can present, and the record stays editable.
func (c *Client) Submit(ctx context.Context, payload intake.Payload) intake.SubmitResult {
	body, err := json.Marshal(payload)
	if err != nil {
		c.log.Error("marshal payload", logging.Err(err))
		return intake.SubmitResult{Message: FailureMessage}
	}

	reqID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.base.String()+submitPath, bytes.NewReader(body))
	if err != nil {
		c.log.Error("build request", logging.Err(err))
		return intake.SubmitResult{Message: FailureMessage}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("submission transport error",
			logging.String("request_id", reqID), logging.Err(err))
		return intake.SubmitResult{Message: FailureMessage}
	}
	defer resp.Body.Close()

	c.log.Info("submission response",
		logging.String("request_id", reqID),
		logging.Int("status", resp.StatusCode),
		logging.Duration("duration", time.Since(start)))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return intake.SubmitResult{OK: true}
	}

	// Use the endpoint's message verbatim when it sends one.
	var reply endpointReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err == nil && reply.Message != "" {
		return intake.SubmitResult{Message: reply.Message}
	}
	return intake.SubmitResult{Message: FailureMessage}
}
