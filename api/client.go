package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gomilk/rtmagent/signature"
)

const (
	defaultRESTEndpoint = "https://api.rememberthemilk.com/services/rest/"
	defaultAuthEndpoint = "https://www.rememberthemilk.com/services/auth/"
	defaultUserAgent    = "rtmagent/0.1"
	requestTimeout      = 30 * time.Second
)

// PermsDelete is the permission level requested during authorization. The
// agent always asks for full access so undoable mutations work.
const PermsDelete = "delete"

// Trace selects which sides of an exchange are logged. Tracing is purely
// observational and never changes control flow.
type Trace uint8

const (
	// TraceOutgoing logs the fully formed request body before sending.
	TraceOutgoing Trace = 1 << iota
	// TraceIncoming logs the raw response body after receipt.
	TraceIncoming
)

// Request describes one remote operation invocation. Params are literal
// "key=value" strings supplied by the caller; AuthToken and Timeline are
// appended to the request only when non-empty.
type Request struct {
	Method    string
	Params    []string
	AuthToken string
	Timeline  string
}

// Client signs and dispatches calls to the REST endpoint.
type Client struct {
	endpoint  *url.URL
	authBase  *url.URL
	http      *http.Client
	key       string
	secret    string
	logger    *slog.Logger
	trace     Trace
	userAgent string
}

// Options adjusts Client construction. The zero value selects the
// production endpoints, a default HTTP client with a 30s timeout, a
// discarding logger, and no tracing.
type Options struct {
	Endpoint     string
	AuthEndpoint string
	HTTPClient   *http.Client
	Logger       *slog.Logger
	Trace        Trace
}

// NewClient builds a Client for the given API credentials.
func NewClient(key, secret string, opts Options) (*Client, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("api key required")
	}
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("api secret required")
	}

	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = defaultRESTEndpoint
	}
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}

	authEndpoint := opts.AuthEndpoint
	if authEndpoint == "" {
		authEndpoint = defaultAuthEndpoint
	}
	authBase, err := url.Parse(authEndpoint)
	if err != nil {
		return nil, fmt.Errorf("parse auth endpoint %q: %w", authEndpoint, err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		endpoint:  base,
		authBase:  authBase,
		http:      httpClient,
		key:       key,
		secret:    secret,
		logger:    logger,
		trace:     opts.Trace,
		userAgent: defaultUserAgent,
	}, nil
}

// Invoke signs and sends one operation call, blocking until the transport
// completes, and returns the parsed response envelope. Transport failures
// come back as *TransportError; service-reported errors are left inside the
// response for the caller to inspect.
func (c *Client) Invoke(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Method) == "" {
		return nil, fmt.Errorf("method name required")
	}

	params := make([]string, 0, len(req.Params)+4)
	params = append(params, "method="+req.Method)
	params = append(params, req.Params...)
	params = append(params, "api_key="+c.key)
	if req.AuthToken != "" {
		params = append(params, "auth_token="+req.AuthToken)
	}
	if req.Timeline != "" {
		params = append(params, "timeline="+req.Timeline)
	}
	params = append(params, "api_sig="+signature.Sign(c.secret, params))

	form := url.Values{}
	for _, p := range params {
		key, value, _ := strings.Cut(p, "=")
		form.Add(key, value)
	}
	body := form.Encode()

	requestID := uuid.NewString()
	if c.trace&TraceOutgoing != 0 {
		c.logger.Debug("api request", "id", requestID, "method", req.Method, "body", body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Status: "request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Status: resp.Status}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Status: "read response", Err: err}
	}
	if c.trace&TraceIncoming != 0 {
		c.logger.Debug("api response", "id", requestID, "method", req.Method, "body", string(raw))
	}

	return ParseResponse(bytes.NewReader(raw))
}

// AuthorizationURL builds the browser URL a user visits to grant this
// api key access, signed over the api key, permission level, and frob.
func (c *Client) AuthorizationURL(frob string) string {
	sig := signature.Sign(c.secret, []string{
		"api_key=" + c.key,
		"perms=" + PermsDelete,
		"frob=" + frob,
	})

	q := url.Values{}
	q.Set("api_key", c.key)
	q.Set("perms", PermsDelete)
	q.Set("frob", frob)
	q.Set("api_sig", sig)

	u := *c.authBase
	u.RawQuery = q.Encode()
	return u.String()
}
