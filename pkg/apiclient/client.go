package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for client spans.
const defaultTracerName = "uploadbox/apiclient"

// maxEnvelopeSize bounds how much of a JSON response is read.
const maxEnvelopeSize = 4 << 20

// Client issues single requests against a host API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
	header     http.Header
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. Timeouts, proxies and
// cookie jars are configured there.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTracerName sets the tracer used for client spans.
func WithTracerName(name string) Option {
	return func(c *Client) {
		c.tracer = otel.Tracer(name)
	}
}

// WithHeader adds a header sent with every request (e.g. Authorization).
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.header.Add(key, value)
	}
}

// New creates a Client. Relative endpoints are resolved against baseURL;
// an empty baseURL leaves endpoints untouched, which only works for
// absolute endpoint URLs.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		tracer:     otel.Tracer(defaultTracerName),
		header:     make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the base URL endpoints are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// Response is the success envelope returned by host endpoints.
type Response struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`

	// StatusCode is the HTTP status the envelope arrived with.
	StatusCode int `json:"-"`
}

// IsSuccess reports whether r is a successful response.
func IsSuccess(r *Response) bool {
	return r != nil && r.Success && r.StatusCode >= 200 && r.StatusCode < 300
}

// Blob is a raw binary payload.
type Blob struct {
	Data        []byte
	ContentType string
	StatusCode  int
}

// Error is returned for non-2xx responses.
type Error struct {
	Method     string
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("apiclient: %s %s: status %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("apiclient: %s %s: status %d", e.Method, e.Endpoint, e.StatusCode)
}

// PostJSON posts body as JSON and decodes the envelope.
func (c *Client) PostJSON(ctx context.Context, endpoint string, body any) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: encode body: %w", err)
	}
	return c.doEnvelope(ctx, endpoint, "application/json", bytes.NewReader(payload))
}

// PostMultipart streams form as multipart/form-data and decodes the
// envelope.
func (c *Client) PostMultipart(ctx context.Context, endpoint string, form *Form) (*Response, error) {
	body, contentType := form.encode()
	defer body.Close()
	return c.doEnvelope(ctx, endpoint, contentType, body)
}

// FetchBlob posts body as JSON and returns the raw response bytes.
func (c *Client) FetchBlob(ctx context.Context, endpoint string, body any) (*Blob, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: encode body: %w", err)
	}

	resp, err := c.do(ctx, endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &Error{Method: http.MethodPost, Endpoint: endpoint, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: read %s: %w", endpoint, err)
	}
	return &Blob{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}

func (c *Client) doEnvelope(ctx context.Context, endpoint, contentType string, body io.Reader) (*Response, error) {
	resp, err := c.do(ctx, endpoint, contentType, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxEnvelopeSize))
	if err != nil {
		return nil, fmt.Errorf("apiclient: read %s: %w", endpoint, err)
	}

	var env Response
	decodeErr := json.Unmarshal(raw, &env)
	env.StatusCode = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Method: http.MethodPost, Endpoint: endpoint, StatusCode: resp.StatusCode, Message: env.Message}
		if decodeErr != nil {
			apiErr.Message = strings.TrimSpace(string(raw))
			return nil, apiErr
		}
		return &env, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("apiclient: decode %s response: %w", endpoint, decodeErr)
	}
	return &env, nil
}

// do sends a POST inside a client span.
func (c *Client) do(ctx context.Context, endpoint, contentType string, body io.Reader) (*http.Response, error) {
	target, err := c.resolve(endpoint)
	if err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "POST "+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodPost),
			attribute.String("url.full", target),
		),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("apiclient: build request: %w", err)
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", contentType)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("apiclient: POST %s: %w", endpoint, err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, resp.Status)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return resp, nil
}

func (c *Client) resolve(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("apiclient: invalid endpoint %q: %w", endpoint, err)
	}
	if u.IsAbs() || c.baseURL == "" {
		return endpoint, nil
	}
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/"), nil
}
