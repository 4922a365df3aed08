package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/httpmsg/client/throttle"
	"github.com/adamwoolhether/httpmsg/header"
)

// Client wraps the std-lib *http.Client with a base address and a set
// of default headers copied into every request.
// It is safe for concurrent use.
type Client struct {
	c               *http.Client
	logger          *slog.Logger
	tracer          trace.Tracer
	requestIDHeader string

	mu          sync.RWMutex
	baseAddress *url.URL
	headers     *header.Map
}

// Build instantiates a *Client with the provided options.
// Default request headers are seeded with
// "Content-Type: application/json; charset=UTF-8".
func Build(optFns ...Option) (*Client, error) {
	client := &Client{
		c:       &http.Client{},
		logger:  slog.Default(),
		tracer:  noop.NewTracerProvider().Tracer("httpmsg"),
		headers: header.New(header.Field{Name: "Content-Type", Value: defaultContentType}),
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.client != nil {
		cpy := *opts.client
		client.c = &cpy
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	client.requestIDHeader = opts.requestIDHeader

	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.New(*opts.throttle, transport, throttle.WithLogger(func() *slog.Logger { return client.logger }))
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	client.c.Transport = transport

	if opts.baseAddress != "" {
		if err := client.SetBaseAddress(opts.baseAddress); err != nil {
			return nil, err
		}
	}

	for _, f := range opts.defaultHeaders {
		client.headers.Set(f.Name, f.Value)
	}

	return client, nil
}

// BaseAddress returns the scheme and host used to resolve relative
// request URIs, or nil if it was never set.
func (c *Client) BaseAddress() *url.URL {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.baseAddress == nil {
		return nil
	}

	cpy := *c.baseAddress
	return &cpy
}

// SetBaseAddress parses uri as an absolute URI and keeps its scheme and
// host. On failure the previous base address is left untouched.
func (c *Client) SetBaseAddress(uri string) error {
	if uri == "" {
		return fmt.Errorf("%w: empty base address", ErrInvalidURI)
	}

	u, err := parseAbsolute(uri)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.baseAddress = &url.URL{Scheme: u.Scheme, Host: u.Host}

	return nil
}

// DefaultRequestHeaders returns the live header map copied into every
// subsequent request. Changes affect only requests started afterwards.
func (c *Client) DefaultRequestHeaders() *header.Map {
	return c.headers
}

// Get sends a GET request to uri.
func (c *Client) Get(ctx context.Context, uri string, opts ...RequestOption) (*Response, error) {
	return c.Send(ctx, http.MethodGet, uri, nil, opts...)
}

// Post sends a POST request to uri with body.
func (c *Client) Post(ctx context.Context, uri string, body any, opts ...RequestOption) (*Response, error) {
	return c.Send(ctx, http.MethodPost, uri, body, opts...)
}

// Put sends a PUT request to uri with body.
func (c *Client) Put(ctx context.Context, uri string, body any, opts ...RequestOption) (*Response, error) {
	return c.Send(ctx, http.MethodPut, uri, body, opts...)
}

// Patch sends a PATCH request to uri with body.
func (c *Client) Patch(ctx context.Context, uri string, body any, opts ...RequestOption) (*Response, error) {
	return c.Send(ctx, http.MethodPatch, uri, body, opts...)
}

// Delete sends a DELETE request to uri.
func (c *Client) Delete(ctx context.Context, uri string, opts ...RequestOption) (*Response, error) {
	return c.Send(ctx, http.MethodDelete, uri, nil, opts...)
}

// Send resolves uri, issues a request with method and the optional body
// and wraps whatever the transport returns. Non-2xx/3xx statuses are not
// errors here; see [Response.EnsureSuccessStatusCode].
func (c *Client) Send(ctx context.Context, method, uri string, body any, optFns ...RequestOption) (*Response, error) {
	opts, settings, err := c.resolve(method, uri, optFns...)
	if err != nil {
		return nil, err
	}

	return c.send(ctx, opts, settings, body)
}

// send dispatches already resolved options through the transport.
func (c *Client) send(ctx context.Context, opts *RequestOptions, settings *requestOpts, body any) (*Response, error) {
	ctx, span, requestID := c.startSpan(ctx, opts)

	req, err := newRequest(ctx, opts, body, settings.cookies)
	if err != nil {
		endSpan(span, nil, err)
		return nil, err
	}
	c.inject(ctx, req, requestID)

	c.logger.Debug("sending request", "method", req.Method, "url", req.URL.String(), "request_id", requestID)

	resp, err := c.c.Do(req)
	endSpan(span, resp, err)
	if err != nil {
		return nil, fmt.Errorf("%w: exec http do: %w", ErrTransport, err)
	}

	return newResponse(resp, c.logger), nil
}

// BuildRequestOptions resolves uri against the base address and
// snapshots the default headers, without sending anything.
func (c *Client) BuildRequestOptions(method, uri string, optFns ...RequestOption) (*RequestOptions, error) {
	opts, _, err := c.resolve(method, uri, optFns...)
	return opts, err
}

func (c *Client) resolve(method, uri string, optFns ...RequestOption) (*RequestOptions, *requestOpts, error) {
	var settings requestOpts
	for _, opt := range optFns {
		if err := opt(&settings); err != nil {
			return nil, nil, fmt.Errorf("applying request option: %w", err)
		}
	}

	opts, err := buildOptions(uri, method, c.BaseAddress(), c.headers, &settings)
	if err != nil {
		return nil, nil, err
	}

	return opts, &settings, nil
}
