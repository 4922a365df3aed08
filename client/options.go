package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/httpmsg/client/throttle"
	"github.com/adamwoolhether/httpmsg/header"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	client            *http.Client
	rt                http.RoundTripper
	timeout           *time.Duration
	userAgent         string
	throttle          *throttle.Config
	noFollowRedirects bool
	logger            *slog.Logger
	baseAddress       string
	defaultHeaders    []header.Field
	tracer            trace.Tracer
	requestIDHeader   string
}

// WithClient replaces the default [http.Client] used by the [Client].
func WithClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithTimeout sets the overall request timeout on the underlying [http.Client].
// No timeout is applied unless this option is given.
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		cfg := throttle.Config{RPS: rps, Burst: burst}
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.throttle = &cfg
		return nil
	}
}

// WithNoFollowRedirects prevents the [Client] from following HTTP redirects,
// handing the 3xx response back to the caller instead.
func WithNoFollowRedirects() Option {
	return func(c *options) error {
		c.noFollowRedirects = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		c.logger = logger
		return nil
	}
}

// WithBaseAddress sets the initial base address; see [Client.SetBaseAddress].
func WithBaseAddress(uri string) Option {
	return func(c *options) error {
		if _, err := parseAbsolute(uri); err != nil {
			return err
		}
		c.baseAddress = uri
		return nil
	}
}

// WithDefaultHeader adds or overrides an entry of the default request headers.
func WithDefaultHeader(name, value string) Option {
	return func(c *options) error {
		if strings.TrimSpace(name) == "" {
			return errors.New("header name must not be empty")
		}
		c.defaultHeaders = append(c.defaultHeaders, header.Field{Name: name, Value: value})
		return nil
	}
}

// WithTracer sets the tracer used to start a span around each request.
// A no-op tracer is used by default.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		c.tracer = tracer
		return nil
	}
}

// WithRequestIDHeader stamps every request with a request ID under name.
// The active trace ID is used when valid, otherwise a random UUID.
func WithRequestIDHeader(name string) Option {
	return func(c *options) error {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("request id header name must not be empty")
		}
		c.requestIDHeader = name
		return nil
	}
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}

// RequestOption is a functional option for a single request.
type RequestOption func(options *requestOpts) error

type requestOpts struct {
	contentType string
	cookies     []*http.Cookie
	headers     *header.Map
}

// WithHeaders sets headers for this request only. They take precedence
// over the client's default request headers.
func WithHeaders(headers map[string]string) RequestOption {
	return func(opts *requestOpts) error {
		if opts.headers == nil {
			opts.headers = header.New()
		}
		for k, v := range headers {
			opts.headers.Set(k, v)
		}

		return nil
	}
}

// WithContentType overrides the default Content-Type header for this request.
func WithContentType(contentType string) RequestOption {
	return func(opts *requestOpts) error {
		if contentType == "" {
			return errors.New("cannot use empty content type")
		}

		opts.contentType = contentType

		return nil
	}
}

// WithCookies attaches the given cookies to the outgoing request.
func WithCookies(cookies ...*http.Cookie) RequestOption {
	return func(opts *requestOpts) error {
		opts.cookies = append(opts.cookies, cookies...)

		return nil
	}
}

// ReadOption is a functional option for [Content.ReadAs].
type ReadOption func(options *readOpts)

type readOpts struct {
	useJSONNum bool
}

// WithJSONNumber tells the JSON decoder to use [json.Decoder.UseNumber],
// preserving number precision as [json.Number] instead of float64.
func WithJSONNumber() ReadOption {
	return func(opts *readOpts) {
		opts.useJSONNum = true
	}
}
