package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/adamwoolhether/httpmsg/header"
)

// RequestOptions is the per-call description of an outgoing request.
// It is derived from the request URI, the client's base address and
// its default headers, and never outlives the call.
type RequestOptions struct {
	Scheme string      `json:"scheme" validate:"required,oneof=http https"`
	Host   string      `json:"host" validate:"required"`
	Path   string      `json:"path" validate:"required,startswith=/"`
	Method string      `json:"method" validate:"required"`
	Header *header.Map `json:"-" validate:"required"`
}

// URL returns the absolute target of the options. Path is never read
// as an authority, so "//posts" stays a path on Host.
func (o *RequestOptions) URL() (*url.URL, error) {
	target, _, _ := strings.Cut(o.Path, "#")
	rawPath, rawQuery, _ := strings.Cut(target, "?")

	path, err := url.PathUnescape(rawPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURI, err)
	}

	return &url.URL{
		Scheme:   o.Scheme,
		Host:     o.Host,
		Path:     path,
		RawPath:  rawPath,
		RawQuery: rawQuery,
	}, nil
}

// looksAbsolute reports whether uri starts with an http(s) scheme prefix.
func looksAbsolute(uri string) bool {
	return len(uri) >= 4 && strings.EqualFold(uri[:4], "http")
}

// parseAbsolute parses s as an absolute URI, requiring scheme and host.
func parseAbsolute(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURI, err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute URI", ErrInvalidURI, s)
	}

	return u, nil
}

// buildOptions resolves uri against base and snapshots defaults into the
// outgoing header set. Per-call headers from settings take precedence.
func buildOptions(uri, method string, base *url.URL, defaults *header.Map, settings *requestOpts) (*RequestOptions, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, fmt.Errorf("%w: empty URI", ErrInvalidURI)
	}

	opts := RequestOptions{Method: method}

	if base != nil && !looksAbsolute(uri) {
		opts.Scheme = base.Scheme
		opts.Host = base.Host
		if !strings.HasPrefix(uri, "/") {
			uri = "/" + uri
		}
		opts.Path = uri
	} else {
		u, err := parseAbsolute(uri)
		if err != nil {
			return nil, err
		}

		opts.Scheme = strings.ToLower(u.Scheme)
		opts.Host = u.Host
		opts.Path = u.EscapedPath()
		if opts.Path == "" {
			opts.Path = "/"
		}
		if u.RawQuery != "" {
			opts.Path += "?" + u.RawQuery
		}
	}

	if _, err := opts.URL(); err != nil {
		return nil, err
	}

	opts.Header = defaults.Clone()
	if settings != nil {
		opts.Header.Merge(settings.headers)
		if settings.contentType != "" {
			opts.Header.Set("Content-Type", settings.contentType)
		}
	}

	return &opts, nil
}

// encodeBody turns body into request bytes. Strings and byte slices are
// sent untouched, anything else is encoded as JSON. Empty text means no body.
func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case string:
		if b == "" {
			return nil, nil
		}
		return strings.NewReader(b), nil
	case []byte:
		if len(b) == 0 {
			return nil, nil
		}
		return bytes.NewReader(b), nil
	case json.RawMessage:
		if len(b) == 0 {
			return nil, nil
		}
		return bytes.NewReader(b), nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}

	return bytes.NewReader(data), nil
}

// newRequest builds the *http.Request described by opts.
func newRequest(ctx context.Context, opts *RequestOptions, body any, cookies []*http.Cookie) (*http.Request, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	target, err := opts.URL()
	if err != nil {
		return nil, err
	}

	payload, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, target.String(), payload)
	if err != nil {
		return nil, fmt.Errorf("%w: instantiating request: %w", ErrInvalidOptions, err)
	}

	req.Header = opts.Header.HTTP()
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	return req, nil
}
