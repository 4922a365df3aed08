package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/adamwoolhether/httpmsg/header"
)

// Content is the lazily read body of a [Response].
//
// The body can be drained once: the first ReadAsString, ReadAs or
// [ReadJSON] call consumes it and any later call fails with
// [ErrContentConsumed].
type Content struct {
	resp     *http.Response
	headers  *header.Map
	logger   *slog.Logger
	consumed atomic.Bool
}

func newContent(resp *http.Response, logger *slog.Logger) *Content {
	return &Content{
		resp:    resp,
		headers: header.FromHTTP(resp.Header),
		logger:  logger,
	}
}

// Headers returns a copy of the response headers with lower-cased names.
func (c *Content) Headers() *header.Map {
	return c.headers.Clone()
}

// ReadAsString drains the body and returns it as text.
func (c *Content) ReadAsString(ctx context.Context) (string, error) {
	b, err := c.read(ctx)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// ReadAs drains the body and decodes it as JSON into dst, which must be
// a pointer. The content-type header must mention json.
func (c *Content) ReadAs(ctx context.Context, dst any, opts ...ReadOption) error {
	var settings readOpts
	for _, opt := range opts {
		opt(&settings)
	}

	b, err := c.read(ctx)
	if err != nil {
		return err
	}

	if ct := c.headers.Value("content-type"); !strings.Contains(strings.ToLower(ct), "json") {
		return fmt.Errorf("%w: %q", ErrContentType, ct)
	}

	d := json.NewDecoder(bytes.NewReader(b))
	if settings.useJSONNum {
		d.UseNumber()
	}

	if err := d.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}

	if d.More() {
		return fmt.Errorf("%w: unexpected data after top-level value", ErrParse)
	}

	return nil
}

// ReadJSON is the generic form of [Content.ReadAs].
func ReadJSON[T any](ctx context.Context, c *Content, opts ...ReadOption) (T, error) {
	var v T
	if err := c.ReadAs(ctx, &v, opts...); err != nil {
		return v, err
	}

	return v, nil
}

// read accumulates the whole body in arrival order and closes it.
// Unsuccessful responses are rejected before the body is touched.
func (c *Content) read(ctx context.Context) ([]byte, error) {
	if !isSuccess(c.resp.StatusCode) {
		return nil, fmt.Errorf("%w: status code %d", ErrRead, c.resp.StatusCode)
	}

	if !c.consumed.CompareAndSwap(false, true) {
		return nil, ErrContentConsumed
	}

	defer func() {
		if err := c.resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	b, err := io.ReadAll(&contextReader{ctx: ctx, r: c.resp.Body})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("reading content: %w", err)
		}

		return nil, fmt.Errorf("%w: reading content: %w", ErrTransport, err)
	}

	return b, nil
}

// discard drains and closes a body nobody read, letting the transport
// reuse the connection.
func (c *Content) discard() error {
	if !c.consumed.CompareAndSwap(false, true) {
		return nil
	}

	if _, err := io.Copy(io.Discard, io.LimitReader(c.resp.Body, maxDrainSize)); err != nil {
		c.logger.Error("failed to discard unused body", "error", err)
	}

	if err := c.resp.Body.Close(); err != nil {
		return fmt.Errorf("closing response body: %w", err)
	}

	return nil
}

// contextReader stops a read as soon as ctx ends.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}

	return cr.r.Read(p)
}
