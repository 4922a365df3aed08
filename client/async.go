package client

import (
	"context"
	"net/http"
)

// Pending represents an in-flight or completed request started by one of
// the *Async methods.
type Pending struct {
	done chan struct{}
	resp *Response
	err  error
}

// Done returns a channel that is closed when the request completes.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the request completes and returns its outcome.
func (p *Pending) Wait() (*Response, error) {
	<-p.done
	return p.resp, p.err
}

// GetAsync is the asynchronous form of [Client.Get].
func (c *Client) GetAsync(ctx context.Context, uri string, opts ...RequestOption) *Pending {
	return c.SendAsync(ctx, http.MethodGet, uri, nil, opts...)
}

// PostAsync is the asynchronous form of [Client.Post].
func (c *Client) PostAsync(ctx context.Context, uri string, body any, opts ...RequestOption) *Pending {
	return c.SendAsync(ctx, http.MethodPost, uri, body, opts...)
}

// PutAsync is the asynchronous form of [Client.Put].
func (c *Client) PutAsync(ctx context.Context, uri string, body any, opts ...RequestOption) *Pending {
	return c.SendAsync(ctx, http.MethodPut, uri, body, opts...)
}

// PatchAsync is the asynchronous form of [Client.Patch].
func (c *Client) PatchAsync(ctx context.Context, uri string, body any, opts ...RequestOption) *Pending {
	return c.SendAsync(ctx, http.MethodPatch, uri, body, opts...)
}

// DeleteAsync is the asynchronous form of [Client.Delete].
func (c *Client) DeleteAsync(ctx context.Context, uri string, opts ...RequestOption) *Pending {
	return c.SendAsync(ctx, http.MethodDelete, uri, nil, opts...)
}

// SendAsync resolves the request options, including the default header
// snapshot, before returning, then sends the request in a new goroutine.
// Header changes made after SendAsync returns do not affect the request.
func (c *Client) SendAsync(ctx context.Context, method, uri string, body any, optFns ...RequestOption) *Pending {
	p := &Pending{done: make(chan struct{})}

	opts, settings, err := c.resolve(method, uri, optFns...)
	if err != nil {
		p.err = err
		close(p.done)
		return p
	}

	go func() {
		defer close(p.done)
		p.resp, p.err = c.send(ctx, opts, settings, body)
	}()

	return p
}
