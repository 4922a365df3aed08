package client

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/adamwoolhether/httpmsg/header"
)

// Response is one HTTP response message: status, headers and content.
//
// Callers that never read the content should Close the response so the
// underlying connection can be reused.
type Response struct {
	resp    *http.Response
	headers *header.Map
	content *Content
}

func newResponse(resp *http.Response, logger *slog.Logger) *Response {
	return &Response{
		resp:    resp,
		headers: header.FromHTTP(resp.Header),
		content: newContent(resp, logger),
	}
}

// StatusCode returns the HTTP status code.
func (r *Response) StatusCode() int {
	return r.resp.StatusCode
}

// ReasonPhrase returns the status text sent by the server, without the code.
func (r *Response) ReasonPhrase() string {
	code := strconv.Itoa(r.resp.StatusCode)
	if reason, ok := strings.CutPrefix(r.resp.Status, code+" "); ok {
		return reason
	}

	if r.resp.Status != "" && r.resp.Status != code {
		return r.resp.Status
	}

	return http.StatusText(r.resp.StatusCode)
}

// Headers returns a copy of the response headers with lower-cased names.
func (r *Response) Headers() *header.Map {
	return r.headers.Clone()
}

// Content returns the lazily read body bound to this response.
func (r *Response) Content() *Content {
	return r.content
}

// IsSuccessStatusCode reports whether the status code is in [200, 400).
// Redirects count as success.
func (r *Response) IsSuccessStatusCode() bool {
	return isSuccess(r.resp.StatusCode)
}

// EnsureSuccessStatusCode returns a *StatusError when
// IsSuccessStatusCode is false, nil otherwise.
func (r *Response) EnsureSuccessStatusCode() error {
	if r.IsSuccessStatusCode() {
		return nil
	}

	return newStatusError(r.resp.StatusCode, r.ReasonPhrase())
}

// Close discards any unread content and closes the body.
// It is safe to call after the content has been read.
func (r *Response) Close() error {
	return r.content.discard()
}

// Raw returns the underlying *http.Response. Reading its body directly
// bypasses Content.
func (r *Response) Raw() *http.Response {
	return r.resp
}

func isSuccess(code int) bool {
	return code >= 200 && code < 400
}
