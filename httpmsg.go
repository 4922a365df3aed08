// Package httpmsg exposes the client builder.
//
// See [github.com/adamwoolhether/httpmsg/client] for the request
// helpers and response types.
package httpmsg

import (
	"github.com/adamwoolhether/httpmsg/client"
)

// NewClient instantiates a new *client.Client with the provided options.
// If not specified, a fresh http.Client over http.DefaultTransport is used.
func NewClient(opts ...client.Option) (*client.Client, error) {
	return client.Build(opts...)
}
