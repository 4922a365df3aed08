// Package throttle provides an [http.RoundTripper] that rate-limits
// outbound requests with a token bucket from [golang.org/x/time/rate].
//
// Wrap the transport handed to an [http.Client]:
//
//	rt, err := throttle.New(throttle.Config{RPS: 10, Burst: 5}, http.DefaultTransport)
//	hc := &http.Client{Transport: rt}
//
// Once the burst is spent, requests block until a token is available
// or the request context ends.
package throttle
