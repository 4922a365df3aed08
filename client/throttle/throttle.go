package throttle

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
)

// Config holds the limiter's requests per second and burst capacity.
type Config struct {
	RPS   int
	Burst int
}

// Validate reports whether both limits are positive.
func (c Config) Validate() error {
	if c.RPS <= 0 || c.Burst <= 0 {
		return fmt.Errorf("rps[%d] and burst[%d] %w", c.RPS, c.Burst, ErrMustNotBeZero)
	}

	return nil
}

// Option configures the round tripper returned by New.
type Option func(*RoundTripper)

// WithLogger sets a func resolving the logger at request time, so the
// caller may swap loggers after construction. A nil result disables logging.
func WithLogger(logFn func() *slog.Logger) Option {
	return func(rt *RoundTripper) {
		if logFn != nil {
			rt.logFn = logFn
		}
	}
}

// RoundTripper delays requests passed to next so they respect the
// configured rate.
type RoundTripper struct {
	limiter *rate.Limiter
	cfg     Config
	next    http.RoundTripper
	logFn   func() *slog.Logger
}

// New wraps next in a throttling RoundTripper. A nil next falls back to
// http.DefaultTransport.
func New(cfg Config, next http.RoundTripper, opts ...Option) (*RoundTripper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if next == nil {
		next = http.DefaultTransport
	}

	rt := &RoundTripper{
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		cfg:     cfg,
		next:    next,
		logFn:   func() *slog.Logger { return nil },
	}

	for _, opt := range opts {
		opt(rt)
	}

	return rt, nil
}

// RoundTrip implements http.RoundTripper.
func (t *RoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	// Allow consumes a token, so only probe it when there is someone to tell.
	if logger := t.logFn(); logger != nil && !t.limiter.Allow() {
		start := time.Now()
		logger.Info("throttle tokens exhausted", "rate", t.cfg.RPS, "burst", t.cfg.Burst, "path", r.URL.Path)

		defer func() {
			logger.Info("throttle wait complete", "waited", time.Since(start).String(), "rate", t.cfg.RPS, "burst", t.cfg.Burst)
		}()
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWaitingFailed, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w post-wait: %w", ErrContextEnded, err)
	}

	return t.next.RoundTrip(r)
}
