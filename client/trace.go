package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const spanName = "httpmsg.send"

// startSpan opens the span covering one send and returns the request ID
// derived from it.
func (c *Client) startSpan(ctx context.Context, opts *RequestOptions) (context.Context, trace.Span, string) {
	ctx, span := c.tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.request.method", opts.Method),
		attribute.String("url.scheme", opts.Scheme),
		attribute.String("server.address", opts.Host),
		attribute.String("url.path", opts.Path),
	)

	requestID := span.SpanContext().TraceID().String()
	if !span.SpanContext().TraceID().IsValid() {
		requestID = uuid.New().String()
	}

	return ctx, span, requestID
}

// inject writes propagation headers and the request ID into req.
func (c *Client) inject(ctx context.Context, req *http.Request, requestID string) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	if c.requestIDHeader != "" {
		req.Header.Set(c.requestIDHeader, requestID)
	}
}

func endSpan(span trace.Span, resp *http.Response, err error) {
	defer span.End()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if !isSuccess(resp.StatusCode) {
		span.SetStatus(codes.Error, resp.Status)
	}
}
