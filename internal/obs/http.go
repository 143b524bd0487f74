package obs

import (
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/noah-isme/storefront/http"

// HTTPObs feeds the request counters, latency histogram and in-flight gauge.
type HTTPObs struct {
	Metrics *HTTPMetrics
}

// Middleware is a no-op when Metrics is nil.
func (o HTTPObs) Middleware(next http.Handler) http.Handler {
	if o.Metrics == nil {
		return next
	}
	m := o.Metrics
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.InFlight.Inc()
		defer m.InFlight.Dec()

		ww := wrap(w, r)
		began := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(began)

		route := Route(r.Context(), "unmatched")
		m.Requests.WithLabelValues(r.Method, route, strconv.Itoa(statusOf(ww))).Inc()
		m.Latency.WithLabelValues(r.Method, route).Observe(DurationMillis(elapsed))
	})
}

// TracingMiddleware names the server span after the matched route. When an
// outer otelhttp handler already opened a span it is reused, otherwise a new
// one is started from the propagated headers.
func TracingMiddleware(next http.Handler) http.Handler {
	tracer := otel.Tracer(tracerName)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		span := trace.SpanFromContext(ctx)
		owned := !span.SpanContext().IsValid()
		if owned {
			ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(r.Header))
			ctx, span = tracer.Start(ctx, r.Method, trace.WithSpanKind(trace.SpanKindServer))
			r = r.WithContext(ctx)
		}

		ww := wrap(w, r)
		next.ServeHTTP(ww, r)

		route := Route(ctx, r.URL.Path)
		status := statusOf(ww)
		span.SetName(r.Method + " " + route)
		span.SetAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", status),
			attribute.Int("http.response.body.size", ww.BytesWritten()),
		)
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		if owned {
			span.End()
		}
	})
}
