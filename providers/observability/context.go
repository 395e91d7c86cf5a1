package observability

import "context"

type contextKey int

const (
	spanKey contextKey = iota
	providerKey
)

// SpanFromContext returns the span stored in ctx, or nil.
func SpanFromContext(ctx context.Context) Span {
	if ctx == nil {
		return nil
	}
	span, _ := ctx.Value(spanKey).(Span)
	return span
}

// ContextWithSpan returns a copy of ctx carrying span. A nil ctx is treated
// as context.Background().
func ContextWithSpan(ctx context.Context, span Span) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, spanKey, span)
}

// ProviderFromContext returns the provider stored in ctx, or nil.
func ProviderFromContext(ctx context.Context) Provider {
	if ctx == nil {
		return nil
	}
	p, _ := ctx.Value(providerKey).(Provider)
	return p
}

// ContextWithProvider returns a copy of ctx carrying p, so that code deeper
// in the call chain can log and record metrics without an explicit argument.
func ContextWithProvider(ctx context.Context, p Provider) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, providerKey, p)
}
