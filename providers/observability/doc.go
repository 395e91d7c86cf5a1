// Package observability defines the tracing, metrics and logging interfaces
// used by the tool layer, together with the attribute and metric names they
// share.
//
// [Provider] composes [Tracer], [Metrics] and [Logger]. A provider and the
// active [Span] travel through a [context.Context] via [ContextWithProvider]
// and [ContextWithSpan]. [Noop] satisfies Provider and discards everything.
//
// The slogobs subpackage implements Provider on top of log/slog.
package observability
