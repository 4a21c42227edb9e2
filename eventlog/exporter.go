// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package eventlog

// Exporters are sinks with a single export operation and a shutdown hook.
// They are borrowed references: the driver never calls Shutdown itself,
// that remains the caller's responsibility.

// ExportResult is the outcome of one export call. The interpreter never
// inspects it; it exists for the exporter's own internal bookkeeping and
// for tests.
type ExportResult int

const (
	ExportSuccess ExportResult = iota
	ExportFailure
)

// SpanExporter receives finished spans in per-event batches; the
// interpreter does not buffer spans across events.
type SpanExporter interface {
	ExportSpans(spans []*Span) ExportResult
	Shutdown()
}

// MetricExporter receives metric samples in per-event batches.
type MetricExporter interface {
	ExportMetrics(samples []MetricSample) ExportResult
	Shutdown()
}
