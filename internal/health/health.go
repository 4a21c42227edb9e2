// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

// Package health reports the interpreter's own observability counters
// (spec §3: "counters (processed events, emitted spans) for observability")
// to an injected statsd client, mirroring the teacher's health-metric
// reporting (ddtrace/tracer/metrics_test.go: spans_started, spans_finished,
// queue.enqueued.traces, all pushed through a statsd.ClientInterface).
package health

import "github.com/DataDog/datadog-go/v5/statsd"

const (
	metricEventsProcessed = "eventlog.events_processed"
	metricSpansEmitted    = "eventlog.spans_emitted"
	metricSpansInFlight   = "eventlog.spans_in_flight"
	metricDecodeErrors    = "eventlog.decode_errors"
)

// Reporter pushes interpreter counters to statsd. The zero value behaves
// like New(nil).
type Reporter struct {
	client statsd.ClientInterface // nil means "don't send", counters still kept

	eventsProcessed uint64
	spansEmitted    uint64
	decodeErrors    uint64
}

// New returns a Reporter backed by client. A nil client makes every method
// track its running total without sending anything, so callers that don't
// care about statsd can pass nil.
func New(client statsd.ClientInterface) *Reporter {
	return &Reporter{client: client}
}

// EventProcessed records that one more runtime event was folded by the
// state machine.
func (r *Reporter) EventProcessed() {
	r.eventsProcessed++
	if r.client != nil {
		_ = r.client.Count(metricEventsProcessed, 1, nil, 1)
	}
}

// SpansEmitted records n spans handed to the span exporter in one batch.
func (r *Reporter) SpansEmitted(n int) {
	if n <= 0 {
		return
	}
	r.spansEmitted += uint64(n)
	if r.client != nil {
		_ = r.client.Count(metricSpansEmitted, int64(n), nil, 1)
	}
}

// SpansInFlight reports the current size of the live-span table.
func (r *Reporter) SpansInFlight(n int) {
	if r.client != nil {
		_ = r.client.Gauge(metricSpansInFlight, float64(n), nil, 1)
	}
}

// DecodeError records a data error (spec §7 severity 2) that was logged and
// skipped rather than acted on.
func (r *Reporter) DecodeError() {
	r.decodeErrors++
	if r.client != nil {
		_ = r.client.Count(metricDecodeErrors, 1, nil, 1)
	}
}

// EventsProcessed returns the running total, for tests and diagnostics.
func (r *Reporter) EventsProcessed() uint64 { return r.eventsProcessed }

// SpansEmittedTotal returns the running total, for tests and diagnostics.
func (r *Reporter) SpansEmittedTotal() uint64 { return r.spansEmitted }

// DecodeErrorsTotal returns the running total, for tests and diagnostics.
func (r *Reporter) DecodeErrorsTotal() uint64 { return r.decodeErrors }
