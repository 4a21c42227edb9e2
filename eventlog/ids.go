// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package eventlog

// TraceID identifies the set of causally related spans a span belongs to.
// Zero is a legal value.
type TraceID uint64

// SpanID identifies a single span. Zero is a legal value.
type SpanID uint64

// Serial is the ephemeral, producer-chosen identifier that correlates a
// BeginSpan with its matching EndSpan and any Set*/Tag/Event calls in
// between. It is reused freely across the process lifetime; uniqueness is
// only required between one span's begin and its end.
type Serial uint64

// SentinelTraceID is used when a span ends (or is synthesized) without ever
// having been assigned a real trace context.
const SentinelTraceID TraceID = 42

// NoThread is the sentinel thread id used by spans with no owning OS/runtime
// thread, namely the synthetic GC span.
const NoThread uint32 = ^uint32(0)

// FallbackThreadID is used as the thread for a user-tracing message whose
// capability does not resolve to a known thread.
const FallbackThreadID uint32 = 1

// SpanContext pairs a span's own identity with the trace it belongs to.
type SpanContext struct {
	SpanID  SpanID
	TraceID TraceID
}
