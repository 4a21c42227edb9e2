// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package eventlog

import "strconv"

// Status is the outcome recorded on a finished span. The source only ever
// produces OK; the type is kept open for exporters that want to recognize
// a richer status later.
type Status int

const (
	StatusOK Status = iota
)

// TagValue is a string-or-int union used for both span tags and event
// values.
type TagValue struct {
	str   string
	num   int64
	isNum bool
}

// StringTag builds a string-valued tag/event value.
func StringTag(s string) TagValue { return TagValue{str: s} }

// IntTag builds an int-valued tag/event value.
func IntTag(n int64) TagValue { return TagValue{num: n, isNum: true} }

// IsInt reports whether the value holds an int rather than a string.
func (v TagValue) IsInt() bool { return v.isNum }

// String returns the string form of the value, formatting an int value
// with strconv if needed.
func (v TagValue) String() string {
	if !v.isNum {
		return v.str
	}
	return strconv.FormatInt(v.num, 10)
}

// Int returns the int form of the value; zero if the value is a string.
func (v TagValue) Int() int64 { return v.num }

// Event is one (timestamp, name, value) entry attached to a span. Events are
// stored most-recent-first; Events() on Span returns them in that storage
// order, leaving chronological reversal to exporters that want it.
type Event struct {
	Timestamp uint64
	Name      string
	Value     TagValue
}

// Span is a single finished (or, while held in the interpreter's store,
// still in-flight) interval in a distributed trace.
type Span struct {
	context  SpanContext
	parentID *SpanID
	operation string
	threadID  uint32
	startedAt uint64
	finishedAt uint64
	status    Status
	tags      map[string]TagValue
	events    []Event
	gcNanos   uint64
}

// NewSpan builds a span ready to be inserted into a Store. Callers outside
// this package only ever see *Span values returned from a Store or handed
// to an exporter; direct construction is for the state machine.
func NewSpan(ctx SpanContext, parentID *SpanID, operation string, threadID uint32, startedAt uint64) *Span {
	return &Span{
		context:   ctx,
		parentID:  parentID,
		operation: operation,
		threadID:  threadID,
		startedAt: startedAt,
		status:    StatusOK,
		tags:      map[string]TagValue{},
	}
}

// Context returns the span's (SpanID, TraceID) pair.
func (s *Span) Context() SpanContext { return s.context }

// ParentID returns the parent span id, if any.
func (s *Span) ParentID() (SpanID, bool) {
	if s.parentID == nil {
		return 0, false
	}
	return *s.parentID, true
}

// Operation returns the span's operation name.
func (s *Span) Operation() string { return s.operation }

// ThreadID returns the OS/runtime thread the span ran on, or NoThread.
func (s *Span) ThreadID() uint32 { return s.threadID }

// StartedAt returns the span's start timestamp in nanoseconds.
func (s *Span) StartedAt() uint64 { return s.startedAt }

// FinishedAt returns the span's end timestamp in nanoseconds.
func (s *Span) FinishedAt() uint64 { return s.finishedAt }

// Status returns the span's status.
func (s *Span) Status() Status { return s.status }

// NanosecondsSpentInGC returns the total time this span was attributed as
// GC-stolen.
func (s *Span) NanosecondsSpentInGC() uint64 { return s.gcNanos }

// Tag returns the value of tag k and whether it was set.
func (s *Span) Tag(k string) (TagValue, bool) {
	v, ok := s.tags[k]
	return v, ok
}

// Tags returns a copy of the span's tag map.
func (s *Span) Tags() map[string]TagValue {
	out := make(map[string]TagValue, len(s.tags))
	for k, v := range s.tags {
		out[k] = v
	}
	return out
}

// Events returns the span's events in storage order (most-recent-first).
func (s *Span) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// setSpanID rewrites the span's own identity without rekeying whatever map
// it is stored under: after this call the span's Context().SpanID no longer
// matches the key it is still stored under, and lookups continue to use the
// original id via serial2sid. Do not "fix" this without a deliberate design
// decision; see DESIGN.md.
func (s *Span) setSpanID(id SpanID) {
	s.context.SpanID = id
}

func (s *Span) setTraceID(id TraceID) {
	s.context.TraceID = id
}

func (s *Span) setParentID(id SpanID) {
	s.parentID = &id
}

func (s *Span) overwriteForRecycledSerial(name string, threadID uint32, startedAt uint64) {
	s.operation = name
	s.threadID = threadID
	s.startedAt = startedAt
}

func (s *Span) setTag(k string, v TagValue) {
	s.tags[k] = v
}

func (s *Span) addEvent(ts uint64, name string, v TagValue) {
	s.events = append([]Event{{Timestamp: ts, Name: name, Value: v}}, s.events...)
}

func (s *Span) addGCNanos(n uint64) {
	s.gcNanos += n
}
