// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package eventlog

import (
	"fmt"

	evrand "github.com/mpardalos/eventlog-tracer/internal/rand"
)

// Store is the span store: in-flight spans indexed both by their stable
// SpanID and by the ephemeral Serial that correlates a BeginSpan with its
// End, plus a per-thread stack of "current span".
//
// Store holds all of the interpreter's mutable per-span state. InventSID and
// Emit panic when their preconditions do not hold; Create does no checking,
// and between InventSID and Create a serial maps to a SpanID that has no span
// yet. BeginRoot and BeginChild pair the two so that neither step is left
// half done.
type Store struct {
	spans      map[SpanID]*Span
	serial2sid map[Serial]SpanID
	thread2sid map[uint32]SpanID
}

// NewStore returns an empty span store.
func NewStore() *Store {
	return &Store{
		spans:      map[SpanID]*Span{},
		serial2sid: map[Serial]SpanID{},
		thread2sid: map[uint32]SpanID{},
	}
}

// Lookup translates an ephemeral serial to its stable span id.
func (st *Store) Lookup(serial Serial) (SpanID, bool) {
	sid, ok := st.serial2sid[serial]
	return sid, ok
}

// Get returns the in-flight span for sid.
func (st *Store) Get(sid SpanID) (*Span, bool) {
	s, ok := st.spans[sid]
	return s, ok
}

// CurrentSpan returns the top of the given thread's span stack, i.e. the
// span a newly-begun child on that thread should adopt as its parent.
func (st *Store) CurrentSpan(threadID uint32) (SpanID, bool) {
	sid, ok := st.thread2sid[threadID]
	return sid, ok
}

// InFlightCount returns the number of spans currently held, for the
// observability counters.
func (st *Store) InFlightCount() int { return len(st.spans) }

// InventSID draws a fresh SpanID for serial and records the serial2sid
// translation. Precondition: serial must not already be present.
func (st *Store) InventSID(serial Serial, rng *evrand.Source) SpanID {
	if _, ok := st.serial2sid[serial]; ok {
		panic(fmt.Sprintf("eventlog: InventSID called for already-known serial %d", serial))
	}
	sid := SpanID(rng.Uint64())
	st.serial2sid[serial] = sid
	return sid
}

// Create inserts span under sid and makes it the current span of its own
// thread. It does not look at, or preserve, whatever span was previously
// current on that thread — callers building a parent stack must capture
// the prior current span into the new span's parent before calling Create.
func (st *Store) Create(sid SpanID, span *Span) {
	st.spans[sid] = span
	st.thread2sid[span.ThreadID()] = sid
}

// Emit removes the span identified by serial/sid from the store and pops
// the thread stack. Precondition: serial2sid[serial] == sid and sid is a
// known span; violating it is a bug in the interpreter or its caller, not a
// data error, so Emit panics rather than returning an error.
func (st *Store) Emit(serial Serial, sid SpanID) *Span {
	got, ok := st.serial2sid[serial]
	if !ok || got != sid {
		panic(fmt.Sprintf("eventlog: Emit precondition violated: serial %d does not map to span %d", serial, sid))
	}
	span, ok := st.spans[sid]
	if !ok {
		panic(fmt.Sprintf("eventlog: Emit precondition violated: span %d is not in flight", sid))
	}
	delete(st.serial2sid, serial)
	delete(st.spans, sid)
	if parentID, ok := span.ParentID(); ok {
		st.thread2sid[span.ThreadID()] = parentID
	} else {
		delete(st.thread2sid, span.ThreadID())
	}
	return span
}

// ApplyToAll runs f against every currently in-flight span. Used by the
// state machine's EndGC handling to attribute stolen nanoseconds across
// every concurrently-live span.
func (st *Store) ApplyToAll(f func(*Span)) {
	for _, span := range st.spans {
		f(span)
	}
}

// Modify adjusts the span at sid in place if it is present; a missing sid
// is silently a no-op, since callers are expected to have already verified
// existence via Lookup.
func (st *Store) Modify(sid SpanID, f func(*Span)) {
	if span, ok := st.spans[sid]; ok {
		f(span)
	}
}

// BeginRoot invents a SpanID for serial and creates a parentless span under
// it, the way a trace's first span comes into being. It is invent_sid
// and create (§4.2) fused into the one-shot ergonomic the teacher's own
// newRootSpan offers over its bare span constructor.
func (st *Store) BeginRoot(serial Serial, rng *evrand.Source, operation string, threadID uint32, startedAt uint64, trace TraceID) (SpanID, *Span) {
	sid := st.InventSID(serial, rng)
	span := NewSpan(SpanContext{SpanID: sid, TraceID: trace}, nil, operation, threadID, startedAt)
	st.Create(sid, span)
	return sid, span
}

// BeginChild is BeginRoot's counterpart for a span with a known parent,
// mirroring the teacher's newChildSpan.
func (st *Store) BeginChild(serial Serial, rng *evrand.Source, operation string, threadID uint32, startedAt uint64, trace TraceID, parent SpanID) (SpanID, *Span) {
	sid := st.InventSID(serial, rng)
	span := NewSpan(SpanContext{SpanID: sid, TraceID: trace}, &parent, operation, threadID, startedAt)
	st.Create(sid, span)
	return sid, span
}
