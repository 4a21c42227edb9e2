// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package eventlog

import "fmt"

// handleOp dispatches one decoded TracingOp against the interpreter's span
// store. tid/now/trace are the thread, adjusted timestamp and (possibly
// absent) trace context the owning RuntimeEvent carried.
//
// SetParent, SetSpan, SetTrace, Tag and Event all require a known serial and
// panic if it is absent from the store: a well-formed producer never
// references a serial it hasn't begun, so this indicates a bug in the
// producer or the interpreter rather than a malformed message to skip.
func (in *Interpreter) handleOp(op TracingOp, tid uint32, now uint64, trace *TraceID) ([]*Span, []MetricSample) {
	switch op.Kind {
	case OpBeginSpan:
		return in.beginSpan(op.Serial, op.Name, tid, now, trace), nil

	case OpEndSpan:
		return in.endSpan(op.Serial, tid, now, trace), nil

	case OpSetParent:
		sid := in.requireKnown(op.Serial, "SetParent")
		in.store.Modify(sid, func(s *Span) {
			s.setParentID(op.ParentSpanID)
			s.setTraceID(op.ParentTraceID)
		})
		in.traceMap[tid] = op.ParentTraceID
		return nil, nil

	case OpSetSpan:
		sid := in.requireKnown(op.Serial, "SetSpan")
		in.store.Modify(sid, func(s *Span) {
			s.setSpanID(op.SpanID)
		})
		return nil, nil

	case OpSetTrace:
		sid := in.requireKnown(op.Serial, "SetTrace")
		in.store.Modify(sid, func(s *Span) {
			s.setTraceID(op.TraceID)
		})
		in.traceMap[tid] = op.TraceID
		return nil, nil

	case OpTag:
		sid := in.requireKnown(op.Serial, "Tag")
		in.store.Modify(sid, func(s *Span) {
			s.setTag(op.Key, op.Value)
		})
		return nil, nil

	case OpEvent:
		sid := in.requireKnown(op.Serial, "Event")
		in.store.Modify(sid, func(s *Span) {
			s.addEvent(now, op.Key, op.Value)
		})
		return nil, nil

	case OpMetric:
		return nil, []MetricSample{singleMetric(op.Instrument, op.Name, now, op.MetricValue)}

	default:
		return nil, nil
	}
}

func (in *Interpreter) requireKnown(serial Serial, opName string) SpanID {
	sid, ok := in.store.Lookup(serial)
	if !ok {
		panic(fmt.Sprintf("eventlog: %s referenced unknown serial %d", opName, serial))
	}
	return sid
}

// beginSpan opens a new span for serial. If serial already maps to a span
// (a Begin arrived for a serial whose previous span was never explicitly
// ended), that span is overwritten with the new Begin's metadata and
// emitted as if it had just finished — its finishedAt is left untouched,
// which is 0 for a span opened by an earlier Begin and the End's timestamp
// for a placeholder created by an orphan End — before a fresh span is
// created for the now-free serial.
func (in *Interpreter) beginSpan(serial Serial, name string, tid uint32, now uint64, trace *TraceID) []*Span {
	var emitted []*Span
	if sid, ok := in.store.Lookup(serial); ok {
		in.store.Modify(sid, func(s *Span) {
			s.overwriteForRecycledSerial(name, tid, now)
		})
		emitted = append(emitted, in.store.Emit(serial, sid))
	}

	ctxTrace := SentinelTraceID
	if trace != nil {
		ctxTrace = *trace
	}
	if parent, ok := in.store.CurrentSpan(tid); ok {
		in.store.BeginChild(serial, in.rng, name, tid, now, ctxTrace, parent)
	} else {
		in.store.BeginRoot(serial, in.rng, name, tid, now, ctxTrace)
	}

	if len(emitted) > 0 {
		in.health.SpansEmitted(len(emitted))
	}
	return emitted
}

// endSpan closes the span for serial. An End for an unknown serial creates a
// zero-start placeholder span that is not emitted; it only materializes on
// a later Begin or End reusing the same serial.
func (in *Interpreter) endSpan(serial Serial, tid uint32, now uint64, trace *TraceID) []*Span {
	sid, ok := in.store.Lookup(serial)
	if !ok {
		ctxTrace := SentinelTraceID
		if trace != nil {
			ctxTrace = *trace
		}
		var span *Span
		if parent, ok := in.store.CurrentSpan(tid); ok {
			_, span = in.store.BeginChild(serial, in.rng, "", tid, 0, ctxTrace, parent)
		} else {
			_, span = in.store.BeginRoot(serial, in.rng, "", tid, 0, ctxTrace)
		}
		span.finishedAt = now
		return nil
	}

	in.store.Modify(sid, func(s *Span) {
		s.finishedAt = now
	})
	span := in.store.Emit(serial, sid)
	in.health.SpansEmitted(1)
	return []*Span{span}
}
