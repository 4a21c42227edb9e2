// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package eventlog

import (
	"fmt"

	"github.com/mpardalos/eventlog-tracer/internal/health"
	"github.com/mpardalos/eventlog-tracer/internal/log"
	evrand "github.com/mpardalos/eventlog-tracer/internal/rand"
)

// Interpreter is the single-threaded state machine that folds one
// RuntimeEvent at a time into the spans and metrics it produces, mutating
// its own state in place.
type Interpreter struct {
	origin uint64

	threadMap map[uint16]uint32  // cap -> thread
	traceMap  map[uint32]TraceID // thread -> trace

	store *Store

	gcStartedAt uint64

	rng    *evrand.Source
	health *health.Reporter
}

// NewInterpreter builds an interpreter whose origin timestamp is the
// wall-clock nanosecond reference the caller captured at startup.
func NewInterpreter(origin uint64, opts ...InterpreterOption) *Interpreter {
	cfg := &interpreterConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.rng == nil {
		cfg.rng = evrand.NewEntropic()
	}
	return &Interpreter{
		origin:    origin,
		threadMap: map[uint16]uint32{},
		traceMap:  map[uint32]TraceID{},
		store:     NewStore(),
		rng:       cfg.rng,
		health:    health.New(cfg.statsd),
	}
}

// Health returns the interpreter's observability reporter, for callers
// that want to read its running totals.
func (in *Interpreter) Health() *health.Reporter { return in.health }

// InFlightSpans returns the number of spans currently open, for tests and
// diagnostics.
func (in *Interpreter) InFlightSpans() int { return in.store.InFlightCount() }

// Process folds one runtime event into the interpreter's state, returning
// whatever spans and metrics that event produced.
func (in *Interpreter) Process(ev RuntimeEvent) ([]*Span, []MetricSample) {
	in.health.EventProcessed()
	defer func() { in.health.SpansInFlight(in.store.InFlightCount()) }()
	now := in.origin + ev.Timestamp

	var thread *uint32
	if ev.Cap != nil {
		if t, ok := in.threadMap[*ev.Cap]; ok {
			thread = &t
		}
	}
	var trace *TraceID
	if thread != nil {
		if tr, ok := in.traceMap[*thread]; ok {
			trace = &tr
		}
	}

	switch spec := ev.Spec.(type) {
	case WallClockTime:
		in.origin = spec.Sec*1e9 + uint64(spec.Nsec) - ev.Timestamp
		return nil, nil

	case CreateThread:
		tr := TraceID(in.origin)
		if trace != nil {
			tr = *trace
		}
		in.traceMap[spec.ThreadID] = tr
		return nil, []MetricSample{singleMetric(UpDownSumObserver, "threads", now, 1)}

	case RunThread:
		if ev.Cap == nil {
			return nil, nil
		}
		in.threadMap[*ev.Cap] = spec.ThreadID
		return nil, nil

	case StopThread:
		if ev.Cap == nil || !spec.Status.Terminal() {
			return nil, nil
		}
		delete(in.threadMap, *ev.Cap)
		delete(in.traceMap, spec.ThreadID)
		return nil, []MetricSample{singleMetric(UpDownSumObserver, "threads", now, -1)}

	case StartGC:
		in.gcStartedAt = now
		return nil, nil

	case EndGC:
		return in.endGC(now)

	case HeapLive:
		return nil, []MetricSample{singleMetric(ValueObserver, "heap_live_bytes", now, int64(spec.LiveBytes))}

	case HeapAllocated:
		if ev.Cap == nil {
			return nil, nil
		}
		name := fmt.Sprintf("cap_%d_heap_alloc_bytes", *ev.Cap)
		return nil, []MetricSample{singleMetric(ValueObserver, name, now, int64(spec.AllocBytes))}

	case UserMessage:
		op, ok, err := DecodeText(spec.Text)
		return in.dispatchUserOp(op, ok, err, thread, now, trace)

	case UserBinaryMessage:
		op, ok, err := DecodeBinary(spec.Data)
		return in.dispatchUserOp(op, ok, err, thread, now, trace)

	case Shutdown, CapDelete, CapsetDelete:
		// Logged once by the driver loop (spec §4.5 frames these as a
		// driver-loop concern, not a state-machine one); no-op here.
		return nil, nil

	default:
		return nil, nil
	}
}

func (in *Interpreter) dispatchUserOp(op TracingOp, ok bool, err error, thread *uint32, now uint64, trace *TraceID) ([]*Span, []MetricSample) {
	if err != nil {
		in.health.DecodeError()
		log.Error("eventlog: %s", err)
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	tid := FallbackThreadID
	if thread != nil {
		tid = *thread
	}
	return in.handleOp(op, tid, now, trace)
}

func (in *Interpreter) endGC(now uint64) ([]*Span, []MetricSample) {
	delta := now - in.gcStartedAt
	sid := SpanID(in.rng.Uint64())
	gcSpan := NewSpan(SpanContext{SpanID: sid, TraceID: TraceID(sid)}, nil, "gc", NoThread, in.gcStartedAt)
	gcSpan.finishedAt = now
	gcSpan.addGCNanos(delta)

	in.store.ApplyToAll(func(s *Span) {
		s.addGCNanos(delta)
	})

	in.health.SpansEmitted(1)
	return []*Span{gcSpan}, []MetricSample{singleMetric(SumObserver, "gc", now, int64(delta))}
}

func singleMetric(kind InstrumentKind, name string, ts uint64, value int64) MetricSample {
	return MetricSample{
		Instrument: Instrument{Kind: kind, Name: name},
		Points:     []DataPoint{{Timestamp: ts, Value: value}},
	}
}
