// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package eventlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	evrand "github.com/mpardalos/eventlog-tracer/internal/rand"
)

func TestStoreInventAndCreateRoundTrip(t *testing.T) {
	st := NewStore()
	rng := evrand.NewSeeded(1)

	sid := st.InventSID(1, rng)
	span := NewSpan(SpanContext{SpanID: sid, TraceID: 7}, nil, "foo", 7, 10)
	st.Create(sid, span)

	got, ok := st.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, sid, got)

	cur, ok := st.CurrentSpan(7)
	require.True(t, ok)
	assert.Equal(t, sid, cur)

	assert.Equal(t, 1, st.InFlightCount())
}

func TestStoreEmitPopsThreadStack(t *testing.T) {
	st := NewStore()
	rng := evrand.NewSeeded(1)

	parentSid := st.InventSID(1, rng)
	st.Create(parentSid, NewSpan(SpanContext{SpanID: parentSid}, nil, "parent", 7, 0))

	childSid := st.InventSID(2, rng)
	st.Create(childSid, NewSpan(SpanContext{SpanID: childSid}, &parentSid, "child", 7, 10))

	emitted := st.Emit(2, childSid)
	assert.Equal(t, childSid, emitted.Context().SpanID)

	cur, ok := st.CurrentSpan(7)
	require.True(t, ok)
	assert.Equal(t, parentSid, cur)

	st.Emit(1, parentSid)
	_, ok = st.CurrentSpan(7)
	assert.False(t, ok)
	assert.Equal(t, 0, st.InFlightCount())
}

func TestStoreInventSIDPanicsOnKnownSerial(t *testing.T) {
	st := NewStore()
	rng := evrand.NewSeeded(1)
	st.InventSID(1, rng)
	assert.Panics(t, func() { st.InventSID(1, rng) })
}

func TestStoreEmitPanicsOnMismatch(t *testing.T) {
	st := NewStore()
	rng := evrand.NewSeeded(1)
	sid := st.InventSID(1, rng)
	st.Create(sid, NewSpan(SpanContext{SpanID: sid}, nil, "foo", 7, 0))
	assert.Panics(t, func() { st.Emit(1, sid+1) })
}

func TestStoreModifyIsNoopOnMissingSID(t *testing.T) {
	st := NewStore()
	assert.NotPanics(t, func() {
		st.Modify(SpanID(999), func(s *Span) { s.setTag("k", StringTag("v")) })
	})
}

func TestStoreBeginRoot(t *testing.T) {
	st := NewStore()
	rng := evrand.NewSeeded(1)

	sid, span := st.BeginRoot(1, rng, "root", 7, 10, 0x2a)

	_, ok := span.ParentID()
	assert.False(t, ok)
	assert.Equal(t, "root", span.Operation())
	assert.Equal(t, TraceID(0x2a), span.Context().TraceID)

	got, ok := st.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, sid, got)

	cur, ok := st.CurrentSpan(7)
	require.True(t, ok)
	assert.Equal(t, sid, cur)
}

func TestStoreBeginChild(t *testing.T) {
	st := NewStore()
	rng := evrand.NewSeeded(1)

	parentSid, _ := st.BeginRoot(1, rng, "parent", 7, 0, 0x2a)
	childSid, child := st.BeginChild(2, rng, "child", 7, 10, 0x2a, parentSid)

	parentID, ok := child.ParentID()
	require.True(t, ok)
	assert.Equal(t, parentSid, parentID)

	cur, ok := st.CurrentSpan(7)
	require.True(t, ok)
	assert.Equal(t, childSid, cur)
}

func TestStoreApplyToAll(t *testing.T) {
	st := NewStore()
	rng := evrand.NewSeeded(1)
	a := st.InventSID(1, rng)
	st.Create(a, NewSpan(SpanContext{SpanID: a}, nil, "a", 7, 0))
	b := st.InventSID(2, rng)
	st.Create(b, NewSpan(SpanContext{SpanID: b}, nil, "b", 8, 0))

	st.ApplyToAll(func(s *Span) { s.addGCNanos(50) })

	spanA, _ := st.Get(a)
	spanB, _ := st.Get(b)
	assert.Equal(t, uint64(50), spanA.NanosecondsSpentInGC())
	assert.Equal(t, uint64(50), spanB.NanosecondsSpentInGC())
}
