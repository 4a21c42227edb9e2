// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package eventlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTextIgnoresNonOT2(t *testing.T) {
	op, ok, err := DecodeText("some other runtime log line")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, TracingOp{}, op)
}

func TestDecodeTextBeginSpan(t *testing.T) {
	op, ok, err := DecodeText("ot2 begin span 100 foo bar")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, OpBeginSpan, op.Kind)
	assert.Equal(t, Serial(100), op.Serial)
	assert.Equal(t, "foo bar", op.Name)
}

func TestDecodeTextEndSpan(t *testing.T) {
	op, ok, err := DecodeText("ot2 end span 100")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, OpEndSpan, op.Kind)
	assert.Equal(t, Serial(100), op.Serial)
}

func TestDecodeTextSetTag(t *testing.T) {
	op, ok, err := DecodeText("ot2 set tag 1 http.method GET")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, OpTag, op.Kind)
	assert.Equal(t, "http.method", op.Key)
	assert.Equal(t, "GET", op.Value.String())
}

func TestDecodeTextAddEvent(t *testing.T) {
	op, ok, err := DecodeText("ot2 add event 1 retry attempt 2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, OpEvent, op.Kind)
	assert.Equal(t, "retry", op.Key)
	assert.Equal(t, "attempt 2", op.Value.String())
}

func TestDecodeTextSetTraceID(t *testing.T) {
	op, ok, err := DecodeText("ot2 set traceid 1 2a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, OpSetTrace, op.Kind)
	assert.Equal(t, TraceID(42), op.TraceID)
}

func TestDecodeTextSetSpanID(t *testing.T) {
	op, ok, err := DecodeText("ot2 set spanid 1 ff")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, OpSetSpan, op.Kind)
	assert.Equal(t, SpanID(255), op.SpanID)
}

func TestDecodeTextSetParent(t *testing.T) {
	op, ok, err := DecodeText("ot2 set parent 1 2a ff")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, OpSetParent, op.Kind)
	assert.Equal(t, TraceID(42), op.ParentTraceID)
	assert.Equal(t, SpanID(255), op.ParentSpanID)
}

func TestDecodeTextMetric(t *testing.T) {
	op, ok, err := DecodeText("ot2 metric sum req 42")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, OpMetric, op.Kind)
	assert.Equal(t, SumObserver, op.Instrument)
	assert.Equal(t, "req", op.Name)
	assert.Equal(t, int64(42), op.MetricValue)
}

func TestDecodeTextUnrecognisedIsHardError(t *testing.T) {
	_, ok, err := DecodeText("ot2 frobnicate 1 2 3")
	assert.False(t, ok)
	require.Error(t, err)
	var de *DecodeError
	assert.ErrorAs(t, err, &de)
}

func TestTextRoundTrip(t *testing.T) {
	ops := []TracingOp{
		BeginSpan(100, "foo"),
		EndSpan(100),
		SetTag(1, "k", StringTag("v")),
		AddEvent(1, "k", StringTag("v v2")),
		SetTrace(1, 0x2a),
		SetSpan(1, 0xff),
		SetParent(1, 0xff, 0x2a),
		Metric(SumObserver, "req", 42),
	}
	for _, op := range ops {
		encoded, err := EncodeText(op)
		require.NoError(t, err)
		decoded, ok, err := DecodeText(encoded)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, op, decoded)
	}
}
