// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package eventlog

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBinaryWrongMagicIsIgnored(t *testing.T) {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, 0xAABBCCDD)
	op, ok, err := DecodeBinary(data)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, TracingOp{}, op)
}

func TestDecodeBinaryTagOutOfRangeIsDataError(t *testing.T) {
	header := (uint32(200) << 24) | otelMagic
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, header)
	_, ok, err := DecodeBinary(data)
	assert.False(t, ok)
	require.Error(t, err)
	var de *DecodeError
	assert.ErrorAs(t, err, &de)
	assert.Equal(t, "binary", de.Framing)
}

func TestDecodeBinaryTooShortForHeaderIsIgnored(t *testing.T) {
	op, ok, err := DecodeBinary([]byte{0x01, 0x02})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, TracingOp{}, op)
}

func TestDecodeBinaryMetricCapture(t *testing.T) {
	op := Metric(SumObserver, "req", 42)
	data, err := EncodeBinary(op)
	require.NoError(t, err)

	decoded, ok, err := DecodeBinary(data)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, op, decoded)
}

func TestBinaryRoundTrip(t *testing.T) {
	ops := []TracingOp{
		BeginSpan(100, "foo"),
		EndSpan(100),
		SetTag(1, "k", StringTag("v")),
		AddEvent(1, "k", StringTag("v2")),
		SetTrace(1, 0x2a),
		SetSpan(1, 0xff),
		SetParent(1, 0xff, 0x2a),
		Metric(UpDownSumObserver, "threads", 1),
		Metric(SumObserver, "req", 42),
		Metric(ValueObserver, "heap_live_bytes", 1024),
	}
	for _, op := range ops {
		data, err := EncodeBinary(op)
		require.NoError(t, err)
		decoded, ok, err := DecodeBinary(data)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, op, decoded)
	}
}

func TestDecodeBinaryTagLengthMismatch(t *testing.T) {
	header := (uint32(tagTag) << 24) | otelMagic
	body := appendUint64(nil, 1)
	body = appendUint32(body, 5) // claims 5-byte key
	body = appendUint32(body, 0)
	body = append(body, []byte("ab")...) // only 2 bytes actually present

	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, header)
	data = append(data, body...)

	_, ok, err := DecodeBinary(data)
	assert.False(t, ok)
	require.Error(t, err)
}

func TestDecodeBinaryInvalidUTF8(t *testing.T) {
	header := (uint32(tagBeginSpan) << 24) | otelMagic
	body := appendUint64(nil, 1)
	body = append(body, 0xFF, 0xFE) // invalid UTF-8

	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, header)
	data = append(data, body...)

	_, ok, err := DecodeBinary(data)
	assert.False(t, ok)
	require.Error(t, err)
}
