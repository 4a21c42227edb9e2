// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package eventlog

import (
	"encoding/binary"
	"fmt"
)

// EncodeBinary renders op using the binary ot2 framing. It is the mirror
// image of DecodeBinary so tests can assert DecodeBinary(EncodeBinary(op))
// round-trips.
func EncodeBinary(op TracingOp) ([]byte, error) {
	var body []byte
	var tag byte

	switch op.Kind {
	case OpBeginSpan:
		tag = tagBeginSpan
		body = appendUint64(nil, uint64(op.Serial))
		body = append(body, op.Name...)
	case OpEndSpan:
		tag = tagEndSpan
		body = appendUint64(nil, uint64(op.Serial))
	case OpTag, OpEvent:
		if op.Kind == OpTag {
			tag = tagTag
		} else {
			tag = tagEvent
		}
		k, v := []byte(op.Key), []byte(op.Value.String())
		body = appendUint64(nil, uint64(op.Serial))
		body = appendUint32(body, uint32(len(k)))
		body = appendUint32(body, uint32(len(v)))
		body = append(body, k...)
		body = append(body, v...)
	case OpSetParent:
		tag = tagSetParentContext
		body = appendUint64(nil, uint64(op.Serial))
		body = appendUint64(body, uint64(op.ParentSpanID))
		body = appendUint64(body, uint64(op.ParentTraceID))
	case OpSetTrace:
		tag = tagSetTraceID
		body = appendUint64(nil, uint64(op.Serial))
		body = appendUint64(body, uint64(op.TraceID))
	case OpSetSpan:
		tag = tagSetSpanID
		body = appendUint64(nil, uint64(op.Serial))
		body = appendUint64(body, uint64(op.SpanID))
	case OpMetric:
		if op.Instrument < 0 || op.Instrument > ValueObserver {
			return nil, fmt.Errorf("eventlog: instrument kind %d has no binary tag", op.Instrument)
		}
		tag = tagMetricCapture
		body = append(body, byte(op.Instrument))
		body = appendUint64(body, uint64(op.MetricValue))
		body = append(body, op.Name...)
	default:
		return nil, fmt.Errorf("eventlog: unknown op kind %d", op.Kind)
	}

	header := (uint32(tag) << 24) | (otelMagic & 0x00FFFFFF)
	out := make([]byte, 4, 4+len(body))
	binary.LittleEndian.PutUint32(out, header)
	out = append(out, body...)
	return out, nil
}

func appendUint64(b []byte, v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return append(b, buf[:]...)
}

func appendUint32(b []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(b, buf[:]...)
}
