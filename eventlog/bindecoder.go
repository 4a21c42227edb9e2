// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package eventlog

import (
	"encoding/binary"
	"encoding/hex"
	"unicode/utf8"
)

// otelMagic is the 24-bit marker identifying a binary tracing message
// header. It is defined by the runtime-side emitter; this constant must
// match whatever the paired encoder on the producing side uses.
const otelMagic uint32 = 0x32544F // little-endian bytes 'O','T','2'

// Binary message-type tags. Valid tags run 1..=tagMax.
const (
	tagBeginSpan byte = iota + 1
	tagEndSpan
	tagTag
	tagEvent
	tagSetParentContext
	tagSetTraceID
	tagSetSpanID
	tagMetricCapture

	tagMax = tagMetricCapture
)

// DecodeBinary parses one binary tracing message. If the header's magic
// does not match, the message is not a tracing event at all: ok is false
// and err is nil, exactly as for a non-"ot2" text message. A magic match
// with an out-of-range tag, or a body that doesn't fit the declared
// lengths, is a data error.
func DecodeBinary(data []byte) (op TracingOp, ok bool, err error) {
	if len(data) < 4 {
		return TracingOp{}, false, nil
	}
	header := binary.LittleEndian.Uint32(data[:4])
	magic := header & 0x00FFFFFF
	tag := byte(header >> 24)
	if magic != otelMagic {
		return TracingOp{}, false, nil
	}
	if tag < 1 || tag > tagMax {
		return TracingOp{}, false, binError("message-type tag out of range", data)
	}

	body := data[4:]
	switch tag {
	case tagBeginSpan:
		return decodeBinBeginSpan(body, data)
	case tagEndSpan:
		return decodeBinEndSpan(body, data)
	case tagTag:
		return decodeBinTagOrEvent(OpTag, body, data)
	case tagEvent:
		return decodeBinTagOrEvent(OpEvent, body, data)
	case tagSetParentContext:
		return decodeBinSetParent(body, data)
	case tagSetTraceID:
		return decodeBinSetTrace(body, data)
	case tagSetSpanID:
		return decodeBinSetSpan(body, data)
	case tagMetricCapture:
		return decodeBinMetric(body, data)
	default:
		// Unreachable: tag already range-checked above.
		return TracingOp{}, false, binError("message-type tag out of range", data)
	}
}

func binError(reason string, input []byte) error {
	return &DecodeError{Framing: "binary", Reason: reason, Input: snippet(input)}
}

func snippet(b []byte) string {
	const max = 32
	if len(b) > max {
		b = b[:max]
	}
	return hex.EncodeToString(b)
}

func decodeBinBeginSpan(body, raw []byte) (TracingOp, bool, error) {
	if len(body) < 8 {
		return TracingOp{}, false, binError("BEGIN_SPAN body too short", raw)
	}
	serial := binary.LittleEndian.Uint64(body[:8])
	name := body[8:]
	if !utf8.Valid(name) {
		return TracingOp{}, false, binError("BEGIN_SPAN name is not valid UTF-8", raw)
	}
	return BeginSpan(Serial(serial), string(name)), true, nil
}

func decodeBinEndSpan(body, raw []byte) (TracingOp, bool, error) {
	if len(body) != 8 {
		return TracingOp{}, false, binError("END_SPAN body must be exactly 8 bytes", raw)
	}
	serial := binary.LittleEndian.Uint64(body[:8])
	return EndSpan(Serial(serial)), true, nil
}

func decodeBinTagOrEvent(kind OpKind, body, raw []byte) (TracingOp, bool, error) {
	if len(body) < 16 {
		return TracingOp{}, false, binError("TAG/EVENT body too short", raw)
	}
	serial := binary.LittleEndian.Uint64(body[:8])
	klen := binary.LittleEndian.Uint32(body[8:12])
	vlen := binary.LittleEndian.Uint32(body[12:16])
	rest := body[16:]
	if uint64(klen)+uint64(vlen) != uint64(len(rest)) {
		return TracingOp{}, false, binError("TAG/EVENT key/value length mismatch", raw)
	}
	k := rest[:klen]
	v := rest[klen:]
	if !utf8.Valid(k) || !utf8.Valid(v) {
		return TracingOp{}, false, binError("TAG/EVENT key or value is not valid UTF-8", raw)
	}
	if kind == OpTag {
		return SetTag(Serial(serial), string(k), StringTag(string(v))), true, nil
	}
	return AddEvent(Serial(serial), string(k), StringTag(string(v))), true, nil
}

func decodeBinSetParent(body, raw []byte) (TracingOp, bool, error) {
	if len(body) != 24 {
		return TracingOp{}, false, binError("SET_PARENT_CONTEXT body must be exactly 24 bytes", raw)
	}
	serial := binary.LittleEndian.Uint64(body[:8])
	span := binary.LittleEndian.Uint64(body[8:16])
	trace := binary.LittleEndian.Uint64(body[16:24])
	return SetParent(Serial(serial), SpanID(span), TraceID(trace)), true, nil
}

func decodeBinSetTrace(body, raw []byte) (TracingOp, bool, error) {
	if len(body) != 16 {
		return TracingOp{}, false, binError("SET_TRACE_ID body must be exactly 16 bytes", raw)
	}
	serial := binary.LittleEndian.Uint64(body[:8])
	trace := binary.LittleEndian.Uint64(body[8:16])
	return SetTrace(Serial(serial), TraceID(trace)), true, nil
}

func decodeBinSetSpan(body, raw []byte) (TracingOp, bool, error) {
	if len(body) != 16 {
		return TracingOp{}, false, binError("SET_SPAN_ID body must be exactly 16 bytes", raw)
	}
	serial := binary.LittleEndian.Uint64(body[:8])
	span := binary.LittleEndian.Uint64(body[8:16])
	return SetSpan(Serial(serial), SpanID(span)), true, nil
}

func decodeBinMetric(body, raw []byte) (TracingOp, bool, error) {
	if len(body) < 9 {
		return TracingOp{}, false, binError("METRIC_CAPTURE body too short", raw)
	}
	instrTag := int8(body[0])
	if instrTag < 0 || instrTag > int8(ValueObserver) {
		return TracingOp{}, false, binError("METRIC_CAPTURE unknown instrument tag", raw)
	}
	value := int64(binary.LittleEndian.Uint64(body[1:9]))
	name := body[9:]
	if !utf8.Valid(name) {
		return TracingOp{}, false, binError("METRIC_CAPTURE name is not valid UTF-8", raw)
	}
	return Metric(InstrumentKind(instrTag), string(name), value), true, nil
}
