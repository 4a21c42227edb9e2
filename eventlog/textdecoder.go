// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package eventlog

import (
	"fmt"
	"strconv"
	"strings"
)

// DecodeError reports a message that looked like a tracing message but did
// not parse. It is always logged and skipped, never a signal to abort.
type DecodeError struct {
	Framing string // "text" or "binary"
	Reason  string
	Input   string // best-effort snippet of the offending input
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("eventlog: %s decode error: %s (input: %q)", e.Framing, e.Reason, e.Input)
}

func textError(reason, input string) error {
	return &DecodeError{Framing: "text", Reason: reason, Input: input}
}

// instrument token mapping for the textual framing, chosen for symmetry
// with the Go identifiers in metric.go.
var textInstrumentByToken = map[string]InstrumentKind{
	"updown": UpDownSumObserver,
	"sum":    SumObserver,
	"value":  ValueObserver,
}

// DecodeText parses one textual tracing message. A message not starting
// with the "ot2" discriminator is ignored (ok=false, err=nil). A message
// starting with "ot2" that matches no known form is a data error.
func DecodeText(msg string) (op TracingOp, ok bool, err error) {
	fields := strings.Fields(msg)
	if len(fields) == 0 || fields[0] != "ot2" {
		return TracingOp{}, false, nil
	}
	rest := fields[1:]

	switch {
	case matches(rest, "begin", "span"):
		return decodeBeginSpan(rest[2:], msg)
	case matches(rest, "end", "span"):
		return decodeEndSpan(rest[2:], msg)
	case matches(rest, "set", "tag"):
		return decodeTagOrEvent(OpTag, rest[2:], msg)
	case matches(rest, "add", "event"):
		return decodeTagOrEvent(OpEvent, rest[2:], msg)
	case matches(rest, "set", "traceid"):
		return decodeSetTrace(rest[2:], msg)
	case matches(rest, "set", "spanid"):
		return decodeSetSpan(rest[2:], msg)
	case matches(rest, "set", "parent"):
		return decodeSetParent(rest[2:], msg)
	case len(rest) >= 1 && rest[0] == "metric":
		return decodeMetric(rest[1:], msg)
	default:
		return TracingOp{}, false, textError("unrecognised ot2 message", msg)
	}
}

func matches(fields []string, prefix ...string) bool {
	if len(fields) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if fields[i] != p {
			return false
		}
	}
	return true
}

func decodeBeginSpan(fields []string, raw string) (TracingOp, bool, error) {
	if len(fields) < 2 {
		return TracingOp{}, false, textError("begin span: missing serial or name", raw)
	}
	serial, err := parseSerial(fields[0])
	if err != nil {
		return TracingOp{}, false, textError("begin span: "+err.Error(), raw)
	}
	name := strings.Join(fields[1:], " ")
	return BeginSpan(serial, name), true, nil
}

func decodeEndSpan(fields []string, raw string) (TracingOp, bool, error) {
	if len(fields) != 1 {
		return TracingOp{}, false, textError("end span: expected exactly one serial", raw)
	}
	serial, err := parseSerial(fields[0])
	if err != nil {
		return TracingOp{}, false, textError("end span: "+err.Error(), raw)
	}
	return EndSpan(serial), true, nil
}

func decodeTagOrEvent(kind OpKind, fields []string, raw string) (TracingOp, bool, error) {
	if len(fields) < 2 {
		return TracingOp{}, false, textError("set tag/add event: missing serial, key or value", raw)
	}
	serial, err := parseSerial(fields[0])
	if err != nil {
		return TracingOp{}, false, textError("set tag/add event: "+err.Error(), raw)
	}
	key := fields[1]
	value := strings.Join(fields[2:], " ")
	if kind == OpTag {
		return SetTag(serial, key, StringTag(value)), true, nil
	}
	return AddEvent(serial, key, StringTag(value)), true, nil
}

func decodeSetTrace(fields []string, raw string) (TracingOp, bool, error) {
	if len(fields) != 2 {
		return TracingOp{}, false, textError("set traceid: expected serial and trace", raw)
	}
	serial, err := parseSerial(fields[0])
	if err != nil {
		return TracingOp{}, false, textError("set traceid: "+err.Error(), raw)
	}
	trace, err := parseHex64(fields[1])
	if err != nil {
		return TracingOp{}, false, textError("set traceid: "+err.Error(), raw)
	}
	return SetTrace(serial, TraceID(trace)), true, nil
}

func decodeSetSpan(fields []string, raw string) (TracingOp, bool, error) {
	if len(fields) != 2 {
		return TracingOp{}, false, textError("set spanid: expected serial and span", raw)
	}
	serial, err := parseSerial(fields[0])
	if err != nil {
		return TracingOp{}, false, textError("set spanid: "+err.Error(), raw)
	}
	span, err := parseHex64(fields[1])
	if err != nil {
		return TracingOp{}, false, textError("set spanid: "+err.Error(), raw)
	}
	return SetSpan(serial, SpanID(span)), true, nil
}

func decodeSetParent(fields []string, raw string) (TracingOp, bool, error) {
	if len(fields) != 3 {
		return TracingOp{}, false, textError("set parent: expected serial, trace and parent", raw)
	}
	serial, err := parseSerial(fields[0])
	if err != nil {
		return TracingOp{}, false, textError("set parent: "+err.Error(), raw)
	}
	trace, err := parseHex64(fields[1])
	if err != nil {
		return TracingOp{}, false, textError("set parent: "+err.Error(), raw)
	}
	parent, err := parseHex64(fields[2])
	if err != nil {
		return TracingOp{}, false, textError("set parent: "+err.Error(), raw)
	}
	return SetParent(serial, SpanID(parent), TraceID(trace)), true, nil
}

func decodeMetric(fields []string, raw string) (TracingOp, bool, error) {
	if len(fields) != 3 {
		return TracingOp{}, false, textError("metric: expected instrument, name and value", raw)
	}
	instr, ok := textInstrumentByToken[fields[0]]
	if !ok {
		return TracingOp{}, false, textError("metric: unknown instrument token "+fields[0], raw)
	}
	value, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return TracingOp{}, false, textError("metric: "+err.Error(), raw)
	}
	return Metric(instr, fields[1], value), true, nil
}

func parseSerial(s string) (Serial, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid serial %q: %w", s, err)
	}
	return Serial(n), nil
}

func parseHex64(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hex value %q: %w", s, err)
	}
	return n, nil
}
