// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package eventlog

import (
	"fmt"
	"strconv"
)

// EncodeText renders op using the textual ot2 grammar. It is the mirror
// image of DecodeText and exists primarily so tests can assert
// DecodeText(EncodeText(op)) round-trips.
func EncodeText(op TracingOp) (string, error) {
	switch op.Kind {
	case OpBeginSpan:
		return fmt.Sprintf("ot2 begin span %d %s", op.Serial, op.Name), nil
	case OpEndSpan:
		return fmt.Sprintf("ot2 end span %d", op.Serial), nil
	case OpTag:
		return fmt.Sprintf("ot2 set tag %d %s %s", op.Serial, op.Key, op.Value.String()), nil
	case OpEvent:
		return fmt.Sprintf("ot2 add event %d %s %s", op.Serial, op.Key, op.Value.String()), nil
	case OpSetTrace:
		return fmt.Sprintf("ot2 set traceid %d %x", op.Serial, uint64(op.TraceID)), nil
	case OpSetSpan:
		return fmt.Sprintf("ot2 set spanid %d %x", op.Serial, uint64(op.SpanID)), nil
	case OpSetParent:
		return fmt.Sprintf("ot2 set parent %d %x %x", op.Serial, uint64(op.ParentTraceID), uint64(op.ParentSpanID)), nil
	case OpMetric:
		token, err := textInstrumentToken(op.Instrument)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("ot2 metric %s %s %s", token, op.Name, strconv.FormatInt(op.MetricValue, 10)), nil
	default:
		return "", fmt.Errorf("eventlog: unknown op kind %d", op.Kind)
	}
}

func textInstrumentToken(k InstrumentKind) (string, error) {
	for tok, kind := range textInstrumentByToken {
		if kind == k {
			return tok, nil
		}
	}
	return "", fmt.Errorf("eventlog: no textual token for instrument kind %d", k)
}
