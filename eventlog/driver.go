// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package eventlog

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/mpardalos/eventlog-tracer/internal/log"
)

// EOFPolicy controls handle-mode behavior once a read hits EOF.
type EOFPolicy int

const (
	// StopOnEOF terminates Run cleanly the first time a read returns EOF.
	StopOnEOF EOFPolicy = iota
	// SleepAndRetryOnEOF sleeps the configured poll interval and retries
	// indefinitely, for tailing a pipe that a producer is still writing to.
	SleepAndRetryOnEOF
)

// Source selects Run's ingestion mode. Exactly one of File or Handle
// should be set; NewFileSource/NewHandleSource build a well-formed value.
type Source struct {
	path   string
	file   FileDecoder
	handle io.Reader
	dec    Decoder
	policy EOFPolicy
}

// NewFileSource selects file mode: read path's entirety via dec, sort by
// timestamp, fold once.
func NewFileSource(path string, dec FileDecoder) Source {
	return Source{path: path, file: dec}
}

// NewHandleSource selects handle mode: tail r via dec, driving the
// four-state decoder protocol until EOF policy or a terminal decoder state.
func NewHandleSource(r io.Reader, dec Decoder, policy EOFPolicy) Source {
	return Source{handle: r, dec: dec, policy: policy}
}

// IsHandle reports whether path ends in ".pipe", the convention a caller
// can use to pick a mode from a bare path rather than building an
// explicit Source.
func IsHandle(path string) bool {
	return strings.HasSuffix(path, ".pipe")
}

// logFlushInterval is how often Run surfaces buffered Error diagnostics
// while it is still running, independent of the final flush on exit.
const logFlushInterval = time.Minute

// Run builds an Interpreter from opts, feeds it runtime events from source
// in the mode source selects, and forwards each event's emitted spans and
// metrics to the respective exporter as a single-batch call, never
// buffering across events. Buffered data-error diagnostics are flushed to
// the log periodically while Run is active and once more when it returns,
// regardless of how it exits.
func Run(origin uint64, spanExporter SpanExporter, metricExporter MetricExporter, source Source, opts ...RunOption) error {
	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger != nil {
		undo := log.UseLogger(cfg.logger)
		defer undo()
	}

	stopFlusher := log.StartFlusher(logFlushInterval)
	defer stopFlusher()
	defer log.Flush()

	in := NewInterpreter(origin, cfg.interpreter...)

	if source.file != nil {
		return runFile(in, spanExporter, metricExporter, source)
	}
	return runHandle(in, spanExporter, metricExporter, source, cfg)
}

func runFile(in *Interpreter, spanExporter SpanExporter, metricExporter MetricExporter, source Source) error {
	events, err := source.file.DecodeFile(source.path)
	if err != nil {
		return fmt.Errorf("eventlog: decode %s: %w", source.path, err)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})
	for _, ev := range events {
		spans, metrics := in.Process(ev)
		exportBatch(spanExporter, metricExporter, spans, metrics)
	}
	return nil
}

func runHandle(in *Interpreter, spanExporter SpanExporter, metricExporter MetricExporter, source Source, cfg *runConfig) error {
	buf := make([]byte, cfg.chunkSize)
	feed := []byte(nil)
	for {
		step := source.dec.Step(feed)
		feed = nil

		switch step.Kind {
		case StepProduce:
			handleProducedEvent(in, spanExporter, metricExporter, step.Event)

		case StepConsume:
			n, err := source.handle.Read(buf)
			if n > 0 {
				feed = append([]byte(nil), buf[:n]...)
				continue
			}
			if err == io.EOF {
				switch source.policy {
				case StopOnEOF:
					log.Info("eventlog: input exhausted, stopping")
					return nil
				case SleepAndRetryOnEOF:
					time.Sleep(cfg.pollInterval)
					continue
				}
			}
			if err != nil {
				return fmt.Errorf("eventlog: read input: %w", err)
			}
			time.Sleep(cfg.pollInterval)

		case StepDone:
			log.Info("eventlog: decoder reached end of stream")
			return nil

		case StepError:
			log.Error("eventlog: decoder error: %s (leftover %d bytes)", step.Err, len(step.Leftover))
			return fmt.Errorf("eventlog: decode: %w", step.Err)
		}
	}
}

func handleProducedEvent(in *Interpreter, spanExporter SpanExporter, metricExporter MetricExporter, ev RuntimeEvent) {
	switch ev.Spec.(type) {
	case Shutdown, CapDelete, CapsetDelete:
		log.Info("eventlog: shutdown-like event observed, continuing until EOF")
	}
	spans, metrics := in.Process(ev)
	// Metric emissions in handle mode are routed to the metric exporter
	// rather than dropped; see DESIGN.md.
	exportBatch(spanExporter, metricExporter, spans, metrics)
}

func exportBatch(spanExporter SpanExporter, metricExporter MetricExporter, spans []*Span, metrics []MetricSample) {
	if len(spans) > 0 && spanExporter != nil {
		spanExporter.ExportSpans(spans)
	}
	if len(metrics) > 0 && metricExporter != nil {
		metricExporter.ExportMetrics(metrics)
	}
}
