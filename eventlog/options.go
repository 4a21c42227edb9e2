// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package eventlog

import (
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"

	"github.com/mpardalos/eventlog-tracer/internal/log"
	evrand "github.com/mpardalos/eventlog-tracer/internal/rand"
)

// interpreterConfig is assembled by InterpreterOption functions applied in
// NewInterpreter.
type interpreterConfig struct {
	rng    *evrand.Source
	statsd statsd.ClientInterface
}

// InterpreterOption configures a NewInterpreter call.
type InterpreterOption func(*interpreterConfig)

// WithRand injects the span/trace id generator. Without this option a new
// interpreter draws from a high-entropy source; tests that need
// deterministic span/trace ids should always set this.
func WithRand(rng *evrand.Source) InterpreterOption {
	return func(c *interpreterConfig) { c.rng = rng }
}

// WithStatsdClient routes the interpreter's observability counters to
// client instead of discarding them.
func WithStatsdClient(client statsd.ClientInterface) InterpreterOption {
	return func(c *interpreterConfig) { c.statsd = client }
}

// runConfig configures a Run call.
type runConfig struct {
	pollInterval time.Duration
	chunkSize    int
	interpreter  []InterpreterOption
	logger       log.Logger
}

// RunOption configures a Run call.
type RunOption func(*runConfig)

// WithLogger routes every diagnostic Run emits (data errors, shutdown-like
// events, decoder errors) through l instead of the package-level default,
// the same way the teacher's tracer.WithLogger installs a caller-supplied
// ddtrace.Logger for the lifetime of a Start call.
func WithLogger(l log.Logger) RunOption {
	return func(c *runConfig) { c.logger = l }
}

// WithPollInterval overrides the handle-mode poll-sleep duration (default
// 1ms).
func WithPollInterval(d time.Duration) RunOption {
	return func(c *runConfig) { c.pollInterval = d }
}

// WithChunkSize overrides the handle-mode read chunk size (default 4096
// bytes).
func WithChunkSize(n int) RunOption {
	return func(c *runConfig) { c.chunkSize = n }
}

// WithInterpreterOptions forwards options to the underlying Interpreter.
func WithInterpreterOptions(opts ...InterpreterOption) RunOption {
	return func(c *runConfig) { c.interpreter = append(c.interpreter, opts...) }
}

func defaultRunConfig() *runConfig {
	return &runConfig{
		pollInterval: time.Millisecond,
		chunkSize:    4096,
	}
}
