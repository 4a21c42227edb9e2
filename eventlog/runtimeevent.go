// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package eventlog

// The event-log byte format is defined by the host profiler and consumed
// verbatim. RuntimeEvent and RuntimeEventSpec are the typed shape an
// external event-log decoder is assumed to already produce; this package
// only folds them, it never parses raw event-log bytes itself.

// RuntimeEvent is one decoded entry from the runtime's event log.
type RuntimeEvent struct {
	Timestamp uint64
	Cap       *uint16
	Spec      RuntimeEventSpec
}

// RuntimeEventSpec discriminates the kinds of runtime event the state
// machine dispatches on. Its marker method is unexported, so the set is
// closed to the types declared in this package; the state machine's type
// switch treats a spec it has no case for (such as a nil Spec) as a no-op.
type RuntimeEventSpec interface {
	isRuntimeEventSpec()
}

// WallClockTime recalibrates the origin timestamp.
type WallClockTime struct {
	Sec  uint64
	Nsec uint32
}

// CreateThread announces a new OS/runtime thread.
type CreateThread struct {
	ThreadID uint32
}

// RunThread associates the capability the event arrived on with a thread.
type RunThread struct {
	ThreadID uint32
}

// ThreadStatus is the reason a thread stopped running. GHC's RTS eventlog
// reports several non-terminal reasons a thread can stop running a
// capability without actually finishing; only Finished and Killed end the
// thread's life. The exact status set is an interpretation call.
type ThreadStatus int

const (
	ThreadYielding ThreadStatus = iota
	ThreadBlocked
	ThreadHeapOverflow
	ThreadStackOverflow
	ThreadFinished
	ThreadKilled
)

// Terminal reports whether this status ends the thread's life.
func (s ThreadStatus) Terminal() bool {
	return s == ThreadFinished || s == ThreadKilled
}

// StopThread reports a thread no longer running on its capability.
type StopThread struct {
	ThreadID uint32
	Status   ThreadStatus
}

// StartGC marks the beginning of a garbage-collection pause.
type StartGC struct{}

// EndGC marks the end of a garbage-collection pause.
type EndGC struct{}

// HeapLive reports total live heap bytes.
type HeapLive struct {
	LiveBytes uint64
}

// HeapAllocated reports bytes allocated on one capability since the last
// sample.
type HeapAllocated struct {
	AllocBytes uint64
}

// UserMessage is a textual user-tracing payload, decoded by DecodeText.
type UserMessage struct {
	Text string
}

// UserBinaryMessage is a binary user-tracing payload, decoded by
// DecodeBinary.
type UserBinaryMessage struct {
	Data []byte
}

// Shutdown, CapDelete and CapsetDelete are shutdown-like events the
// handle-mode driver logs but does not terminate on.
type Shutdown struct{}

type CapDelete struct {
	Cap uint16
}

type CapsetDelete struct {
	CapsetID uint32
}

func (WallClockTime) isRuntimeEventSpec()     {}
func (CreateThread) isRuntimeEventSpec()      {}
func (RunThread) isRuntimeEventSpec()         {}
func (StopThread) isRuntimeEventSpec()        {}
func (StartGC) isRuntimeEventSpec()           {}
func (EndGC) isRuntimeEventSpec()             {}
func (HeapLive) isRuntimeEventSpec()          {}
func (HeapAllocated) isRuntimeEventSpec()     {}
func (UserMessage) isRuntimeEventSpec()       {}
func (UserBinaryMessage) isRuntimeEventSpec() {}
func (Shutdown) isRuntimeEventSpec()          {}
func (CapDelete) isRuntimeEventSpec()         {}
func (CapsetDelete) isRuntimeEventSpec()      {}
