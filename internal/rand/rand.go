// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

// Package rand provides the interpreter's span/trace-id generation seam.
// Every call site that needs fresh 64-bit identifiers goes through a Source
// value rather than calling math/rand directly, so tests can inject a
// deterministic seed the same way the teacher's own test helpers do
// (sampler_test.go, spancontext_test.go: rand.New(rand.NewSource(n))).
package rand

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
)

// Source draws 64-bit identifiers. Not safe for concurrent use; the
// interpreter is single-threaded (spec §5) so Source never needs a mutex.
type Source struct {
	r *mathrand.Rand
}

// New wraps an existing *math/rand.Rand, e.g. for deterministic tests:
//
//	New(mathrand.New(mathrand.NewSource(42)))
func New(r *mathrand.Rand) *Source {
	return &Source{r: r}
}

// NewSeeded returns a Source deterministically seeded with seed. Two
// Sources built from the same seed produce the same id sequence.
func NewSeeded(seed int64) *Source {
	return &Source{r: mathrand.New(mathrand.NewSource(seed))}
}

// NewEntropic returns a Source seeded from a high-entropy system source.
// This is the default the driver uses when no seed is injected; spec §9
// calls out that the original seeds weakly and recommends this instead.
func NewEntropic() *Source {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing is effectively unreachable on any real
		// platform; 1 is as good a constant seed as any here.
		return NewSeeded(1)
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]))
	return NewSeeded(seed)
}

// Uint64 draws 64 fresh bits.
func (s *Source) Uint64() uint64 {
	return s.r.Uint64()
}
