// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package health

import (
	"testing"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/stretchr/testify/assert"
)

type fakeClient struct {
	statsd.ClientInterface
	counts map[string]int64
	gauges map[string]float64
}

func newFakeClient() *fakeClient {
	return &fakeClient{counts: map[string]int64{}, gauges: map[string]float64{}}
}

func (f *fakeClient) Count(name string, value int64, _ []string, _ float64) error {
	f.counts[name] += value
	return nil
}

func (f *fakeClient) Gauge(name string, value float64, _ []string, _ float64) error {
	f.gauges[name] = value
	return nil
}

func TestReporterCounts(t *testing.T) {
	fc := newFakeClient()
	r := New(fc)

	r.EventProcessed()
	r.EventProcessed()
	r.SpansEmitted(3)
	r.SpansInFlight(7)
	r.DecodeError()

	assert.Equal(t, int64(2), fc.counts[metricEventsProcessed])
	assert.Equal(t, int64(3), fc.counts[metricSpansEmitted])
	assert.Equal(t, float64(7), fc.gauges[metricSpansInFlight])
	assert.Equal(t, int64(1), fc.counts[metricDecodeErrors])

	assert.Equal(t, uint64(2), r.EventsProcessed())
	assert.Equal(t, uint64(3), r.SpansEmittedTotal())
	assert.Equal(t, uint64(1), r.DecodeErrorsTotal())
}

func TestReporterNilClient(t *testing.T) {
	r := New(nil)
	assert.NotPanics(t, func() {
		r.EventProcessed()
		r.SpansEmitted(1)
		r.SpansInFlight(1)
		r.DecodeError()
	})
	assert.Equal(t, uint64(1), r.EventsProcessed())
}
