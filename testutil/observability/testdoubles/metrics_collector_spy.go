package testdoubles

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MetricsCollectorSpy captures metrics calls for testing.
// It implements both the plain and the contextual metrics collector interfaces
// and remembers which of the two variants was used.
type MetricsCollectorSpy struct {
	durationRecords []SpyDurationRecord
	counterRecords  []SpyCounterRecord
	valueRecords    []SpyValueRecord
	mu              sync.Mutex
}

// SpyDurationRecord represents a recorded duration metric call.
type SpyDurationRecord struct {
	Metric     string
	Duration   time.Duration
	Labels     map[string]string
	Contextual bool
}

// SpyCounterRecord represents a recorded counter increment call.
type SpyCounterRecord struct {
	Metric     string
	Labels     map[string]string
	Contextual bool
}

// SpyValueRecord represents a recorded value metric call.
type SpyValueRecord struct {
	Metric     string
	Value      float64
	Labels     map[string]string
	Contextual bool
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.addDuration(metric, duration, labels, false)
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.addCounter(metric, labels, false)
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.addValue(metric, value, labels, false)
}

func (s *MetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.addDuration(metric, duration, labels, true)
}

func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.addCounter(metric, labels, true)
}

func (s *MetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.addValue(metric, value, labels, true)
}

// GetDurationRecords returns a copy of all captured duration records.
func (s *MetricsCollectorSpy) GetDurationRecords() []SpyDurationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyDurationRecord(nil), s.durationRecords...)
}

// GetCounterRecords returns a copy of all captured counter records.
func (s *MetricsCollectorSpy) GetCounterRecords() []SpyCounterRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyCounterRecord(nil), s.counterRecords...)
}

// GetValueRecords returns a copy of all captured value records.
func (s *MetricsCollectorSpy) GetValueRecords() []SpyValueRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyValueRecord(nil), s.valueRecords...)
}

// HasDurationRecord checks if there is a duration record for metric whose labels contain all of labels.
func (s *MetricsCollectorSpy) HasDurationRecord(metric string, labels map[string]string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.durationRecords {
		if record.Metric == metric && containsLabels(record.Labels, labels) {
			return true
		}
	}

	return false
}

// HasCounterRecord checks if there is a counter record for metric whose labels contain all of labels.
func (s *MetricsCollectorSpy) HasCounterRecord(metric string, labels map[string]string) bool {
	return s.CountCounterRecords(metric, labels) > 0
}

// CountCounterRecords counts the counter records for metric whose labels contain all of labels.
func (s *MetricsCollectorSpy) CountCounterRecords(metric string, labels map[string]string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.counterRecords {
		if record.Metric == metric && containsLabels(record.Labels, labels) {
			count++
		}
	}

	return count
}

// HasValueRecord checks if there is a value record for metric with the given value.
func (s *MetricsCollectorSpy) HasValueRecord(metric string, value float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.valueRecords {
		if record.Metric == metric && record.Value == value {
			return true
		}
	}

	return false
}

// Reset clears all captured metric records.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durationRecords = nil
	s.counterRecords = nil
	s.valueRecords = nil
}

func (s *MetricsCollectorSpy) addDuration(metric string, duration time.Duration, labels map[string]string, contextual bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durationRecords = append(s.durationRecords, SpyDurationRecord{
		Metric:     metric,
		Duration:   duration,
		Labels:     maps.Clone(labels),
		Contextual: contextual,
	})
}

func (s *MetricsCollectorSpy) addCounter(metric string, labels map[string]string, contextual bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counterRecords = append(s.counterRecords, SpyCounterRecord{
		Metric:     metric,
		Labels:     maps.Clone(labels),
		Contextual: contextual,
	})
}

func (s *MetricsCollectorSpy) addValue(metric string, value float64, labels map[string]string, contextual bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.valueRecords = append(s.valueRecords, SpyValueRecord{
		Metric:     metric,
		Value:      value,
		Labels:     maps.Clone(labels),
		Contextual: contextual,
	})
}

func containsLabels(actual, expected map[string]string) bool {
	for key, value := range expected {
		if actual[key] != value {
			return false
		}
	}

	return true
}
