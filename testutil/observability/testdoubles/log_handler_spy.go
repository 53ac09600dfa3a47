package testdoubles

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// LogHandlerSpy is a slog.Handler implementation that captures log records for testing.
type LogHandlerSpy struct {
	records     []slog.Record
	mu          sync.Mutex
	logToStdout bool
}

// NewLogHandlerSpy creates a new LogHandlerSpy.
// Switchable to log to stdout, which helps when debugging a failing test.
func NewLogHandlerSpy(logToStdout bool) *LogHandlerSpy {
	return &LogHandlerSpy{
		records:     make([]slog.Record, 0),
		logToStdout: logToStdout,
	}
}

// Handle implements slog.Handler.
func (s *LogHandlerSpy) Handle(ctx context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record.Clone())

	if s.logToStdout {
		_ = slog.NewJSONHandler(os.Stdout, nil).Handle(ctx, record)
	}

	return nil
}

// Enabled implements slog.Handler. All levels are captured.
func (s *LogHandlerSpy) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// WithAttrs implements slog.Handler.
func (s *LogHandlerSpy) WithAttrs(_ []slog.Attr) slog.Handler {
	return s
}

// WithGroup implements slog.Handler.
func (s *LogHandlerSpy) WithGroup(_ string) slog.Handler {
	return s
}

// GetRecordCount returns the number of captured log records.
func (s *LogHandlerSpy) GetRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// GetRecords returns a copy of all captured log records.
func (s *LogHandlerSpy) GetRecords() []slog.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]slog.Record, len(s.records))
	copy(records, s.records)

	return records
}

// Reset clears all captured log records.
func (s *LogHandlerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = s.records[:0]
}

// HasLog starts a fluent chain matching the first record with the given level and message.
func (s *LogHandlerSpy) HasLog(level slog.Level, message string) *LogRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.Level == level && record.Message == message {
			return &LogRecordMatcher{record: record, found: true}
		}
	}

	return &LogRecordMatcher{found: false}
}

// HasDebugLog starts a fluent chain for a debug-level record.
func (s *LogHandlerSpy) HasDebugLog(message string) *LogRecordMatcher {
	return s.HasLog(slog.LevelDebug, message)
}

// HasInfoLog starts a fluent chain for an info-level record.
func (s *LogHandlerSpy) HasInfoLog(message string) *LogRecordMatcher {
	return s.HasLog(slog.LevelInfo, message)
}

// HasWarnLog starts a fluent chain for a warn-level record.
func (s *LogHandlerSpy) HasWarnLog(message string) *LogRecordMatcher {
	return s.HasLog(slog.LevelWarn, message)
}

// HasErrorLog starts a fluent chain for an error-level record.
func (s *LogHandlerSpy) HasErrorLog(message string) *LogRecordMatcher {
	return s.HasLog(slog.LevelError, message)
}

// CountLogs returns how many records carry the given message, at any level.
func (s *LogHandlerSpy) CountLogs(message string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.records {
		if record.Message == message {
			count++
		}
	}

	return count
}

// LogRecordMatcher provides a fluent interface for checking log record attributes.
type LogRecordMatcher struct {
	record slog.Record
	found  bool
}

// WithAttr narrows the match to records that carry key.
func (m *LogRecordMatcher) WithAttr(key string) *LogRecordMatcher {
	if !m.found {
		return m
	}

	if _, ok := m.attr(key); !ok {
		m.found = false
	}

	return m
}

// WithAttrValue narrows the match to records whose key attribute renders as value.
func (m *LogRecordMatcher) WithAttrValue(key, value string) *LogRecordMatcher {
	if !m.found {
		return m
	}

	attr, ok := m.attr(key)
	if !ok || attr.Value.String() != value {
		m.found = false
	}

	return m
}

// WithDurationMS narrows the match to records with a non-negative duration_ms attribute.
func (m *LogRecordMatcher) WithDurationMS() *LogRecordMatcher {
	if !m.found {
		return m
	}

	attr, ok := m.attr("duration_ms")
	if !ok {
		m.found = false
		return m
	}

	switch attr.Value.Kind() {
	case slog.KindFloat64:
		m.found = attr.Value.Float64() >= 0
	case slog.KindInt64:
		m.found = attr.Value.Int64() >= 0
	default:
		m.found = false
	}

	return m
}

// Assert returns true if all conditions in the fluent chain were met.
func (m *LogRecordMatcher) Assert() bool {
	return m.found
}

func (m *LogRecordMatcher) attr(key string) (slog.Attr, bool) {
	var found slog.Attr
	ok := false

	m.record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == key {
			found = attr
			ok = true
			return false
		}

		return true
	})

	return found, ok
}
