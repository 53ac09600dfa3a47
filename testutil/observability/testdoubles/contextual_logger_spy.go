package testdoubles

import (
	"context"
	"sync"
)

// ContextualLoggerSpy captures the calls of the ContextualLogger interface.
type ContextualLoggerSpy struct {
	records []ContextualLogRecord
	mu      sync.Mutex
}

// ContextualLogRecord is one captured call.
type ContextualLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// NewContextualLoggerSpy creates a new ContextualLoggerSpy.
func NewContextualLoggerSpy() *ContextualLoggerSpy {
	return &ContextualLoggerSpy{}
}

func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "debug", msg, args)
}

func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "info", msg, args)
}

func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "warn", msg, args)
}

func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "error", msg, args)
}

// GetRecords returns a copy of all captured calls.
func (s *ContextualLoggerSpy) GetRecords() []ContextualLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]ContextualLogRecord, len(s.records))
	copy(records, s.records)

	return records
}

// HasLog reports whether a call with level and message was captured.
func (s *ContextualLoggerSpy) HasLog(level, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.Level == level && record.Message == message {
			return true
		}
	}

	return false
}

// Arg returns the value logged for key in the first call with message.
func (s *ContextualLoggerSpy) Arg(message, key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.Message != message {
			continue
		}

		for i := 0; i+1 < len(record.Args); i += 2 {
			if record.Args[i] == key {
				return record.Args[i+1], true
			}
		}
	}

	return nil, false
}

func (s *ContextualLoggerSpy) record(ctx context.Context, level, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, ContextualLogRecord{
		Level:   level,
		Message: msg,
		Args:    append([]any(nil), args...),
		Context: ctx,
	})
}
