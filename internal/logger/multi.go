package logger

import "github.com/harrison/tidyspace/internal/models"

// Sink is the set of events a session emits.
type Sink interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogAction(rec models.ActionRecord)
	LogProgress(done, total int)
	LogSummary(result models.RunResult)
}

// Multi fans every event out to several sinks in order.
type Multi struct {
	sinks []Sink
}

// NewMulti creates a Multi over the non-nil sinks.
func NewMulti(sinks ...Sink) *Multi {
	m := &Multi{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

func (m *Multi) LogTrace(message string) {
	for _, s := range m.sinks {
		s.LogTrace(message)
	}
}

func (m *Multi) LogDebug(message string) {
	for _, s := range m.sinks {
		s.LogDebug(message)
	}
}

func (m *Multi) LogInfo(message string) {
	for _, s := range m.sinks {
		s.LogInfo(message)
	}
}

func (m *Multi) LogWarn(message string) {
	for _, s := range m.sinks {
		s.LogWarn(message)
	}
}

func (m *Multi) LogError(message string) {
	for _, s := range m.sinks {
		s.LogError(message)
	}
}

func (m *Multi) LogAction(rec models.ActionRecord) {
	for _, s := range m.sinks {
		s.LogAction(rec)
	}
}

func (m *Multi) LogProgress(done, total int) {
	for _, s := range m.sinks {
		s.LogProgress(done, total)
	}
}

func (m *Multi) LogSummary(result models.RunResult) {
	for _, s := range m.sinks {
		s.LogSummary(result)
	}
}

var (
	_ Sink = (*ConsoleLogger)(nil)
	_ Sink = (*FileLogger)(nil)
	_ Sink = (*NoOpLogger)(nil)
	_ Sink = (*Multi)(nil)
)
