package state

import (
	"sync"
	"time"
)

// LogEntry holds a single log entry.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Label     string    `json:"label"`
	Message   string    `json:"message"`
}

// SnapshotData holds a point-in-time copy of AppState for JSON serialization.
type SnapshotData struct {
	Version        string     `json:"version"`
	Endpoint       string     `json:"endpoint"`
	StartedAt      time.Time  `json:"startedAt"`
	ActiveSessions int        `json:"activeSessions"`
	TotalSessions  uint64     `json:"totalSessions"`
	Submissions    uint64     `json:"submissions"`
	LiveCharts     int        `json:"liveCharts"`
	Logs           []LogEntry `json:"logs"`
}

// AppState holds process-wide diagnostics: session counters and a bounded
// buffer of recent log entries. Page state lives in the sessions themselves.
type AppState struct {
	mu             sync.RWMutex
	version        string
	endpoint       string
	startedAt      time.Time
	activeSessions int
	totalSessions  uint64
	submissions    uint64
	logs           []LogEntry
	maxLogs        int
}

// New creates a new AppState with a max log buffer size.
func New(maxLogs int, endpoint, version string) *AppState {
	return &AppState{
		version:   version,
		endpoint:  endpoint,
		startedAt: time.Now().UTC(),
		logs:      []LogEntry{},
		maxLogs:   maxLogs,
	}
}

// SessionOpened records a newly mounted page.
func (s *AppState) SessionOpened() {
	s.mu.Lock()
	s.activeSessions++
	s.totalSessions++
	s.mu.Unlock()
}

// SessionClosed records an unmounted page and the submissions it made.
func (s *AppState) SessionClosed(submissions uint64) {
	s.mu.Lock()
	if s.activeSessions > 0 {
		s.activeSessions--
	}
	s.submissions += submissions
	s.mu.Unlock()
}

// AddSubmissions adds submissions made outside a web session.
func (s *AppState) AddSubmissions(n uint64) {
	s.mu.Lock()
	s.submissions += n
	s.mu.Unlock()
}

// AddLog appends a log entry, trimming old entries if needed.
func (s *AppState) AddLog(level, label, message string) {
	s.mu.Lock()
	s.logs = append(s.logs, LogEntry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Label:     label,
		Message:   message,
	})
	if s.maxLogs > 0 && len(s.logs) > s.maxLogs {
		s.logs = s.logs[len(s.logs)-s.maxLogs:]
	}
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state. liveCharts is supplied by
// the caller, which owns the chart registry.
func (s *AppState) Snapshot(liveCharts int) SnapshotData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := make([]LogEntry, len(s.logs))
	copy(logs, s.logs)

	return SnapshotData{
		Version:        s.version,
		Endpoint:       s.endpoint,
		StartedAt:      s.startedAt,
		ActiveSessions: s.activeSessions,
		TotalSessions:  s.totalSessions,
		Submissions:    s.submissions,
		LiveCharts:     liveCharts,
		Logs:           logs,
	}
}
