package server

import (
	"sync"

	"TrendScreener/internal/model"
)

// Latest holds the most recent ranking report. Safe for concurrent use.
type Latest struct {
	mu     sync.RWMutex
	report *model.Report
}

// Store replaces the current report.
func (l *Latest) Store(r *model.Report) {
	l.mu.Lock()
	l.report = r
	l.mu.Unlock()
}

// Load returns the current report, or nil before the first run.
func (l *Latest) Load() *model.Report {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.report
}
