package operations

import (
	"fmt"
	"sync"
	"time"
)

// ProgressTracker counts finished insights within a job
type ProgressTracker struct {
	mu        sync.Mutex
	total     int
	current   int
	startTime time.Time
	now       func() time.Time
}

// NewProgressTracker creates a tracker for total units of work
func NewProgressTracker(total int) *ProgressTracker {
	return &ProgressTracker{total: total, startTime: time.Now(), now: time.Now}
}

// Set records the number of finished units
func (p *ProgressTracker) Set(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = current
}

// SetTotal adjusts the amount of work expected
func (p *ProgressTracker) SetTotal(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

// Percent returns progress as 0..100
func (p *ProgressTracker) Percent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.total <= 0 {
		return 100
	}
	return p.current * 100 / p.total
}

// ETA estimates the remaining time from the rate so far
func (p *ProgressTracker) ETA() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == 0 || p.total == 0 {
		return "calculating..."
	}
	elapsed := p.now().Sub(p.startTime)
	rate := float64(p.current) / elapsed.Seconds()
	if rate == 0 {
		return "calculating..."
	}

	remaining := float64(p.total-p.current) / rate
	switch {
	case remaining < 60:
		return fmt.Sprintf("%.0f seconds", remaining)
	case remaining < 3600:
		return fmt.Sprintf("%.1f minutes", remaining/60)
	default:
		return fmt.Sprintf("%.1f hours", remaining/3600)
	}
}

// Message renders "done/total insights" with the ETA while work remains
func (p *ProgressTracker) Message() string {
	p.mu.Lock()
	current, total := p.current, p.total
	p.mu.Unlock()

	if current >= total {
		return fmt.Sprintf("%d/%d insights", current, total)
	}
	return fmt.Sprintf("%d/%d insights, about %s left", current, total, p.ETA())
}
