package server

import (
	"sync"
	"time"
)

// Progress tracks how far a run has come. It satisfies the pipeline's run
// recorder so it can be fed alongside the metrics.
type Progress struct {
	mu           sync.Mutex
	started      time.Time
	total        int
	done         int
	skipped      int
	interactions map[string]int
}

// ProgressSnapshot is the JSON view of Progress.
type ProgressSnapshot struct {
	Inputs       int            `json:"inputs"`
	Done         int            `json:"done"`
	Skipped      int            `json:"skipped"`
	Interactions map[string]int `json:"interactions"`
	Elapsed      string         `json:"elapsed"`
}

// NewProgress starts tracking a run over total inputs.
func NewProgress(total int) *Progress {
	return &Progress{
		started:      time.Now(),
		total:        total,
		interactions: make(map[string]int),
	}
}

func (p *Progress) CountInteractions(outcome string, n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.interactions[outcome] += n
}

func (p *Progress) InputDone(skipped bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	if skipped {
		p.skipped++
	}
}

// Snapshot copies the current state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	counts := make(map[string]int, len(p.interactions))
	for k, v := range p.interactions {
		counts[k] = v
	}
	return ProgressSnapshot{
		Inputs:       p.total,
		Done:         p.done,
		Skipped:      p.skipped,
		Interactions: counts,
		Elapsed:      time.Since(p.started).Round(time.Second).String(),
	}
}
