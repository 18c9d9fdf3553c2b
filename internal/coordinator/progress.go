package coordinator

import (
	"maps"
	"sync"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusDone      Status = "done"
	StatusFailed    Status = "failed"
)

// Progress maps file keys to their upload status. The caller owns it and may
// read it from any goroutine while an upload runs. A nil *Progress ignores
// writes.
type Progress struct {
	mu       sync.RWMutex
	statuses map[string]Status
	onChange func(key string, status Status)
}

// NewProgress returns an empty store. onChange, when set, runs after every
// transition outside the store's lock.
func NewProgress(onChange func(key string, status Status)) *Progress {
	return &Progress{
		statuses: make(map[string]Status),
		onChange: onChange,
	}
}

func (p *Progress) Set(key string, status Status) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.statuses[key] = status
	p.mu.Unlock()

	if p.onChange != nil {
		p.onChange(key, status)
	}
}

func (p *Progress) setAll(keys []string, status Status) {
	for _, key := range keys {
		p.Set(key, status)
	}
}

func (p *Progress) Get(key string) (Status, bool) {
	if p == nil {
		return "", false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.statuses[key]
	return s, ok
}

// Snapshot returns a copy that is safe to keep.
func (p *Progress) Snapshot() map[string]Status {
	if p == nil {
		return map[string]Status{}
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return maps.Clone(p.statuses)
}

func (p *Progress) Counts() map[Status]int {
	counts := make(map[Status]int, 4)
	for _, s := range p.Snapshot() {
		counts[s]++
	}
	return counts
}

// Reset forgets every key.
func (p *Progress) Reset() {
	if p == nil {
		return
	}
	p.mu.Lock()
	clear(p.statuses)
	p.mu.Unlock()
}
