package feed

import (
	"maps"
	"sync"
)

// ProgressTracker records upload progress per local image key. Values are kept
// in 0..100 and never decrease for a key until it is cleared.
type ProgressTracker struct {
	mu    sync.Mutex
	items map[string]int
}

func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{items: make(map[string]int)}
}

func (p *ProgressTracker) Report(key string, percent int) {
	percent = max(0, min(100, percent))

	p.mu.Lock()
	defer p.mu.Unlock()
	if cur, ok := p.items[key]; ok && cur >= percent {
		return
	}
	p.items[key] = percent
}

// Reporter returns a callback bound to key, suitable for an Uploader.
func (p *ProgressTracker) Reporter(key string) func(int) {
	return func(percent int) { p.Report(key, percent) }
}

func (p *ProgressTracker) Get(key string) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.items[key]
	return v, ok
}

func (p *ProgressTracker) Snapshot() map[string]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return maps.Clone(p.items)
}

func (p *ProgressTracker) Clear(keys ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, k := range keys {
		delete(p.items, k)
	}
}
