// Package timing records how long the load, apply and export operations take
// so the application can report them at shutdown.
package timing

import (
	"sort"
	"sync"
	"time"
)

// Stat summarises the recorded durations of one operation.
type Stat struct {
	Operation string
	Count     int
	Total     time.Duration
	Last      time.Duration
}

// Average is zero when nothing was recorded.
func (s Stat) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

type Tracker struct {
	mu    sync.Mutex
	stats map[string]*Stat
	now   func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		stats: make(map[string]*Stat),
		now:   time.Now,
	}
}

// Start begins timing operation. Calling the returned func records the
// elapsed time and returns it; later calls are ignored.
func (t *Tracker) Start(operation string) func() time.Duration {
	start := t.now()
	var once sync.Once
	var elapsed time.Duration
	return func() time.Duration {
		once.Do(func() {
			elapsed = t.now().Sub(start)
			t.Record(operation, elapsed)
		})
		return elapsed
	}
}

func (t *Tracker) Record(operation string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.stats[operation]
	if !ok {
		s = &Stat{Operation: operation}
		t.stats[operation] = s
	}
	s.Count++
	s.Total += d
	s.Last = d
}

// Get returns the stat for operation; ok is false if it never ran.
func (t *Tracker) Get(operation string) (Stat, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.stats[operation]
	if !ok {
		return Stat{Operation: operation}, false
	}
	return *s, true
}

// Snapshot returns every stat ordered by operation name.
func (t *Tracker) Snapshot() []Stat {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Stat, 0, len(t.stats))
	for _, s := range t.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out
}

// Reset drops the stats for operation, or all stats when operation is empty.
func (t *Tracker) Reset(operation string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if operation == "" {
		t.stats = make(map[string]*Stat)
		return
	}
	delete(t.stats, operation)
}
