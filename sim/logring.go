package sim

import (
	"fmt"
	"sync"
	"time"
)

// LogEntry is one human-readable event.
type LogEntry struct {
	Tick    int
	Time    time.Time
	Message string
}

func (e LogEntry) String() string {
	return fmt.Sprintf("[%5d] %s", e.Tick, e.Message)
}

// LogRing keeps the most recent events. Safe for concurrent use so viewers
// can read while the simulation writes.
type LogRing struct {
	mu    sync.Mutex
	buf   []LogEntry
	next  int
	count int
}

// NewLogRing creates a ring holding at most size entries.
func NewLogRing(size int) *LogRing {
	if size < 1 {
		size = 1
	}
	return &LogRing{buf: make([]LogEntry, size)}
}

// Logf appends a formatted entry, evicting the oldest when full.
func (r *LogRing) Logf(tick int, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf[r.next] = LogEntry{Tick: tick, Time: time.Now(), Message: fmt.Sprintf(format, args...)}
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Entries returns the retained entries, oldest first.
func (r *LogRing) Entries() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]LogEntry, 0, r.count)
	start := (r.next - r.count + len(r.buf)) % len(r.buf)
	for i := 0; i < r.count; i++ {
		out = append(out, r.buf[(start+i)%len(r.buf)])
	}
	return out
}

// Len returns the number of retained entries.
func (r *LogRing) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
