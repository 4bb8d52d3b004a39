package scheduler

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"
)

type pendingCall struct {
	timer *time.Timer
	fn    func()
	seq   uint64
}

// Debouncer runs only the last function scheduled for a key once its delay
// has passed without another Schedule for the same key.
type Debouncer struct {
	mu      sync.Mutex
	calls   map[string]*pendingCall
	seq     uint64
	pending *atomic.Int64
}

func NewDebouncer() *Debouncer {
	return &Debouncer{
		calls:   make(map[string]*pendingCall),
		pending: atomic.NewInt64(0),
	}
}

// Schedule replaces any pending call for key. A delay of zero or less
// runs fn before Schedule returns.
func (d *Debouncer) Schedule(key string, delay time.Duration, fn func()) {
	d.mu.Lock()
	d.cancelLocked(key)
	if delay <= 0 {
		d.mu.Unlock()
		fn()
		return
	}

	d.seq++
	seq := d.seq
	call := &pendingCall{fn: fn, seq: seq}
	call.timer = time.AfterFunc(delay, func() { d.fire(key, seq) })
	d.calls[key] = call
	d.pending.Inc()
	d.mu.Unlock()
}

func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked(key)
}

// Flush runs every pending call now, in key order.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	calls := d.calls
	d.calls = make(map[string]*pendingCall)
	d.pending.Store(0)
	d.mu.Unlock()

	keys := make([]string, 0, len(calls))
	for k, c := range calls {
		c.timer.Stop()
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		calls[k].fn()
	}
}

// Pending is the number of calls waiting for their delay.
func (d *Debouncer) Pending() int {
	return int(d.pending.Load())
}

func (d *Debouncer) IsPending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.calls[key]
	return ok
}

func (d *Debouncer) fire(key string, seq uint64) {
	d.mu.Lock()
	call, ok := d.calls[key]
	if !ok || call.seq != seq {
		d.mu.Unlock()
		return
	}
	delete(d.calls, key)
	d.pending.Dec()
	d.mu.Unlock()

	call.fn()
}

func (d *Debouncer) cancelLocked(key string) {
	if call, ok := d.calls[key]; ok {
		call.timer.Stop()
		delete(d.calls, key)
		d.pending.Dec()
	}
}
