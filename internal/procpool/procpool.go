// Package procpool implements the fixed-size Worker Pool table owned
// exclusively by the supervisor (spec.md §3, §5 "single-writer").
package procpool

import "sync"

// AbsentPID is the sentinel a slot holds before its process is spawned. The
// pool does not reset a slot to AbsentPID when its process exits.
const AbsentPID = -1

// Record is one worker-pool entry: a process id (or AbsentPID) and the
// worker's role index (its position in the pool).
type Record struct {
	PID   int `json:"pid"`
	Index int `json:"index"`
}

// Pool is the fixed-size, ordered collection of worker records. It is
// mutated only by the supervisor (as it spawns each child) and is never
// shared with worker processes themselves.
type Pool struct {
	mu       sync.Mutex
	workers  []Record
	staticPID int
}

// New builds a Pool sized for n workers, all initially absent.
func New(n int) *Pool {
	workers := make([]Record, n)
	for i := range workers {
		workers[i] = Record{PID: AbsentPID, Index: i}
	}
	return &Pool{workers: workers, staticPID: AbsentPID}
}

// SetWorker records the pid spawned for worker index idx.
func (p *Pool) SetWorker(idx, pid int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.workers[idx].PID = pid
}

// SetStatic records the pid of the static responder.
func (p *Pool) SetStatic(pid int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.staticPID = pid
}

// AllPIDs returns every live pid in the pool (workers then the static
// responder), skipping absent slots. The supervisor uses this at teardown
// to know who to signal.
func (p *Pool) AllPIDs() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	pids := make([]int, 0, len(p.workers)+1)
	for _, w := range p.workers {
		if w.PID != AbsentPID {
			pids = append(pids, w.PID)
		}
	}
	if p.staticPID != AbsentPID {
		pids = append(pids, p.staticPID)
	}
	return pids
}

// Snapshot is a point-in-time copy safe to hand to the admin sidecar for
// reporting (spec.md's core never exposes this to clients).
type Snapshot struct {
	Workers   []Record `json:"workers"`
	StaticPID int      `json:"static_pid"`
}

// Snapshot returns a copy of the current pool state.
func (p *Pool) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	workers := make([]Record, len(p.workers))
	copy(workers, p.workers)
	return Snapshot{Workers: workers, StaticPID: p.staticPID}
}
