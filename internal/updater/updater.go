package updater

import (
	"sync"
	"time"

	"patch-router/internal/patch"
)

// DefaultInterval is the debounce window for coalescing path updates.
const DefaultInterval = 50 * time.Millisecond

// DefaultQueueSize is the ring capacity.
const DefaultQueueSize = 4096

// Committer receives one deduplicated batch per drain cycle and applies
// it as a single undoable transaction. *patch.Patch implements it.
type Committer interface {
	CommitPathStates(updates []patch.PathUpdate)
}

// PathUpdater batches path-state tokens per connection so that the many
// reroutes of one drag gesture collapse into one committed change.
type PathUpdater struct {
	target   Committer
	queue    *ring
	interval time.Duration

	// Updates rejected by a full ring land here so the newest token per
	// connection is never lost; merged into the next drain.
	omu      sync.Mutex
	overflow []patch.PathUpdate

	timerMu sync.Mutex
	timer   *time.Timer
	closed  bool
}

// New creates a PathUpdater committing into target. Non-positive
// arguments select the defaults.
func New(target Committer, interval time.Duration, queueSize int) *PathUpdater {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &PathUpdater{
		target:   target,
		queue:    newRing(queueSize),
		interval: interval,
	}
}

// PushPathState enqueues a new token for the connection and restarts
// the debounce timer. A newer push for the same connection before the
// timer fires supersedes this one.
func (u *PathUpdater) PushPathState(connID int, token string) {
	update := patch.PathUpdate{ConnectionID: connID, Token: token}
	if !u.queue.push(update) {
		u.omu.Lock()
		replaced := false
		for i := range u.overflow {
			if u.overflow[i].ConnectionID == connID {
				u.overflow[i] = update
				replaced = true
				break
			}
		}
		if !replaced {
			u.overflow = append(u.overflow, update)
		}
		u.omu.Unlock()
	}
	u.restartTimer()
}

// PushAll enqueues a batch of updates under one debounce window.
func (u *PathUpdater) PushAll(updates []patch.PathUpdate) {
	for _, up := range updates {
		u.PushPathState(up.ConnectionID, up.Token)
	}
}

// Pending returns the number of queued updates before deduplication.
func (u *PathUpdater) Pending() int {
	u.omu.Lock()
	n := len(u.overflow)
	u.omu.Unlock()
	return u.queue.len() + n
}

// Flush drains the queue now, deduplicates per connection keeping the
// most recent token, and commits the batch as one transaction. The
// debounce timer normally calls this; tests and shutdown call it
// directly.
func (u *PathUpdater) Flush() {
	latest := make(map[int]string)
	var order []int

	record := func(up patch.PathUpdate) {
		if _, seen := latest[up.ConnectionID]; !seen {
			order = append(order, up.ConnectionID)
		}
		latest[up.ConnectionID] = up.Token
	}

	for {
		up, ok := u.queue.pop()
		if !ok {
			break
		}
		record(up)
	}
	u.omu.Lock()
	for _, up := range u.overflow {
		record(up)
	}
	u.overflow = nil
	u.omu.Unlock()

	if len(order) == 0 {
		return
	}
	batch := make([]patch.PathUpdate, 0, len(order))
	for _, id := range order {
		batch = append(batch, patch.PathUpdate{ConnectionID: id, Token: latest[id]})
	}
	u.target.CommitPathStates(batch)
}

// Close stops the timer and flushes any pending updates.
func (u *PathUpdater) Close() {
	u.timerMu.Lock()
	u.closed = true
	if u.timer != nil {
		u.timer.Stop()
	}
	u.timerMu.Unlock()
	u.Flush()
}

func (u *PathUpdater) restartTimer() {
	u.timerMu.Lock()
	defer u.timerMu.Unlock()
	if u.closed {
		return
	}
	if u.timer == nil {
		u.timer = time.AfterFunc(u.interval, u.Flush)
		return
	}
	u.timer.Reset(u.interval)
}
