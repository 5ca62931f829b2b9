package patch

import (
	"sync"

	"patch-router/internal/route"
	"patch-router/pkg/geometry"
)

// Action is one reversible document mutation. Actions run with the
// patch lock held and use the *Locked helpers only.
type Action interface {
	apply(p *Patch)
	revert(p *Patch)
}

// Transaction groups the actions of one user-visible change; a debounce
// drain cycle commits as a single transaction.
type Transaction struct {
	Name    string
	Actions []Action
}

// UndoManager keeps the undo and redo stacks of transactions.
type UndoManager struct {
	mu        sync.Mutex
	undoStack []Transaction
	redoStack []Transaction
}

// NewUndoManager creates an empty undo history.
func NewUndoManager() *UndoManager {
	return &UndoManager{}
}

// push records a committed transaction and invalidates the redo stack.
func (u *UndoManager) push(t Transaction) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.undoStack = append(u.undoStack, t)
	u.redoStack = nil
}

// CanUndo reports whether an undoable transaction exists.
func (u *UndoManager) CanUndo() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.undoStack) > 0
}

// CanRedo reports whether a redoable transaction exists.
func (u *UndoManager) CanRedo() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.redoStack) > 0
}

// Depth returns the number of undoable transactions.
func (u *UndoManager) Depth() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.undoStack)
}

func (u *UndoManager) popUndo() (Transaction, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := len(u.undoStack)
	if n == 0 {
		return Transaction{}, false
	}
	t := u.undoStack[n-1]
	u.undoStack = u.undoStack[:n-1]
	u.redoStack = append(u.redoStack, t)
	return t, true
}

func (u *UndoManager) popRedo() (Transaction, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := len(u.redoStack)
	if n == 0 {
		return Transaction{}, false
	}
	t := u.redoStack[n-1]
	u.redoStack = u.redoStack[:n-1]
	u.undoStack = append(u.undoStack, t)
	return t, true
}

// UndoLast reverts the most recent transaction. Returns false when the
// undo stack is empty.
func (p *Patch) UndoLast() bool {
	t, ok := p.undo.popUndo()
	if !ok {
		return false
	}
	p.mu.Lock()
	for i := len(t.Actions) - 1; i >= 0; i-- {
		t.Actions[i].revert(p)
	}
	p.mu.Unlock()

	p.setModified()
	p.Emit(EventConnectionsRerouted, nil)
	return true
}

// RedoLast re-applies the most recently undone transaction.
func (p *Patch) RedoLast() bool {
	t, ok := p.undo.popRedo()
	if !ok {
		return false
	}
	p.mu.Lock()
	for _, a := range t.Actions {
		a.apply(p)
	}
	p.mu.Unlock()

	p.setModified()
	p.Emit(EventConnectionsRerouted, nil)
	return true
}

// connectionState is the undoable slice of a connection: its segmented
// flag and persisted token.
type connectionState struct {
	segmented bool
	token     string
}

// pathStateAction swaps a connection between two persisted path states.
type pathStateAction struct {
	connID        int
	before, after connectionState
}

func (a *pathStateAction) apply(p *Patch)  { a.restore(p, a.after) }
func (a *pathStateAction) revert(p *Patch) { a.restore(p, a.before) }

func (a *pathStateAction) restore(p *Patch, s connectionState) {
	c := p.connectionLocked(a.connID)
	if c == nil {
		return // connection deleted since; nothing to restore
	}
	c.Segmented = s.segmented
	if s.segmented && s.token != "" {
		p.applyPathStateLocked(c, s.token)
		return
	}
	c.PathToken = ""
	c.Plan = route.DirectPlan(p.startPointLocked(c), p.endPointLocked(c))
}

// moveObjectAction swaps an object between two positions, rerouting the
// connections attached to it.
type moveObjectAction struct {
	objectID int
	from, to geometry.Rect
}

func (a *moveObjectAction) apply(p *Patch)  { a.place(p, a.to) }
func (a *moveObjectAction) revert(p *Patch) { a.place(p, a.from) }

func (a *moveObjectAction) place(p *Patch, bounds geometry.Rect) {
	obj := p.objectLocked(a.objectID)
	if obj == nil {
		return
	}
	obj.Bounds = bounds
	for _, c := range p.connections {
		if c.OutObject == a.objectID || c.InObject == a.objectID {
			p.rerouteLocked(c)
		}
	}
}
