package patch

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"patch-router/internal/route"
	"patch-router/pkg/geometry"
)

// ErrStaleConnection is returned when an operation targets a connection
// that no longer exists. Queued path updates treat it as a silent skip.
var ErrStaleConnection = errors.New("connection no longer exists")

// EventType identifies document events.
type EventType int

const (
	EventPatchLoaded EventType = iota
	EventPatchSaved
	EventModified
	EventObjectMoved
	EventConnectionsRerouted
	EventPathStateCommitted
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// PathUpdate pairs a connection with a freshly encoded path-state token
// awaiting commit.
type PathUpdate struct {
	ConnectionID int
	Token        string
}

// Patch is the canvas document: objects, connections, undo history.
type Patch struct {
	mu sync.RWMutex

	objects     []*Object
	connections []*Connection

	nextObjectID     int
	nextConnectionID int

	routeOpts route.Options
	undo      *UndoManager
	modified  bool

	listeners map[EventType][]EventListener
}

// New creates an empty patch routed with the given options.
func New(opts route.Options) *Patch {
	return &Patch{
		nextObjectID:     1,
		nextConnectionID: 1,
		routeOpts:        opts,
		undo:             NewUndoManager(),
		listeners:        make(map[EventType][]EventListener),
	}
}

// Undo returns the patch's undo manager.
func (p *Patch) Undo() *UndoManager {
	return p.undo
}

// On registers an event listener for the specified event type.
func (p *Patch) On(event EventType, listener EventListener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners[event] = append(p.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (p *Patch) Emit(event EventType, data interface{}) {
	p.mu.RLock()
	listeners := p.listeners[event]
	p.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Modified reports whether the document changed since the last save.
func (p *Patch) Modified() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.modified
}

func (p *Patch) setModified() {
	p.mu.Lock()
	p.modified = true
	p.mu.Unlock()
	p.Emit(EventModified, true)
}

// AddObject adds an object and returns it.
func (p *Patch) AddObject(title string, bounds geometry.Rect, inlets, outlets int) *Object {
	p.mu.Lock()
	obj := &Object{
		ID:         p.nextObjectID,
		Title:      title,
		Bounds:     bounds,
		NumInlets:  inlets,
		NumOutlets: outlets,
	}
	p.nextObjectID++
	p.objects = append(p.objects, obj)
	p.mu.Unlock()

	p.setModified()
	return obj
}

// Object returns the object with the given ID, or nil.
func (p *Patch) Object(id int) *Object {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.objectLocked(id)
}

func (p *Patch) objectLocked(id int) *Object {
	for _, o := range p.objects {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// Objects returns a snapshot of the object list.
func (p *Patch) Objects() []*Object {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*Object(nil), p.objects...)
}

// Connection returns the connection with the given ID, or nil.
func (p *Patch) Connection(id int) *Connection {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.connectionLocked(id)
}

func (p *Patch) connectionLocked(id int) *Connection {
	for _, c := range p.connections {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Connections returns a snapshot of the connection list.
func (p *Patch) Connections() []*Connection {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*Connection(nil), p.connections...)
}

// Connect creates a connection from an outlet to an inlet. The new
// connection starts unsegmented with a direct plan.
func (p *Patch) Connect(outObject, outletIdx, inObject, inletIdx int) (*Connection, error) {
	p.mu.Lock()
	src := p.objectLocked(outObject)
	dst := p.objectLocked(inObject)
	if src == nil || dst == nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("connect %d:%d -> %d:%d: unknown object", outObject, outletIdx, inObject, inletIdx)
	}
	if outletIdx < 0 || outletIdx >= src.NumOutlets {
		p.mu.Unlock()
		return nil, fmt.Errorf("connect: outlet %d out of range for object %d", outletIdx, outObject)
	}
	if inletIdx < 0 || inletIdx >= dst.NumInlets {
		p.mu.Unlock()
		return nil, fmt.Errorf("connect: inlet %d out of range for object %d", inletIdx, inObject)
	}
	for _, c := range p.connections {
		if c.OutObject == outObject && c.OutletIdx == outletIdx &&
			c.InObject == inObject && c.InletIdx == inletIdx {
			p.mu.Unlock()
			return nil, fmt.Errorf("connect: duplicate connection %d:%d -> %d:%d", outObject, outletIdx, inObject, inletIdx)
		}
	}

	conn := &Connection{
		ID:        p.nextConnectionID,
		OutObject: outObject,
		OutletIdx: outletIdx,
		InObject:  inObject,
		InletIdx:  inletIdx,
	}
	p.nextConnectionID++
	conn.Plan = route.DirectPlan(src.OutletPosition(outletIdx), dst.InletPosition(inletIdx))
	p.connections = append(p.connections, conn)
	p.mu.Unlock()

	p.setModified()
	return conn, nil
}

// Disconnect removes a connection.
func (p *Patch) Disconnect(id int) error {
	p.mu.Lock()
	idx := -1
	for i, c := range p.connections {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		p.mu.Unlock()
		return ErrStaleConnection
	}
	p.connections = append(p.connections[:idx], p.connections[idx+1:]...)
	p.mu.Unlock()

	p.setModified()
	return nil
}

// StartPoint returns the connection's source outlet position.
func (p *Patch) StartPoint(c *Connection) geometry.Point2D {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.startPointLocked(c)
}

func (p *Patch) startPointLocked(c *Connection) geometry.Point2D {
	if obj := p.objectLocked(c.OutObject); obj != nil {
		return obj.OutletPosition(c.OutletIdx)
	}
	return geometry.Point2D{}
}

// EndPoint returns the connection's destination inlet position.
func (p *Patch) EndPoint(c *Connection) geometry.Point2D {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.endPointLocked(c)
}

func (p *Patch) endPointLocked(c *Connection) geometry.Point2D {
	if obj := p.objectLocked(c.InObject); obj != nil {
		return obj.InletPosition(c.InletIdx)
	}
	return geometry.Point2D{}
}

// obstaclesLocked returns the bounds of every object except the
// connection's two endpoint objects.
func (p *Patch) obstaclesLocked(c *Connection) []geometry.Rect {
	obstacles := make([]geometry.Rect, 0, len(p.objects))
	for _, o := range p.objects {
		if o.ID == c.OutObject || o.ID == c.InObject {
			continue
		}
		obstacles = append(obstacles, o.Bounds)
	}
	return obstacles
}

// rerouteLocked rebuilds a connection's live plan from current geometry
// and returns the freshly encoded token for segmented connections.
func (p *Patch) rerouteLocked(c *Connection) (PathUpdate, bool) {
	start := p.startPointLocked(c)
	end := p.endPointLocked(c)
	if !c.Segmented {
		c.Plan = route.DirectPlan(start, end)
		return PathUpdate{}, false
	}
	c.Plan = route.FindPath(start, end, p.obstaclesLocked(c), p.routeOpts)
	return PathUpdate{ConnectionID: c.ID, Token: route.Encode(c.Plan)}, true
}

// Reroute recomputes one connection's plan. For segmented connections
// the new path-state token is returned for the debounced applier.
func (p *Patch) Reroute(id int) (PathUpdate, bool) {
	p.mu.Lock()
	c := p.connectionLocked(id)
	if c == nil {
		p.mu.Unlock()
		return PathUpdate{}, false
	}
	update, ok := p.rerouteLocked(c)
	p.mu.Unlock()

	if ok {
		p.Emit(EventConnectionsRerouted, []int{id})
	}
	return update, ok
}

// RerouteAll recomputes every connection's plan and returns the pending
// tokens of all segmented connections.
func (p *Patch) RerouteAll() []PathUpdate {
	p.mu.Lock()
	var updates []PathUpdate
	var ids []int
	for _, c := range p.connections {
		if update, ok := p.rerouteLocked(c); ok {
			updates = append(updates, update)
			ids = append(ids, c.ID)
		}
	}
	p.mu.Unlock()

	if len(ids) > 0 {
		p.Emit(EventConnectionsRerouted, ids)
	}
	return updates
}

// MoveObject shifts an object by delta and reroutes every connection
// touching it, plus any segmented connection whose path region the
// object moved into or out of. The move itself is one undoable action;
// the resulting path updates are returned for the debounced applier so
// they land in their own grouped transaction.
func (p *Patch) MoveObject(id int, delta geometry.Point2D) ([]PathUpdate, error) {
	p.mu.Lock()
	obj := p.objectLocked(id)
	if obj == nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("move: unknown object %d", id)
	}
	before := obj.Bounds
	obj.Bounds.X += delta.X
	obj.Bounds.Y += delta.Y
	after := obj.Bounds

	var updates []PathUpdate
	var ids []int
	for _, c := range p.connections {
		if !p.affectedByMoveLocked(c, id, before, after) {
			continue
		}
		update, ok := p.rerouteLocked(c)
		if ok {
			updates = append(updates, update)
		}
		ids = append(ids, c.ID)
	}
	p.undo.push(Transaction{
		Name:    "move object",
		Actions: []Action{&moveObjectAction{objectID: id, from: before, to: after}},
	})
	p.mu.Unlock()

	p.setModified()
	p.Emit(EventObjectMoved, id)
	if len(ids) > 0 {
		p.Emit(EventConnectionsRerouted, ids)
	}
	return updates, nil
}

// affectedByMoveLocked reports whether moving objectID from before to
// after requires rerouting connection c.
func (p *Patch) affectedByMoveLocked(c *Connection, objectID int, before, after geometry.Rect) bool {
	if c.OutObject == objectID || c.InObject == objectID {
		return true
	}
	if !c.Segmented || len(c.Plan) == 0 {
		return false
	}
	region := c.Plan.Bounds().Expanded(p.routeOpts.Tolerance)
	return region.Intersects(before) || region.Intersects(after)
}

// SetSegmented toggles a connection between direct and routed form as a
// single undoable change.
func (p *Patch) SetSegmented(id int, segmented bool) error {
	p.mu.Lock()
	c := p.connectionLocked(id)
	if c == nil {
		p.mu.Unlock()
		return ErrStaleConnection
	}
	if c.Segmented == segmented {
		p.mu.Unlock()
		return nil
	}
	before := connectionState{segmented: c.Segmented, token: c.PathToken}
	c.Segmented = segmented
	update, ok := p.rerouteLocked(c)
	if ok {
		c.PathToken = update.Token
	} else {
		c.PathToken = ""
	}
	after := connectionState{segmented: c.Segmented, token: c.PathToken}
	p.undo.push(Transaction{
		Name:    "segment connection",
		Actions: []Action{&pathStateAction{connID: id, before: before, after: after}},
	})
	p.mu.Unlock()

	p.setModified()
	p.Emit(EventConnectionsRerouted, []int{id})
	return nil
}

// DragSegment moves one segment of a segmented connection's plan
// perpendicular to its direction: horizontal segments move vertically,
// vertical ones horizontally. Endpoint segments gain an extra bend so
// the plan keeps starting and ending on the iolets. Recorded as one
// undoable change.
func (p *Patch) DragSegment(id, segIdx int, delta geometry.Point2D) error {
	p.mu.Lock()
	c := p.connectionLocked(id)
	if c == nil {
		p.mu.Unlock()
		return ErrStaleConnection
	}
	if !c.Segmented || len(c.Plan) < 2 || segIdx < 0 || segIdx >= len(c.Plan)-1 {
		p.mu.Unlock()
		return fmt.Errorf("drag: connection %d has no draggable segment %d", id, segIdx)
	}

	before := connectionState{segmented: c.Segmented, token: c.PathToken}
	plan := c.Plan.Clone()

	// Pin the endpoints by duplicating them into bends when the dragged
	// segment touches either end of the plan.
	if segIdx == 0 {
		plan = append(route.PathPlan{plan[0]}, plan...)
		segIdx++
	}
	if segIdx == len(plan)-2 {
		plan = append(plan, plan[len(plan)-1])
	}

	a, b := plan[segIdx], plan[segIdx+1]
	if a.Y == b.Y { // horizontal
		plan[segIdx].Y += delta.Y
		plan[segIdx+1].Y += delta.Y
	} else {
		plan[segIdx].X += delta.X
		plan[segIdx+1].X += delta.X
	}

	c.Plan = plan
	c.PathToken = route.Encode(plan)
	after := connectionState{segmented: c.Segmented, token: c.PathToken}
	p.undo.push(Transaction{
		Name:    "drag connection segment",
		Actions: []Action{&pathStateAction{connID: id, before: before, after: after}},
	})
	p.mu.Unlock()

	p.setModified()
	p.Emit(EventConnectionsRerouted, []int{id})
	return nil
}

// ApplyPathState decodes a token against the connection's current
// endpoints and installs it as the live plan and persisted state.
// A malformed token degrades the connection to unsegmented.
func (p *Patch) ApplyPathState(id int, token string) error {
	p.mu.Lock()
	c := p.connectionLocked(id)
	if c == nil {
		p.mu.Unlock()
		return ErrStaleConnection
	}
	p.applyPathStateLocked(c, token)
	p.mu.Unlock()
	return nil
}

func (p *Patch) applyPathStateLocked(c *Connection, token string) {
	start := p.startPointLocked(c)
	end := p.endPointLocked(c)
	plan, err := route.Decode(token, start, end)
	if err != nil {
		log.Printf("connection %d: %v; treating as unsegmented", c.ID, err)
		c.Segmented = false
		c.PathToken = ""
		c.Plan = plan
		return
	}
	c.PathToken = token
	c.Plan = plan
}

// CommitPathStates applies a drained batch of path updates, one per
// connection, wrapped in a single undo transaction. Updates for
// since-deleted connections are skipped silently.
func (p *Patch) CommitPathStates(updates []PathUpdate) {
	if len(updates) == 0 {
		return
	}

	p.mu.Lock()
	var actions []Action
	var ids []int
	for _, u := range updates {
		c := p.connectionLocked(u.ConnectionID)
		if c == nil {
			continue // stale reference
		}
		if c.PathToken == u.Token && c.Segmented {
			continue // redundant
		}
		before := connectionState{segmented: c.Segmented, token: c.PathToken}
		c.Segmented = true
		p.applyPathStateLocked(c, u.Token)
		after := connectionState{segmented: c.Segmented, token: c.PathToken}
		actions = append(actions, &pathStateAction{connID: u.ConnectionID, before: before, after: after})
		ids = append(ids, u.ConnectionID)
	}
	if len(actions) > 0 {
		p.undo.push(Transaction{Name: "update connection paths", Actions: actions})
	}
	p.mu.Unlock()

	if len(actions) > 0 {
		p.setModified()
		p.Emit(EventPathStateCommitted, ids)
	}
}
