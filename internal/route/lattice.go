package route

import (
	"container/heap"
	"math"

	"patch-router/pkg/geometry"
)

// Options controls the lattice search.
type Options struct {
	// Tolerance is the clearance in pixels kept between a path segment
	// and an obstacle rectangle.
	Tolerance float64

	// MinResolution and MaxResolution bound the number of lattice steps
	// between the endpoints. The search starts coarse and refines until
	// a path is found or MaxResolution is reached.
	MinResolution int
	MaxResolution int

	// MaxNodes caps the total node expansions across one FindPath call.
	MaxNodes int

	// OvershootSteps is how many lattice steps the grid extends beyond
	// the endpoint span on each side, so detours can leave the corridor.
	OvershootSteps int

	// MinSearchDistance is the endpoint distance below which the lattice
	// search is skipped and an elbow connector is used directly.
	MinSearchDistance float64
}

// DefaultOptions returns the tuning used by the canvas.
func DefaultOptions() Options {
	return Options{
		Tolerance:         3,
		MinResolution:     6,
		MaxResolution:     14,
		MaxNodes:          20000,
		OvershootSteps:    3,
		MinSearchDistance: 40,
	}
}

// FindPath computes an orthogonal path from start to end that avoids the
// obstacle rectangles. The caller excludes the two endpoint objects from
// the obstacle list. The result always starts at start and ends at end;
// when no clean lattice route exists within the search budget an elbow
// connector is returned instead. FindPath is a pure function of its
// inputs: identical calls yield identical plans.
func FindPath(start, end geometry.Point2D, obstacles []geometry.Rect, opts Options) PathPlan {
	if start == end {
		return PathPlan{start}
	}

	// Only obstacles near the endpoint span can block a route.
	region := geometry.SpanningRect(start, end).Expanded(overshootMargin(start, end, opts))
	nearby := make([]geometry.Rect, 0, len(obstacles))
	for _, r := range obstacles {
		if r.Expanded(opts.Tolerance).Intersects(region) {
			nearby = append(nearby, r)
		}
	}

	if plan, ok := quickPlan(start, end, nearby, opts.Tolerance); ok {
		return plan
	}

	// An endpoint embedded in an obstacle is pushed out through the
	// nearest edge before searching; the escape segment stays in the
	// final plan so the invariant endpoints are preserved.
	searchStart := nudgeOutside(start, nearby, opts.Tolerance)
	searchEnd := nudgeOutside(end, nearby, opts.Tolerance)

	distance := searchStart.Distance(searchEnd)
	if distance <= opts.MinSearchDistance {
		return ElbowPlan(start, end)
	}

	distX := math.Abs(searchStart.X - searchEnd.X)
	distY := math.Abs(searchStart.Y - searchEnd.Y)

	maxRes := clampInt(int(distance/10), opts.MinResolution, opts.MaxResolution)

	budget := opts.MaxNodes
	for res := opts.MinResolution; res <= maxRes && budget > 0; res++ {
		inc := geometry.Point2D{
			X: math.Max(1, distX/float64(res)),
			Y: math.Max(1, distY/float64(res)),
		}
		// Degenerate axes still need a usable lateral step.
		if distX < 1 {
			inc.X = inc.Y
		}
		if distY < 1 {
			inc.Y = inc.X
		}

		found, used := latticeSearch(searchStart, searchEnd, inc, nearby, opts, budget)
		budget -= used
		if found != nil {
			plan := found.Simplify()
			plan = snapEnd(plan, searchEnd)
			plan = attachEndpoints(plan, start, end)
			return plan.Simplify()
		}
	}

	return ElbowPlan(start, end)
}

// quickPlan tries the trivial candidates before any search: the straight
// line when the endpoints share an axis, then the horizontal-first and
// vertical-first single-elbow shapes. Horizontal-first is the documented
// preference order.
func quickPlan(start, end geometry.Point2D, obstacles []geometry.Rect, tol float64) (PathPlan, bool) {
	if start.X == end.X || start.Y == end.Y {
		if !geometry.LineIntersectsAny(geometry.NewLine(start, end), obstacles, tol) {
			return PathPlan{start, end}, true
		}
		return nil, false
	}

	candidates := [2]geometry.Point2D{
		{X: end.X, Y: start.Y},
		{X: start.X, Y: end.Y},
	}
	for _, bend := range candidates {
		if geometry.LineIntersectsAny(geometry.NewLine(start, bend), obstacles, tol) {
			continue
		}
		if geometry.LineIntersectsAny(geometry.NewLine(bend, end), obstacles, tol) {
			continue
		}
		return PathPlan{start, bend, end}, true
	}
	return nil, false
}

// latticeState identifies a lattice node together with the direction the
// path entered it from, so bend counting is part of the search state.
type latticeState struct {
	i, j int
	dir  int8 // 0 = none, 1 = horizontal, 2 = vertical
}

// latticeItem is a node in the search priority queue.
type latticeItem struct {
	state latticeState
	f     float64
	seq   int
	index int
}

// latticeQueue implements heap.Interface. Ties on f fall back to
// insertion order so the search is fully deterministic.
type latticeQueue []*latticeItem

func (q latticeQueue) Len() int { return len(q) }
func (q latticeQueue) Less(a, b int) bool {
	if q[a].f != q[b].f {
		return q[a].f < q[b].f
	}
	return q[a].seq < q[b].seq
}
func (q latticeQueue) Swap(a, b int) {
	q[a], q[b] = q[b], q[a]
	q[a].index = a
	q[b].index = b
}

func (q *latticeQueue) Push(x interface{}) {
	item := x.(*latticeItem)
	item.index = len(*q)
	*q = append(*q, item)
}

func (q *latticeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}

// latticeSearch runs a best-first search over the lattice anchored at
// start with the given increments. It returns the found plan (or nil)
// and the number of node expansions consumed.
func latticeSearch(start, end geometry.Point2D, inc geometry.Point2D, obstacles []geometry.Rect, opts Options, budget int) (PathPlan, int) {
	endI := int(math.Round((end.X - start.X) / inc.X))
	endJ := int(math.Round((end.Y - start.Y) / inc.Y))

	over := opts.OvershootSteps
	minI, maxI := minInt(0, endI)-over, maxInt(0, endI)+over
	minJ, maxJ := minInt(0, endJ)-over, maxInt(0, endJ)+over

	pointAt := func(i, j int) geometry.Point2D {
		return geometry.Point2D{X: start.X + float64(i)*inc.X, Y: start.Y + float64(j)*inc.Y}
	}
	heuristic := func(i, j int) float64 {
		return math.Abs(float64(endI-i))*inc.X + math.Abs(float64(endJ-j))*inc.Y
	}
	// Small enough that path length always dominates; among equal-length
	// paths, fewer bends win.
	bendPenalty := (inc.X + inc.Y) / 16

	startState := latticeState{i: 0, j: 0, dir: 0}
	gScore := map[latticeState]float64{startState: 0}
	cameFrom := make(map[latticeState]latticeState)
	visited := make(map[latticeState]bool)

	pq := &latticeQueue{}
	heap.Init(pq)
	seq := 0
	heap.Push(pq, &latticeItem{state: startState, f: heuristic(0, 0), seq: seq})

	// Neighbor order encodes the horizontal-first preference.
	type move struct {
		di, dj int
		dir    int8
	}
	moves := [4]move{
		{1, 0, 1}, {-1, 0, 1},
		{0, 1, 2}, {0, -1, 2},
	}

	expansions := 0
	for pq.Len() > 0 && expansions < budget {
		item := heap.Pop(pq).(*latticeItem)
		cur := item.state
		if visited[cur] {
			continue
		}
		visited[cur] = true
		expansions++

		if cur.i == endI && cur.j == endJ {
			plan := PathPlan{}
			s := cur
			for {
				plan = append(plan, pointAt(s.i, s.j))
				prev, ok := cameFrom[s]
				if !ok {
					break
				}
				s = prev
			}
			for a, b := 0, len(plan)-1; a < b; a, b = a+1, b-1 {
				plan[a], plan[b] = plan[b], plan[a]
			}
			return plan, expansions
		}

		curG := gScore[cur]
		curPt := pointAt(cur.i, cur.j)

		for _, m := range moves {
			ni, nj := cur.i+m.di, cur.j+m.dj
			if ni < minI || ni > maxI || nj < minJ || nj > maxJ {
				continue
			}
			next := latticeState{i: ni, j: nj, dir: m.dir}
			if visited[next] {
				continue
			}
			nextPt := pointAt(ni, nj)
			if geometry.LineIntersectsAny(geometry.NewLine(curPt, nextPt), obstacles, opts.Tolerance) {
				continue
			}

			stepCost := curPt.ManhattanDistance(nextPt)
			if cur.dir != 0 && cur.dir != m.dir {
				stepCost += bendPenalty
			}
			tentative := curG + stepCost
			if prev, ok := gScore[next]; !ok || tentative < prev {
				gScore[next] = tentative
				cameFrom[next] = cur
				seq++
				heap.Push(pq, &latticeItem{state: next, f: tentative + heuristic(ni, nj), seq: seq})
			}
		}
	}

	return nil, expansions
}

// nudgeOutside moves a point embedded in an obstacle out through the
// nearest edge of that obstacle's expanded bounds. A few passes handle
// the point landing inside a neighboring obstacle.
func nudgeOutside(p geometry.Point2D, obstacles []geometry.Rect, tol float64) geometry.Point2D {
	const maxPasses = 4
	for pass := 0; pass < maxPasses; pass++ {
		moved := false
		for _, r := range obstacles {
			grown := r.Expanded(tol)
			if !grown.Contains(p) {
				continue
			}
			left := p.X - grown.X
			right := grown.X + grown.Width - p.X
			top := p.Y - grown.Y
			bottom := grown.Y + grown.Height - p.Y

			nearest := math.Min(math.Min(left, right), math.Min(top, bottom))
			switch nearest {
			case left:
				p.X = grown.X - 1
			case right:
				p.X = grown.X + grown.Width + 1
			case top:
				p.Y = grown.Y - 1
			default:
				p.Y = grown.Y + grown.Height + 1
			}
			moved = true
			break
		}
		if !moved {
			return p
		}
	}
	return p
}

// snapEnd forces the plan to terminate exactly at end while keeping
// every segment axis-aligned: the final bend slides along its
// perpendicular to absorb the lattice rounding error.
func snapEnd(plan PathPlan, end geometry.Point2D) PathPlan {
	n := len(plan)
	if n == 0 {
		return PathPlan{end}
	}
	last := plan[n-1]
	if last == end {
		return plan
	}
	if n == 1 {
		return PathPlan{end}
	}

	prev := plan[n-2]
	switch {
	case prev.Y == last.Y && prev.Y == end.Y:
		plan[n-1] = end
	case prev.X == last.X && prev.X == end.X:
		plan[n-1] = end
	case prev.Y == last.Y: // horizontal final segment, end off-axis
		if n >= 3 {
			plan[n-2].Y = end.Y
			plan[n-1] = end
		} else {
			plan = PathPlan{prev, {X: end.X, Y: prev.Y}, end}
		}
	case prev.X == last.X: // vertical final segment, end off-axis
		if n >= 3 {
			plan[n-2].X = end.X
			plan[n-1] = end
		} else {
			plan = PathPlan{prev, {X: prev.X, Y: end.Y}, end}
		}
	default:
		plan = append(plan[:n-1], geometry.Point2D{X: end.X, Y: last.Y}, end)
	}
	return plan
}

// attachEndpoints restores the true endpoints around a plan computed
// from nudged search points.
func attachEndpoints(plan PathPlan, start, end geometry.Point2D) PathPlan {
	if len(plan) == 0 {
		return DirectPlan(start, end)
	}
	if plan[0] != start {
		plan = append(PathPlan{start}, plan...)
	}
	if plan[len(plan)-1] != end {
		plan = append(plan, end)
	}
	return plan
}

func overshootMargin(start, end geometry.Point2D, opts Options) float64 {
	span := math.Max(math.Abs(start.X-end.X), math.Abs(start.Y-end.Y))
	steps := float64(maxInt(opts.OvershootSteps, 1))
	if opts.MinResolution > 0 {
		return steps * math.Max(1, span/float64(opts.MinResolution))
	}
	return steps * 10
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
