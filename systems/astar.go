package systems

import (
	"container/heap"
	"strings"

	"github.com/pthm-cable/demnuts/components"
)

// Bounds is the rectangular extent a search runs over.
type Bounds interface {
	Width() int
	Height() int
}

// Passable decides whether a search may enter a cell.
// The caller closes over either a static blocking set or an actor's own rule.
type Passable func(components.Point) bool

// CharGrid is a grid that exposes its static tile characters.
type CharGrid interface {
	Bounds
	At(p components.Point) byte
}

// Impassable returns a predicate that rejects any cell whose tile character is
// in blocking.
func Impassable(g CharGrid, blocking string) Passable {
	return func(p components.Point) bool {
		return !strings.ContainsRune(blocking, rune(g.At(p)))
	}
}

func inBounds(g Bounds, p components.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.Width() && p.Y < g.Height()
}

// Successors returns the in-bounds Moore neighbours of src accepted by
// passable, enumerated column by column (x outer, y inner). A nil predicate
// accepts every cell.
func Successors(g Bounds, src components.Point, passable Passable) []components.Point {
	out := make([]components.Point, 0, 8)
	return appendSuccessors(out, g, src, passable)
}

func appendSuccessors(out []components.Point, g Bounds, src components.Point, passable Passable) []components.Point {
	for x := src.X - 1; x <= src.X+1; x++ {
		for y := src.Y - 1; y <= src.Y+1; y++ {
			p := components.Point{X: x, Y: y}
			if p == src || !inBounds(g, p) {
				continue
			}
			if passable != nil && !passable(p) {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

// visitState records the first discovery of a cell.
type visitState struct {
	visited bool
	cost    float64
	parent  components.Point
}

// astarNode is a frontier entry.
type astarNode struct {
	p        components.Point
	priority float64
}

// nodeHeap orders the frontier by priority, then by point (X, then Y), so
// equal-priority searches are reproducible.
type nodeHeap []astarNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].p.Less(h[j].p)
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) { *h = append(*h, x.(astarNode)) }

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	*h = old[:n-1]
	return node
}

// Pathfinder runs A* searches, reusing its buffers between calls.
// A Pathfinder is not safe for concurrent use.
type Pathfinder struct {
	visited []visitState
	open    nodeHeap
	succ    []components.Point
}

// NewPathfinder creates a pathfinder with empty buffers.
func NewPathfinder() *Pathfinder {
	return &Pathfinder{succ: make([]components.Point, 0, 8)}
}

// FindPath searches from src towards dst and stops at the first popped cell
// within `within` of dst. The path starts at src and ends at that cell.
// Returns nil when the frontier is exhausted first.
func (pf *Pathfinder) FindPath(g Bounds, src, dst components.Point, passable Passable, within float64) []components.Point {
	w, h := g.Width(), g.Height()
	if !inBounds(g, src) {
		return nil
	}

	// Clear reusable data structures
	if cap(pf.visited) < w*h {
		pf.visited = make([]visitState, w*h)
	} else {
		pf.visited = pf.visited[:w*h]
		clear(pf.visited)
	}
	pf.open = pf.open[:0]

	idx := func(p components.Point) int { return p.Y*w + p.X }

	pf.visited[idx(src)] = visitState{visited: true, parent: src}
	heap.Push(&pf.open, astarNode{p: src})

	for pf.open.Len() > 0 {
		cur := heap.Pop(&pf.open).(astarNode)
		if components.Dist(cur.p, dst) <= within {
			return pf.reconstruct(src, cur.p, w)
		}

		curCost := pf.visited[idx(cur.p)].cost
		pf.succ = appendSuccessors(pf.succ[:0], g, cur.p, passable)
		for _, s := range pf.succ {
			vs := &pf.visited[idx(s)]
			if vs.visited {
				continue
			}
			vs.visited = true
			vs.parent = cur.p
			vs.cost = curCost + components.Dist(cur.p, s)
			heap.Push(&pf.open, astarNode{p: s, priority: vs.cost + components.Dist(s, dst)})
		}
	}
	return nil
}

// reconstruct walks parent links from end back to src.
func (pf *Pathfinder) reconstruct(src, end components.Point, w int) []components.Point {
	path := []components.Point{end}
	for p := end; p != src; {
		p = pf.visited[p.Y*w+p.X].parent
		path = append(path, p)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FindPath runs a one-off search with a fresh Pathfinder.
func FindPath(g Bounds, src, dst components.Point, passable Passable, within float64) []components.Point {
	return NewPathfinder().FindPath(g, src, dst, passable, within)
}
