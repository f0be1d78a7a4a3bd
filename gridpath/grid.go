// Package gridpath is a standalone shortest-path utility over a fixed grid
// of satellites. It operates on a static graph snapshot with no time
// windows and no concurrency, separate from the routing mesh.
package gridpath

import (
	"container/heap"
)

// Point is a grid coordinate.
type Point struct {
	X, Y int
}

const (
	// TypeCompute marks a compute satellite.
	TypeCompute = "CS"

	// IntraOrbitCost applies when two satellites share an orbital plane
	// (same Y); InterOrbitCost applies across planes.
	IntraOrbitCost = 1
	InterOrbitCost = 2
)

type Satellite struct {
	Pos             Point
	Type            string
	Direction       string
	ComputeCapacity int
}

type Grid struct {
	satellites map[Point]Satellite
}

func NewGrid() *Grid {
	return &Grid{satellites: make(map[Point]Satellite)}
}

func (g *Grid) Add(s Satellite) {
	g.satellites[s.Pos] = s
}

func (g *Grid) At(p Point) (Satellite, bool) {
	s, ok := g.satellites[p]
	return s, ok
}

func (g *Grid) Len() int {
	return len(g.satellites)
}

// Neighbors returns the occupied 4-neighborhood of p.
func (g *Grid) Neighbors(p Point) []Point {
	out := make([]Point, 0, 4)
	for _, d := range [4]Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		q := Point{p.X + d.X, p.Y + d.Y}
		if _, ok := g.satellites[q]; ok {
			out = append(out, q)
		}
	}
	return out
}

func stepCost(from, to Point) int {
	if from.Y == to.Y {
		return IntraOrbitCost
	}
	return InterOrbitCost
}

type pqItem struct {
	cost int
	pos  Point
	path []Point
}

type pathQueue []pqItem

func (q pathQueue) Len() int            { return len(q) }
func (q pathQueue) Less(i, j int) bool  { return q[i].cost < q[j].cost }
func (q pathQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x any)         { *q = append(*q, x.(pqItem)) }
func (q *pathQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// ShortestPath returns the cheapest path from source to target inclusive,
// or nil when no path exists.
func (g *Grid) ShortestPath(source, target Point) []Point {
	if _, ok := g.satellites[source]; !ok {
		return nil
	}
	q := &pathQueue{{cost: 0, pos: source}}
	visited := make(map[Point]bool)
	for q.Len() > 0 {
		item := heap.Pop(q).(pqItem)
		if item.pos == target {
			return append(item.path, item.pos)
		}
		if visited[item.pos] {
			continue
		}
		visited[item.pos] = true
		for _, next := range g.Neighbors(item.pos) {
			if !visited[next] {
				path := append(append([]Point(nil), item.path...), item.pos)
				heap.Push(q, pqItem{
					cost: item.cost + stepCost(item.pos, next),
					pos:  next,
					path: path,
				})
			}
		}
	}
	return nil
}

// ClosestCompute returns the nearest compute satellite to source, or false
// when none is reachable.
func (g *Grid) ClosestCompute(source Point) (Point, bool) {
	if _, ok := g.satellites[source]; !ok {
		return Point{}, false
	}
	q := &pathQueue{{cost: 0, pos: source}}
	visited := make(map[Point]bool)
	for q.Len() > 0 {
		item := heap.Pop(q).(pqItem)
		if visited[item.pos] {
			continue
		}
		visited[item.pos] = true
		if g.satellites[item.pos].Type == TypeCompute {
			return item.pos, true
		}
		for _, next := range g.Neighbors(item.pos) {
			if !visited[next] {
				heap.Push(q, pqItem{
					cost: item.cost + stepCost(item.pos, next),
					pos:  next,
				})
			}
		}
	}
	return Point{}, false
}
