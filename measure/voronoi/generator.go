package voronoi

import (
	"container/heap"
	"sort"

	"go.uber.org/zap"
)

// Edge is a finite Voronoi edge segment.
type Edge struct {
	From Point
	To   Point
}

// DelaunayEdge connects two sites whose Voronoi cells share an edge.
type DelaunayEdge struct {
	A Site
	B Site
}

// Triangle is a Delaunay triangle, one per circle event.
type Triangle struct {
	A Site
	B Site
	C Site
}

// Diagram is the output of a sweep: the Voronoi edges, the dual Delaunay
// triangulation, and the adjacency it induces. Neighbors maps a site's Addr
// to its Delaunay neighbors.
type Diagram struct {
	Sites         []Site
	Edges         []Edge
	Triangulation []DelaunayEdge
	Triangles     []Triangle
	Neighbors     map[int][]Site
	Min           Point
	Max           Point
}

// Parse runs the sweep over the given sites. The input is not modified;
// coincident sites are collapsed into one.
func Parse(sites []Site) *Diagram {
	return ParseLogged(sites, nil)
}

// ParseLogged is Parse with sweep statistics traced to the given logger at
// debug level. A nil logger disables tracing.
func ParseLogged(sites []Site, log *zap.Logger) *Diagram {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Diagram{Neighbors: make(map[int][]Site)}
	if len(sites) == 0 {
		return d
	}

	sorted := make([]Site, len(sites))
	copy(sorted, sites)
	sort.Slice(sorted, func(i, j int) bool {
		return siteBefore(sorted[i], sorted[j])
	})

	d.Min = Point{X: sorted[0].X, Y: sorted[0].Y}
	d.Max = d.Min
	for _, s := range sorted {
		if s.X < d.Min.X {
			d.Min.X = s.X
		}
		if s.X > d.Max.X {
			d.Max.X = s.X
		}
		if s.Y < d.Min.Y {
			d.Min.Y = s.Y
		}
		if s.Y > d.Max.Y {
			d.Max.Y = s.Y
		}
	}

	g := &generator{diagram: d, seen: make(map[[2]int]bool)}
	g.beach.delaunay = g.addTriangulationEdge
	g.beach.edge = func(from, to Point) {
		d.Edges = append(d.Edges, Edge{From: from, To: to})
	}

	g.run(sorted)
	g.beach.finish(d.Min, d.Max)

	log.Debug("voronoi sweep finished",
		zap.Int("sites", len(d.Sites)),
		zap.Int("edges", len(d.Edges)),
		zap.Int("delaunayEdges", len(d.Triangulation)),
		zap.Int("triangles", len(d.Triangles)))
	return d
}

type generator struct {
	diagram *Diagram
	beach   beachline
	circles circleQueue
	seen    map[[2]int]bool
}

func (g *generator) run(pending []Site) {
	heap.Init(&g.circles)
	for len(pending) > 0 || g.circles.Len() > 0 {
		circle := g.peekCircle()

		if len(pending) > 0 && (circle == nil ||
			pending[0].Y > circle.y ||
			(pending[0].Y == circle.y && pending[0].X < circle.x)) {

			s := pending[0]
			pending = pending[1:]
			if n := len(g.diagram.Sites); n > 0 {
				prev := g.diagram.Sites[n-1]
				if prev.X == s.X && prev.Y == s.Y {
					continue
				}
			}
			g.diagram.Sites = append(g.diagram.Sites, s)

			l, r := g.beach.insertArcFor(s, s.Y)
			g.attachCircleEvent(l, s.Y)
			g.attachCircleEvent(r, s.Y)
			continue
		}

		if circle == nil {
			return
		}
		heap.Pop(&g.circles)

		a := circle.arc
		g.diagram.Triangles = append(g.diagram.Triangles, Triangle{
			A: a.leftBreak.leftArc.site,
			B: a.site,
			C: a.rightBreak.rightArc.site,
		})
		l, r := g.beach.removeArc(a, circle.center)
		g.attachCircleEvent(l, circle.y)
		g.attachCircleEvent(r, circle.y)
	}
}

// peekCircle drops stale events off the top of the queue and returns the
// next live one, nil if the queue drains.
func (g *generator) peekCircle() *circleEvent {
	for g.circles.Len() > 0 {
		if g.circles[0].valid() {
			return g.circles[0]
		}
		heap.Pop(&g.circles)
	}
	return nil
}

// attachCircleEvent examines the triple centered on a and queues a circle
// event if its flanking breakpoints converge. Any event previously attached
// to a is invalidated first.
func (g *generator) attachCircleEvent(a *arc, sweep float64) {
	if a == nil || a.leftBreak == nil || a.rightBreak == nil {
		return
	}
	left := a.leftBreak.leftArc
	right := a.rightBreak.rightArc
	if left.site == right.site {
		return
	}
	ev := newCircleEvent(left, a, right, sweep)
	if ev == nil {
		return
	}
	a.invalidateEvent()
	ev.arc = a
	ev.gen = a.gen
	a.event = ev
	heap.Push(&g.circles, ev)
}

func (g *generator) addTriangulationEdge(a, b Site) {
	key := [2]int{a.Addr, b.Addr}
	if key[0] > key[1] {
		key[0], key[1] = key[1], key[0]
	}
	// Cocircular configurations can report the same pair twice.
	if g.seen[key] {
		return
	}
	g.seen[key] = true

	g.diagram.Triangulation = append(g.diagram.Triangulation,
		DelaunayEdge{A: a, B: b})
	g.diagram.Neighbors[a.Addr] = append(g.diagram.Neighbors[a.Addr], b)
	g.diagram.Neighbors[b.Addr] = append(g.diagram.Neighbors[b.Addr], a)
}
