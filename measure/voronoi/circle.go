package voronoi

import "math"

// circleEvent marks the sweep position at which three consecutive arcs become
// cocircular and the middle one vanishes. The event fires when the sweep line
// reaches the bottom of the circumcircle.
type circleEvent struct {
	arc *arc
	gen uint64

	// Priority position: the lowest point of the circumcircle.
	x float64
	y float64

	center Point
}

// valid reports whether the event still refers to a live arc configuration.
func (e *circleEvent) valid() bool {
	return e.arc != nil && e.gen == e.arc.gen
}

const collinearEps = 1e-12

// newCircleEvent builds the circle event for the triple (left, middle,
// right), read left to right along the beach line. It returns nil when the
// breakpoints enclosing middle do not converge, when the three sites are
// collinear, or when the event would fire above the current sweep position.
func newCircleEvent(left, middle, right *arc, sweep float64) *circleEvent {
	s1 := right.site
	s2 := middle.site
	s3 := left.site

	// The enclosing breakpoints converge only if the sites make a right
	// turn when walked right, middle, left.
	if (s2.X-s1.X)*(s3.Y-s1.Y)-(s3.X-s1.X)*(s2.Y-s1.Y) <= 0 {
		return nil
	}

	a := s2.X - s1.X
	b := s2.Y - s1.Y
	c := s3.X - s1.X
	d := s3.Y - s1.Y
	e := a*(s1.X+s2.X) + b*(s1.Y+s2.Y)
	f := c*(s1.X+s3.X) + d*(s1.Y+s3.Y)
	g := 2 * (a*(s3.Y-s2.Y) - b*(s3.X-s2.X))
	if math.Abs(g) <= collinearEps {
		return nil
	}

	center := Point{
		X: (d*e - b*f) / g,
		Y: (a*f - c*e) / g,
	}
	radius := math.Hypot(center.X-s1.X, center.Y-s1.Y)
	eventY := center.Y - radius
	if eventY > sweep {
		return nil
	}

	return &circleEvent{
		x:      center.X,
		y:      eventY,
		center: center,
	}
}

// circleQueue is a max-heap on y (ties on smaller x), matching the
// descending sweep order.
type circleQueue []*circleEvent

func (q circleQueue) Len() int { return len(q) }

func (q circleQueue) Less(i, j int) bool {
	if q[i].y != q[j].y {
		return q[i].y > q[j].y
	}
	return q[i].x < q[j].x
}

func (q circleQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *circleQueue) Push(x interface{}) {
	*q = append(*q, x.(*circleEvent))
}

func (q *circleQueue) Pop() interface{} {
	old := *q
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return ev
}
