package voronoi

// arc is one parabolic section of the beach line, the locus of points
// equidistant from its site and the sweep line. Neighboring arcs are joined
// by breakpoints; leftBreak is nil for the leftmost arc, rightBreak for the
// rightmost.
type arc struct {
	site       Site
	leftBreak  *breakpoint
	rightBreak *breakpoint

	// The pending circle event that would squeeze this arc out, if any.
	// gen is bumped whenever the event is invalidated, so stale events
	// still sitting in the queue can be skipped lazily.
	event *circleEvent
	gen   uint64
}

func (a *arc) invalidateEvent() {
	if a.event != nil {
		a.gen++
		a.event = nil
	}
}
