// Package voronoi computes Voronoi diagrams and Delaunay triangulations of
// point sets in the plane with Fortune's sweep-line algorithm. The sweep line
// moves in descending y; sites are processed top to bottom.
package voronoi

// Point is a position in the sweep plane.
type Point struct {
	X float64
	Y float64
}

// Site is an input point. Addr identifies the site in the caller's own
// indexing and is carried through the triangulation untouched.
type Site struct {
	X    float64
	Y    float64
	Addr int
}

// siteBefore orders sites for the descending sweep: larger y first, ties
// broken by smaller x.
func siteBefore(a, b Site) bool {
	if a.Y != b.Y {
		return a.Y > b.Y
	}
	return a.X < b.X
}
