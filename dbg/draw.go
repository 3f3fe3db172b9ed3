package dbg

import (
	"fmt"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/geo/r3"
	"github.com/logrusorgru/aurora"
	imgcat "github.com/martinlindhe/imgcat/lib"

	"github.com/cosmoscout/csp-measurement-tools/measure/voronoi"
)

// Padding around the shape so the outer box edges stay visible
const drawPadding = 100

// DrawDiagram renders a sweep result and prints it in the terminal (iTerm
// only) for debugging. Voronoi edges are green, the triangulation blue,
// sites white with their insertion index.
func DrawDiagram(d *voronoi.Diagram, scale float64) {
	width := int(scale*(d.Max.X-d.Min.X)) + drawPadding*2
	height := int(scale*(d.Max.Y-d.Min.Y)) + drawPadding*2
	c := gg.NewContext(width, height)
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()
	// Flip the context so the origin is at the bottom left
	c.Translate(0, float64(height))
	c.Scale(1, -1)
	c.Translate(drawPadding, drawPadding)
	c.Scale(scale, scale)
	c.Translate(-d.Min.X, -d.Min.Y)

	c.SetLineWidth(2)
	c.SetRGB(0, 1, 0)
	for _, e := range d.Edges {
		c.DrawLine(e.From.X, e.From.Y, e.To.X, e.To.Y)
	}
	c.Stroke()

	c.SetRGB(0.3, 0.4, 1)
	for _, e := range d.Triangulation {
		c.DrawLine(e.A.X, e.A.Y, e.B.X, e.B.Y)
	}
	c.Stroke()

	c.SetRGB(1, 1, 1)
	for _, s := range d.Sites {
		c.DrawCircle(s.X, s.Y, 3/scale)
	}
	c.Fill()
	for _, s := range d.Sites {
		// Text has to be drawn in native coordinates or it flips with the
		// context.
		x, y := c.TransformPoint(s.X, s.Y)
		c.Push()
		c.Identity()
		c.DrawStringAnchored(fmt.Sprintf("%d", s.Addr), x, y-8, 0.5, 0.5)
		c.Pop()
	}

	c.SavePNG("/tmp/voronoi.png")
	imgcat.CatFile("/tmp/voronoi.png", os.Stdout)
	fmt.Printf("%s %d sites, %d voronoi edges, %d triangulation edges\n",
		aurora.Green("diagram:"), len(d.Sites), len(d.Edges), len(d.Triangulation))
}

// DrawMesh projects the refined 3d surface mesh onto its average tangent
// plane and prints it in the terminal. This throws away the heights; it
// shows where the refinement spent its points.
func DrawMesh(mesh [][2]r3.Vector, scale float64) {
	if len(mesh) == 0 {
		fmt.Println(aurora.Red("mesh: empty"))
		return
	}

	normal := r3.Vector{}
	for _, seg := range mesh {
		normal = normal.Add(seg[0]).Add(seg[1])
	}
	normal = normal.Normalize()

	helper := r3.Vector{X: 0, Y: 1, Z: 0}
	if math.Abs(normal.Y) > 0.9 {
		helper = r3.Vector{X: 1, Y: 0, Z: 0}
	}
	e1 := normal.Cross(helper).Normalize()
	e2 := normal.Cross(e1)

	project := func(p r3.Vector) (float64, float64) {
		return p.Dot(e1), p.Dot(e2)
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, seg := range mesh {
		for _, p := range seg {
			x, y := project(p)
			minX = math.Min(minX, x)
			minY = math.Min(minY, y)
			maxX = math.Max(maxX, x)
			maxY = math.Max(maxY, y)
		}
	}

	width := int(scale*(maxX-minX)) + drawPadding*2
	height := int(scale*(maxY-minY)) + drawPadding*2
	c := gg.NewContext(width, height)
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()
	c.Translate(0, float64(height))
	c.Scale(1, -1)
	c.Translate(drawPadding, drawPadding)
	c.Scale(scale, scale)
	c.Translate(-minX, -minY)

	c.SetLineWidth(1)
	c.SetRGB(0, 1, 0.3)
	for _, seg := range mesh {
		x0, y0 := project(seg[0])
		x1, y1 := project(seg[1])
		c.DrawLine(x0, y0, x1, y1)
	}
	c.Stroke()

	c.SavePNG("/tmp/mesh.png")
	imgcat.CatFile("/tmp/mesh.png", os.Stdout)
	fmt.Printf("%s %d segments\n", aurora.Green("mesh:"), len(mesh))
}
