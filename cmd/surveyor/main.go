package main

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/logrusorgru/aurora"
	"go.uber.org/zap"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/cosmoscout/csp-measurement-tools/body"
	"github.com/cosmoscout/csp-measurement-tools/dbg"
	"github.com/cosmoscout/csp-measurement-tools/measure"
)

// Measures the surface area and volume of a polygon on a sphere. Input on
// stdin should be newline separated corners in the form "lng lat", in
// radians, in outline order. A blank line ends the polygon; lines starting
// with # are skipped.
var (
	radius      = kingpin.Flag("radius", "Body radius in meters.").Default("6371000").Float64()
	heightScale = kingpin.Flag("height-scale", "Terrain exaggeration factor.").Default("1").Float64()
	heightDiff  = kingpin.Flag("height-diff", "Refinement threshold on the height ratio of neighboring samples.").Default("1.002").Float64()
	maxAttempt  = kingpin.Flag("max-attempt", "Maximum refinement passes.").Default("10").Int()
	maxPoints   = kingpin.Flag("max-points", "Maximum number of mesh points.").Default("1000").Int()
	sleekness   = kingpin.Flag("sleekness", "Minimum triangle angle in degrees before a split.").Default("15").Float64()
	htmlOut     = kingpin.Flag("html", "Write an interactive chart of the mesh to this file.").String()
	pngOut      = kingpin.Flag("png", "Write a rendering of the mesh to this file.").String()
	show        = kingpin.Flag("show", "Print the mesh in the terminal (iTerm only).").Bool()
	verbose     = kingpin.Flag("verbose", "Log the refinement steps.").Bool()
)

func main() {
	kingpin.Parse()

	log, err := zap.NewProduction()
	if *verbose {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Could not set up logging:", err)
		os.Exit(1)
	}
	defer log.Sync()

	corners := readCorners(os.Stdin)
	if len(corners) < 3 {
		fmt.Fprintln(os.Stderr, "Need at least three corners on stdin.")
		os.Exit(1)
	}

	settings := measure.DefaultSettings()
	settings.HeightScale = *heightScale
	settings.HeightDiff = *heightDiff
	settings.MaxAttempt = *maxAttempt
	settings.MaxPoints = *maxPoints
	settings.Sleekness = *sleekness

	result, err := measure.Compute(corners, body.Sphere{R: *radius}, settings, log)
	if err != nil {
		log.Fatal("measurement failed", zap.Error(err))
	}

	printResult(result)

	if *htmlOut != "" {
		if err := writeChart(*htmlOut, corners, result); err != nil {
			log.Fatal("could not write chart", zap.Error(err))
		}
	}
	if *pngOut != "" {
		if err := writePNG(*pngOut, result); err != nil {
			log.Fatal("could not write png", zap.Error(err))
		}
	}
	if *show {
		dbg.DrawMesh(result.Mesh, 2000)
	}
}

func printResult(result measure.Result) {
	if result.Flags.Any() {
		fmt.Println(aurora.Yellow(fmt.Sprintf("flags: %+v", result.Flags)))
	}
	fmt.Printf("%s  %.4g m²\n", aurora.Green("area:     "), result.Area)
	fmt.Printf("%s  %.4g m³\n", aurora.Green("volume +: "), result.PosVolume)
	fmt.Printf("%s  %.4g m³\n", aurora.Green("volume -: "), result.NegVolume)
	fmt.Printf("%s  %d points in %d passes\n", aurora.Green("mesh:     "),
		result.PointCount, result.Attempts)
}

func readCorners(in *os.File) []body.LngLat {
	corners := []body.LngLat{}
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if len(corners) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		lng, _ := strconv.ParseFloat(parts[0], 64)
		lat, _ := strconv.ParseFloat(parts[1], 64)
		corners = append(corners, body.LngLat{Lng: lng, Lat: lat})
	}
	return corners
}

// writeChart renders the polygon corners and the refined mesh as an
// interactive scatter chart, with the mesh edges overlapped as line series.
func writeChart(path string, corners []body.LngLat, result measure.Result) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "1020px",
			Height: "580px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("area %.4g m², volume %+.4g / %+.4g m³",
				result.Area, result.PosVolume, result.NegVolume),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "Longitude",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: "Latitude",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
		}),
	)

	points := make([]opts.ScatterData, 0, len(corners))
	for _, c := range corners {
		points = append(points, opts.ScatterData{
			Value: []float64{c.Lng, c.Lat},
		})
	}
	scatter.AddSeries("Corners", points).
		SetSeriesOptions(
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: "lightgreen",
			}),
		)

	for _, seg := range result.Mesh {
		a := body.ToLngLat(seg[0])
		b := body.ToLngLat(seg[1])

		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(true)}),
			charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(true)}),
		)
		line.AddSeries("Mesh", []opts.LineData{
			{Value: []float64{a.Lng, a.Lat}},
			{Value: []float64{b.Lng, b.Lat}},
		}).SetSeriesOptions(
			charts.WithLineStyleOpts(opts.LineStyle{
				Width: 1,
			}),
		)
		scatter.Overlap(line)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return scatter.Render(out)
}

// writePNG draws the mesh in lng/lat space.
func writePNG(path string, result measure.Result) error {
	const size = 1024.0
	const padding = 40.0

	minLng, maxLng := math.Inf(1), math.Inf(-1)
	minLat, maxLat := math.Inf(1), math.Inf(-1)
	for _, seg := range result.Mesh {
		for _, p := range seg {
			ll := body.ToLngLat(p)
			minLng = math.Min(minLng, ll.Lng)
			maxLng = math.Max(maxLng, ll.Lng)
			minLat = math.Min(minLat, ll.Lat)
			maxLat = math.Max(maxLat, ll.Lat)
		}
	}
	scale := (size - 2*padding) / math.Max(maxLng-minLng, maxLat-minLat)

	c := gg.NewContext(int(size), int(size))
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, size, size)
	c.Fill()
	// Flip the context so north is up
	c.Translate(0, size)
	c.Scale(1, -1)
	c.Translate(padding, padding)
	c.Scale(scale, scale)
	c.Translate(-minLng, -minLat)

	c.SetLineWidth(1)
	c.SetRGB(0, 1, 0.3)
	for _, seg := range result.Mesh {
		a := body.ToLngLat(seg[0])
		b := body.ToLngLat(seg[1])
		c.DrawLine(a.Lng, a.Lat, b.Lng, b.Lat)
	}
	c.Stroke()
	return c.SavePNG(path)
}
