package route

import (
	"fmt"

	"github.com/tkrajina/gpxgo/gpx"
)

// LoadGPX reads a GPX file from disk and prepares it as a route.
func LoadGPX(path string) (Route, error) {
	g, err := gpx.ParseFile(path)
	if err != nil {
		return Route{}, fmt.Errorf("parsing gpx file: %w", err)
	}
	return fromGPX(g)
}

// ParseGPX prepares a route from raw GPX bytes, such as a downloaded
// route export.
func ParseGPX(data []byte) (Route, error) {
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return Route{}, fmt.Errorf("parsing gpx: %w", err)
	}
	return fromGPX(g)
}

// fromGPX flattens track segments (or route points, for planned GPX files
// without a recorded track) and derives cumulative distance, bearing and
// slope. Points closer than 10 cm to their predecessor are dropped so the
// gradient never divides by a zero run.
func fromGPX(g *gpx.GPX) (Route, error) {
	name := g.Name

	var raw []Point
	appendPoint := func(lat, lon, ele float64) {
		if n := len(raw); n > 0 {
			prev := raw[n-1]
			if Haversine(prev.Lat, prev.Lon, lat, lon) < 0.1 {
				return
			}
		}
		raw = append(raw, Point{Lat: lat, Lon: lon, Elevation: ele})
	}

	for _, trk := range g.Tracks {
		if name == "" {
			name = trk.Name
		}
		for _, seg := range trk.Segments {
			for _, p := range seg.Points {
				appendPoint(p.Point.Latitude, p.Point.Longitude, p.Elevation.Value())
			}
		}
	}
	if len(raw) == 0 {
		for _, rte := range g.Routes {
			if name == "" {
				name = rte.Name
			}
			for _, p := range rte.Points {
				appendPoint(p.Point.Latitude, p.Point.Longitude, p.Elevation.Value())
			}
		}
	}

	if len(raw) < 2 {
		return Route{}, fmt.Errorf("gpx contains %d usable points, need at least 2", len(raw))
	}

	for i := 1; i < len(raw); i++ {
		step := Haversine(raw[i-1].Lat, raw[i-1].Lon, raw[i].Lat, raw[i].Lon)
		raw[i].Distance = raw[i-1].Distance + step
	}
	fillBearings(raw)
	fillSlopes(raw)

	return Route{Name: name, Points: raw}, nil
}

// fillBearings sets each point's bearing toward its successor; the last
// point keeps the previous heading.
func fillBearings(pts []Point) {
	for i := 0; i < len(pts)-1; i++ {
		pts[i].Bearing = Bearing(pts[i].Lat, pts[i].Lon, pts[i+1].Lat, pts[i+1].Lon)
	}
	if n := len(pts); n > 1 {
		pts[n-1].Bearing = pts[n-2].Bearing
	}
}

// fillSlopes sets each point's grade from a central difference over its
// neighbors, one-sided at the ends.
func fillSlopes(pts []Point) {
	n := len(pts)
	for i := range pts {
		lo, hi := i-1, i+1
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		run := pts[hi].Distance - pts[lo].Distance
		if run <= 0 {
			pts[i].SlopeTan = 0
			continue
		}
		pts[i].SlopeTan = (pts[hi].Elevation - pts[lo].Elevation) / run
	}
}
