package route

import (
	"fmt"
	"sort"
)

// DefaultGridM is the standard resampling interval. Twenty meters keeps
// plans small enough to ride from a head unit while still resolving short
// pitches.
const DefaultGridM = 20.0

// Resample projects the route onto a uniform distance grid. Coordinates
// and elevation are interpolated linearly between the original points;
// bearing and slope are recomputed on the new grid. The final point always
// lands on the route's total distance.
func Resample(r Route, gridM float64) (Route, error) {
	if gridM <= 0 {
		return Route{}, fmt.Errorf("grid interval must be positive, got %.1f m", gridM)
	}
	if len(r.Points) < 2 {
		return Route{}, fmt.Errorf("route has %d points, need at least 2", len(r.Points))
	}
	total := r.TotalDistance()
	if total <= 0 {
		return Route{}, fmt.Errorf("route has no length")
	}

	n := int(total / gridM)
	out := make([]Point, 0, n+2)
	for i := 0; i <= n; i++ {
		out = append(out, interpolateAt(r.Points, float64(i)*gridM))
	}
	if total-float64(n)*gridM > 1e-6 {
		out = append(out, interpolateAt(r.Points, total))
	}

	fillBearings(out)
	fillSlopes(out)
	return Route{Name: r.Name, Points: out}, nil
}

// interpolateAt returns the route position at the given distance, linearly
// interpolated within the enclosing segment.
func interpolateAt(pts []Point, d float64) Point {
	if d <= pts[0].Distance {
		p := pts[0]
		p.Distance = d
		return p
	}
	last := pts[len(pts)-1]
	if d >= last.Distance {
		p := last
		p.Distance = d
		return p
	}

	// First point with Distance >= d; its predecessor starts the segment.
	idx := sort.Search(len(pts), func(i int) bool { return pts[i].Distance >= d })
	a, b := pts[idx-1], pts[idx]
	span := b.Distance - a.Distance
	if span <= 0 {
		a.Distance = d
		return a
	}
	t := (d - a.Distance) / span
	return Point{
		Lat:       a.Lat + t*(b.Lat-a.Lat),
		Lon:       a.Lon + t*(b.Lon-a.Lon),
		Distance:  d,
		Elevation: a.Elevation + t*(b.Elevation-a.Elevation),
	}
}
