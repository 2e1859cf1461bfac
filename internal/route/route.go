// Package route loads GPX tracks and prepares them for planning: distance
// and bearing from coordinates, resampling onto a uniform grid, and slope
// from the resampled elevation profile.
package route

// Point is one sample of a prepared route. Distances are cumulative from
// the start; slope is the tangent of the grade (rise over run); bearing is
// the direction of travel in compass degrees.
type Point struct {
	Lat       float64
	Lon       float64
	Distance  float64 // meters from start
	Elevation float64 // meters
	SlopeTan  float64 // rise/run
	Bearing   float64 // degrees, 0 = north, 90 = east
}

// Route is a prepared sequence of points ready for planning.
type Route struct {
	Name   string
	Points []Point
}

// TotalDistance returns the route length in meters.
func (r Route) TotalDistance() float64 {
	if len(r.Points) == 0 {
		return 0
	}
	return r.Points[len(r.Points)-1].Distance
}

// TotalAscent sums the positive elevation changes in meters.
func (r Route) TotalAscent() float64 {
	var ascent float64
	for i := 1; i < len(r.Points); i++ {
		if d := r.Points[i].Elevation - r.Points[i-1].Elevation; d > 0 {
			ascent += d
		}
	}
	return ascent
}
