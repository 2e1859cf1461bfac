package route

import (
	"math"
	"testing"
)

// northboundRoute builds a straight route heading north with a linear
// elevation ramp from 0 to riseM over totalM meters.
func northboundRoute(n int, totalM, riseM float64) Route {
	pts := make([]Point, n)
	spacing := totalM / float64(n-1)
	for i := range pts {
		d := float64(i) * spacing
		pts[i] = Point{
			Lat:       47.0 + d/111194.9,
			Lon:       8.0,
			Distance:  d,
			Elevation: riseM * d / totalM,
		}
	}
	return Route{Name: "ramp", Points: pts}
}

func TestResampleUniformGrid(t *testing.T) {
	r := northboundRoute(5, 1000, 100)

	got, err := Resample(r, 100)
	if err != nil {
		t.Fatalf("Resample() error: %v", err)
	}

	if len(got.Points) != 11 {
		t.Fatalf("points = %d, want 11", len(got.Points))
	}
	for i, p := range got.Points {
		if want := float64(i) * 100; math.Abs(p.Distance-want) > 1e-9 {
			t.Errorf("point %d: distance = %.3f, want %.1f", i, p.Distance, want)
		}
		// A linear ramp resamples to the same constant grade everywhere.
		if math.Abs(p.SlopeTan-0.1) > 1e-9 {
			t.Errorf("point %d: slope = %.6f, want 0.1", i, p.SlopeTan)
		}
		if math.Abs(p.Bearing) > 0.5 && math.Abs(p.Bearing-360) > 0.5 {
			t.Errorf("point %d: bearing = %.2f, want ~0", i, p.Bearing)
		}
	}
	if got.Name != "ramp" {
		t.Errorf("name = %q, want %q", got.Name, "ramp")
	}
}

func TestResampleKeepsEndpoint(t *testing.T) {
	r := northboundRoute(4, 990, 30)

	got, err := Resample(r, 100)
	if err != nil {
		t.Fatalf("Resample() error: %v", err)
	}

	// Grid points at 0..900 plus the odd-sized final point.
	if len(got.Points) != 11 {
		t.Fatalf("points = %d, want 11", len(got.Points))
	}
	last := got.Points[len(got.Points)-1]
	if math.Abs(last.Distance-990) > 1e-9 {
		t.Errorf("last distance = %.3f, want 990", last.Distance)
	}
	if math.Abs(last.Elevation-30) > 1e-9 {
		t.Errorf("last elevation = %.3f, want 30", last.Elevation)
	}
}

func TestResampleInterpolatesElevation(t *testing.T) {
	// Two segments with different grades: flat to 500 m, then climbing.
	pts := []Point{
		{Lat: 47.0, Lon: 8.0, Distance: 0, Elevation: 100},
		{Lat: 47.0045, Lon: 8.0, Distance: 500, Elevation: 100},
		{Lat: 47.0090, Lon: 8.0, Distance: 1000, Elevation: 150},
	}

	got, err := Resample(Route{Points: pts}, 250)
	if err != nil {
		t.Fatalf("Resample() error: %v", err)
	}

	wantEle := []float64{100, 100, 100, 125, 150}
	if len(got.Points) != len(wantEle) {
		t.Fatalf("points = %d, want %d", len(got.Points), len(wantEle))
	}
	for i, want := range wantEle {
		if math.Abs(got.Points[i].Elevation-want) > 1e-9 {
			t.Errorf("point %d: elevation = %.3f, want %.1f", i, got.Points[i].Elevation, want)
		}
	}
}

func TestResampleRejectsBadInput(t *testing.T) {
	good := northboundRoute(3, 200, 0)

	if _, err := Resample(good, 0); err == nil {
		t.Error("expected an error for zero grid interval")
	}
	if _, err := Resample(Route{Points: good.Points[:1]}, 20); err == nil {
		t.Error("expected an error for a single-point route")
	}
	same := Route{Points: []Point{{Lat: 47, Lon: 8}, {Lat: 47, Lon: 8}}}
	if _, err := Resample(same, 20); err == nil {
		t.Error("expected an error for a zero-length route")
	}
}

func TestTotalAscent(t *testing.T) {
	r := Route{Points: []Point{
		{Distance: 0, Elevation: 0},
		{Distance: 100, Elevation: 10},
		{Distance: 200, Elevation: 5},
		{Distance: 300, Elevation: 20},
	}}
	if got := r.TotalAscent(); math.Abs(got-25) > 1e-9 {
		t.Errorf("TotalAscent() = %.1f, want 25", got)
	}
	if got := r.TotalDistance(); got != 300 {
		t.Errorf("TotalDistance() = %.1f, want 300", got)
	}
}
