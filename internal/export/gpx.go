package export

import (
	"encoding/xml"
	"io"
	"strconv"
	"time"

	"paceline/internal/store"
)

// gpxDoc is the subset of GPX 1.1 the export emits. Power targets ride in
// a per-point <paceline:target_watts> extension; readers that ignore
// unknown extensions still get a plain track.
type gpxDoc struct {
	XMLName   xml.Name    `xml:"gpx"`
	Version   string      `xml:"version,attr"`
	Creator   string      `xml:"creator,attr"`
	Xmlns     string      `xml:"xmlns,attr"`
	XmlnsPlan string      `xml:"xmlns:paceline,attr"`
	Metadata  gpxMetadata `xml:"metadata"`
	Track     gpxTrack    `xml:"trk"`
}

type gpxMetadata struct {
	Name string `xml:"name"`
	Time string `xml:"time"`
}

type gpxTrack struct {
	Name    string     `xml:"name"`
	Type    string     `xml:"type"`
	Segment gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat        string        `xml:"lat,attr"`
	Lon        string        `xml:"lon,attr"`
	Elevation  string        `xml:"ele"`
	Time       string        `xml:"time,omitempty"`
	Extensions gpxExtensions `xml:"extensions"`
}

type gpxExtensions struct {
	TargetWatts string `xml:"paceline:target_watts"`
}

// WriteGPX renders the plan as a GPX 1.1 track with a target power
// extension on every point. Point timestamps are the plan's creation time
// advanced by each point's cumulative ride time, so a head unit following
// the track sees the planned schedule.
func WriteGPX(w io.Writer, plan *store.Plan, points []store.PlanPoint) error {
	doc := gpxDoc{
		Version:   "1.1",
		Creator:   "paceline",
		Xmlns:     "http://www.topografix.com/GPX/1/1",
		XmlnsPlan: "http://paceline.dev/xmlschemas/plan/v1",
		Metadata: gpxMetadata{
			Name: plan.Name,
			Time: plan.CreatedAt.UTC().Format(time.RFC3339),
		},
		Track: gpxTrack{
			Name: plan.Name,
			Type: "cycling",
		},
	}

	start := plan.CreatedAt.UTC()
	doc.Track.Segment.Points = make([]gpxPoint, len(points))
	for i, p := range points {
		pt := gpxPoint{
			Lat:       strconv.FormatFloat(p.Lat, 'f', 6, 64),
			Lon:       strconv.FormatFloat(p.Lon, 'f', 6, 64),
			Elevation: strconv.FormatFloat(p.ElevationM, 'f', 1, 64),
			Time:      start.Add(planOffset(p.CumTimeS)).Format(time.RFC3339),
		}
		pt.Extensions.TargetWatts = strconv.FormatFloat(p.PowerW, 'f', 0, 64)
		doc.Track.Segment.Points[i] = pt
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
