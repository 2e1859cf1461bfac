package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"paceline/internal/store"
)

var csvHeader = []string{
	"distance_m", "elevation_m", "slope", "power_w", "speed_ms",
	"duration_s", "cum_time_s", "wbal_j", "zone",
}

// WriteCSV writes one row per plan point
func WriteCSV(w io.Writer, points []store.PlanPoint) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, p := range points {
		row := []string{
			strconv.FormatFloat(p.DistanceM, 'f', 1, 64),
			strconv.FormatFloat(p.ElevationM, 'f', 1, 64),
			strconv.FormatFloat(p.SlopeTan, 'f', 4, 64),
			strconv.FormatFloat(p.PowerW, 'f', 0, 64),
			strconv.FormatFloat(p.SpeedMS, 'f', 2, 64),
			strconv.FormatFloat(p.DurationS, 'f', 2, 64),
			strconv.FormatFloat(p.CumTimeS, 'f', 1, 64),
			strconv.FormatFloat(p.WBalJ, 'f', 0, 64),
			p.Zone,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
