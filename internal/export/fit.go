package export

import (
	"io"
	"time"

	"github.com/muktihari/fit/encoder"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
	"github.com/muktihari/fit/proto"

	"paceline/internal/store"
)

// FIT encodes positions as signed 32-bit semicircles
const semicirclesPerDegree = 2147483648.0 / 180.0

// WriteFIT renders the plan as a FIT course file a head unit can follow:
// one record per plan point carrying position, altitude, planned speed and
// target power, bracketed by timer events and summarized in a course lap.
func WriteFIT(w io.Writer, plan *store.Plan, points []store.PlanPoint) error {
	start := plan.CreatedAt.UTC()
	end := start
	if n := len(points); n > 0 {
		end = start.Add(planOffset(points[n-1].CumTimeS))
	}

	fit := proto.FIT{}

	fileID := mesgdef.FileId{
		Type:         typedef.FileCourse,
		Manufacturer: typedef.ManufacturerDevelopment,
		Product:      0,
		SerialNumber: 1027,
		TimeCreated:  start,
	}
	fit.Messages = append(fit.Messages, fileID.ToMesg(nil))

	course := mesgdef.Course{
		Name:  plan.Name,
		Sport: typedef.SportCycling,
	}
	fit.Messages = append(fit.Messages, course.ToMesg(nil))

	lap := mesgdef.Lap{
		Timestamp:        end,
		StartTime:        start,
		TotalElapsedTime: uint32(plan.TotalTimeS * 1000), // ms
		TotalTimerTime:   uint32(plan.TotalTimeS * 1000), // ms
		TotalDistance:    uint32(plan.DistanceM * 100),   // cm
		AvgPower:         uint16(plan.AvgPowerW),
		Event:            typedef.EventLap,
		EventType:        typedef.EventTypeStop,
	}
	fit.Messages = append(fit.Messages, lap.ToMesg(nil))

	startEvent := mesgdef.Event{
		Timestamp: start,
		Event:     typedef.EventTimer,
		EventType: typedef.EventTypeStart,
	}
	fit.Messages = append(fit.Messages, startEvent.ToMesg(nil))

	for i := range points {
		rec := courseRecord(start, &points[i])
		fit.Messages = append(fit.Messages, rec.ToMesg(nil))
	}

	stopEvent := mesgdef.Event{
		Timestamp: end,
		Event:     typedef.EventTimer,
		EventType: typedef.EventTypeStopAll,
	}
	fit.Messages = append(fit.Messages, stopEvent.ToMesg(nil))

	return encoder.New(w).Encode(&fit)
}

// courseRecord scales one plan point into FIT record units: semicircle
// positions, centimeter distance, mm/s speed and scale-5 offset-500
// altitude.
func courseRecord(start time.Time, p *store.PlanPoint) *mesgdef.Record {
	return &mesgdef.Record{
		Timestamp:        start.Add(planOffset(p.CumTimeS)),
		PositionLat:      int32(p.Lat * semicirclesPerDegree),
		PositionLong:     int32(p.Lon * semicirclesPerDegree),
		Distance:         uint32(p.DistanceM * 100),
		EnhancedSpeed:    uint32(p.SpeedMS * 1000),
		EnhancedAltitude: uint32((p.ElevationM + 500.0) * 5.0),
		Power:            uint16(p.PowerW),
	}
}

func planOffset(cumTimeS float64) time.Duration {
	return time.Duration(cumTimeS * float64(time.Second))
}
