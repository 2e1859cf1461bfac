package strava

import (
	"strings"
	"time"
)

// Route type constants from the API
const (
	RouteTypeRide = 1
	RouteTypeRun  = 2
)

// Route represents a Strava route from the API
type Route struct {
	ID                  int64     `json:"id"`
	IDStr               string    `json:"id_str"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	Distance            float64   `json:"distance"`       // meters
	ElevationGain       float64   `json:"elevation_gain"` // meters
	Type                int       `json:"type"`           // 1 = ride, 2 = run
	SubType             int       `json:"sub_type"`       // 1 = road, 2 = mtb, 3 = cx, 4 = trail, 5 = mixed
	Private             bool      `json:"private"`
	Starred             bool      `json:"starred"`
	EstimatedMovingTime int       `json:"estimated_moving_time"` // seconds
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	Athlete             Athlete   `json:"athlete"`
	Map                 Map       `json:"map"`
}

// IsRide reports whether the route was drawn for cycling
func (r Route) IsRide() bool {
	return r.Type == RouteTypeRide
}

// Map holds the route's polyline summary
type Map struct {
	ID              string `json:"id"`
	SummaryPolyline string `json:"summary_polyline"`
}

// Athlete represents a Strava athlete
type Athlete struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// DisplayName returns the athlete's name, falling back to the username
func (a Athlete) DisplayName() string {
	name := strings.TrimSpace(a.Firstname + " " + a.Lastname)
	if name == "" {
		return a.Username
	}
	return name
}
