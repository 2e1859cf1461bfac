package strava

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
	c := NewClient(ts)
	c.baseURL = srv.URL
	c.rateLimiter.minInterval = 0 // no pacing in tests

	return c
}

func TestGetRoutes(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/athlete/routes" {
			t.Errorf("path = %q, want /athlete/routes", r.URL.Path)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page = %q, want 2", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "30" {
			t.Errorf("per_page = %q, want 30", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want Bearer test-token", got)
		}

		fmt.Fprint(w, `[
			{"id": 101, "id_str": "101", "name": "Alpine Loop", "distance": 84200.5,
			 "elevation_gain": 1650.0, "type": 1, "starred": true,
			 "map": {"id": "r101", "summary_polyline": "abc"}},
			{"id": 102, "id_str": "102", "name": "Trail Run", "distance": 12000,
			 "elevation_gain": 300, "type": 2, "starred": false}
		]`)
	}))

	routes, err := c.GetRoutes(context.Background(), 2, 30)
	if err != nil {
		t.Fatalf("GetRoutes: %v", err)
	}

	if len(routes) != 2 {
		t.Fatalf("got %d routes, want 2", len(routes))
	}
	if routes[0].ID != 101 || routes[0].Name != "Alpine Loop" {
		t.Errorf("route[0] = %+v", routes[0])
	}
	if routes[0].Distance != 84200.5 {
		t.Errorf("Distance = %v, want 84200.5", routes[0].Distance)
	}
	if !routes[0].Starred {
		t.Error("route[0] should be starred")
	}
	if !routes[0].IsRide() {
		t.Error("type 1 should be a ride")
	}
	if routes[1].IsRide() {
		t.Error("type 2 should not be a ride")
	}
}

func TestGetAllRoutesPaginates(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")

		switch page {
		case "1":
			// A full page signals there may be more
			routes := make([]Route, 100)
			for i := range routes {
				routes[i] = Route{ID: int64(i + 1), Name: fmt.Sprintf("Route %d", i+1), Type: RouteTypeRide}
			}
			json.NewEncoder(w).Encode(routes)
		case "2":
			json.NewEncoder(w).Encode([]Route{{ID: 101, Name: "Last One", Type: RouteTypeRide}})
		default:
			t.Errorf("unexpected page %q", page)
			json.NewEncoder(w).Encode([]Route{})
		}
	}))

	var progress []int
	routes, err := c.GetAllRoutes(context.Background(), func(fetched int) {
		progress = append(progress, fetched)
	})
	if err != nil {
		t.Fatalf("GetAllRoutes: %v", err)
	}

	if len(routes) != 101 {
		t.Errorf("got %d routes, want 101", len(routes))
	}
	if routes[100].Name != "Last One" {
		t.Errorf("last route = %q, want Last One", routes[100].Name)
	}
	if len(progress) != 2 || progress[0] != 100 || progress[1] != 101 {
		t.Errorf("progress calls = %v, want [100 101]", progress)
	}
}

func TestGetRouteByID(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/routes/42" {
			t.Errorf("path = %q, want /routes/42", r.URL.Path)
		}
		fmt.Fprint(w, `{"id": 42, "name": "Gravel Epic", "distance": 98000, "type": 1,
			"athlete": {"id": 7, "firstname": "Jo", "lastname": "Rider"}}`)
	}))

	route, err := c.GetRoute(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetRoute: %v", err)
	}
	if route.Name != "Gravel Epic" {
		t.Errorf("Name = %q, want Gravel Epic", route.Name)
	}
	if got := route.Athlete.DisplayName(); got != "Jo Rider" {
		t.Errorf("DisplayName = %q, want Jo Rider", got)
	}
}

func TestExportRouteGPX(t *testing.T) {
	gpxDoc := []byte(`<?xml version="1.0"?><gpx><trk><name>Export</name></trk></gpx>`)

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/routes/42/export_gpx" {
			t.Errorf("path = %q, want /routes/42/export_gpx", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/gpx+xml")
		w.Write(gpxDoc)
	}))

	data, err := c.ExportRouteGPX(context.Background(), 42)
	if err != nil {
		t.Fatalf("ExportRouteGPX: %v", err)
	}
	if !bytes.Equal(data, gpxDoc) {
		t.Errorf("exported bytes = %q, want %q", data, gpxDoc)
	}
}

func TestAPIError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Record Not Found"}`)
	}))

	_, err := c.GetRoute(context.Background(), 999)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "API error 404") {
		t.Errorf("error = %v, want API error 404", err)
	}
	if !strings.Contains(err.Error(), "Record Not Found") {
		t.Errorf("error should include response body, got %v", err)
	}
}

func TestRateLimitHeadersTracked(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "100,1000")
		w.Header().Set("X-RateLimit-Usage", "34,512")
		fmt.Fprint(w, `{"id": 7}`)
	}))

	if _, err := c.GetAthlete(context.Background()); err != nil {
		t.Fatalf("GetAthlete: %v", err)
	}

	short, daily := c.RateLimitStatus()
	if short != 100-34 {
		t.Errorf("short remaining = %d, want 66", short)
	}
	if daily != 1000-512 {
		t.Errorf("daily remaining = %d, want 488", daily)
	}
}

func TestAthleteDisplayName(t *testing.T) {
	tests := []struct {
		name    string
		athlete Athlete
		want    string
	}{
		{"full name", Athlete{Firstname: "Jo", Lastname: "Rider"}, "Jo Rider"},
		{"first only", Athlete{Firstname: "Jo"}, "Jo"},
		{"falls back to username", Athlete{Username: "jrider"}, "jrider"},
		{"empty", Athlete{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.athlete.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
