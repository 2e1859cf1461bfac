// Package weather fetches hourly forecasts from the Open-Meteo API and
// turns them into the environment parameters the physics model consumes.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://api.open-meteo.com/v1/forecast"
	forecastDays   = 3
)

// Client talks to the Open-Meteo forecast API. The zero value is not
// usable; call NewClient.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient returns a forecast client with sane timeouts.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
	}
}

// NewClientWithBaseURL returns a client against a non-default endpoint.
// Tests point this at an httptest server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// Forecast fetches the hourly forecast for a coordinate.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (*Forecast, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	params.Set("hourly", "temperature_2m,relative_humidity_2m,surface_pressure,wind_speed_10m,wind_direction_10m")
	params.Set("windspeed_unit", "ms")
	params.Set("timeformat", "unixtime")
	params.Set("forecast_days", strconv.Itoa(forecastDays))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating forecast request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("forecast request failed with status %d: %s", resp.StatusCode, body)
	}

	var f Forecast
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding forecast: %w", err)
	}
	if err := f.Hourly.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}
