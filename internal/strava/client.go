package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/oauth2"
)

const BaseURL = "https://www.strava.com/api/v3"

// Client is a Strava API client scoped to route import
type Client struct {
	httpClient  *http.Client
	rateLimiter *RateLimiter
	baseURL     string
}

// NewClient creates a new Strava API client
func NewClient(tokenSource oauth2.TokenSource) *Client {
	return &Client{
		httpClient:  oauth2.NewClient(context.Background(), tokenSource),
		rateLimiter: NewRateLimiter(),
		baseURL:     BaseURL,
	}
}

// GetAthlete fetches the authenticated athlete's profile
func (c *Client) GetAthlete(ctx context.Context) (*Athlete, error) {
	resp, err := c.get(ctx, "/athlete", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var athlete Athlete
	if err := json.NewDecoder(resp.Body).Decode(&athlete); err != nil {
		return nil, fmt.Errorf("decoding athlete: %w", err)
	}

	return &athlete, nil
}

// GetRoutes fetches one page of the athlete's routes
func (c *Client) GetRoutes(ctx context.Context, page, perPage int) ([]Route, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	resp, err := c.get(ctx, "/athlete/routes", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var routes []Route
	if err := json.NewDecoder(resp.Body).Decode(&routes); err != nil {
		return nil, fmt.Errorf("decoding routes: %w", err)
	}

	return routes, nil
}

// GetAllRoutes fetches every route the athlete has saved.
// It handles pagination automatically and respects rate limits.
func (c *Client) GetAllRoutes(ctx context.Context, onProgress func(fetched int)) ([]Route, error) {
	var allRoutes []Route
	page := 1
	perPage := 100

	for {
		routes, err := c.GetRoutes(ctx, page, perPage)
		if err != nil {
			return allRoutes, fmt.Errorf("fetching page %d: %w", page, err)
		}

		if len(routes) == 0 {
			break
		}

		allRoutes = append(allRoutes, routes...)

		if onProgress != nil {
			onProgress(len(allRoutes))
		}

		if len(routes) < perPage {
			break // Last page
		}

		page++
	}

	return allRoutes, nil
}

// GetRoute fetches a single route by ID
func (c *Client) GetRoute(ctx context.Context, routeID int64) (*Route, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/routes/%d", routeID), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var route Route
	if err := json.NewDecoder(resp.Body).Decode(&route); err != nil {
		return nil, fmt.Errorf("decoding route: %w", err)
	}

	return &route, nil
}

// ExportRouteGPX downloads a route as a GPX document
func (c *Client) ExportRouteGPX(ctx context.Context, routeID int64) ([]byte, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/routes/%d/export_gpx", routeID), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading gpx export: %w", err)
	}

	return data, nil
}

// RateLimitStatus returns the current rate limit status
func (c *Client) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return c.rateLimiter.Status()
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	// Update rate limiter from response headers
	c.rateLimiter.UpdateFromHeaders(resp.Header)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}
