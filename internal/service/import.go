package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"

	"paceline/internal/auth"
	"paceline/internal/config"
	"paceline/internal/store"
	"paceline/internal/strava"
)

// ImportService connects to Strava and turns saved routes into plan inputs
type ImportService struct {
	cfg   *config.Config
	store *store.DB
}

// NewImportService creates a new import service
func NewImportService(cfg *config.Config, db *store.DB) *ImportService {
	return &ImportService{cfg: cfg, store: db}
}

// Client returns an authenticated Strava client. The first call walks the
// browser OAuth flow; later calls reuse the stored token and persist
// refreshes.
func (s *ImportService) Client(ctx context.Context) (*strava.Client, error) {
	if err := s.cfg.RequireStrava(); err != nil {
		return nil, err
	}

	oauthCfg := auth.NewOAuthConfig(auth.Config{
		ClientID:     s.cfg.Strava.ClientID,
		ClientSecret: s.cfg.Strava.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	})

	token, err := s.loadToken(ctx, oauthCfg)
	if err != nil {
		return nil, err
	}

	ts := auth.NewTokenSource(oauthCfg, token, func(t *oauth2.Token) error {
		return s.store.UpdateTokens(t.AccessToken, t.RefreshToken, t.Expiry)
	})

	return strava.NewClient(ts), nil
}

// loadToken returns the stored token, running the interactive OAuth flow
// when none exists yet
func (s *ImportService) loadToken(ctx context.Context, oauthCfg *oauth2.Config) (*oauth2.Token, error) {
	stored, err := s.store.GetAuth()
	if err == nil {
		return &oauth2.Token{
			AccessToken:  stored.AccessToken,
			RefreshToken: stored.RefreshToken,
			Expiry:       stored.ExpiresAt,
		}, nil
	}
	if !errors.Is(err, store.ErrNoAuth) {
		return nil, err
	}

	result, err := auth.Authenticate(ctx, oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("authenticating with Strava: %w", err)
	}

	if err := s.store.SaveAuth(&store.Auth{
		AthleteID:    result.AthleteID,
		AthleteName:  result.AthleteName,
		AccessToken:  result.Token.AccessToken,
		RefreshToken: result.Token.RefreshToken,
		ExpiresAt:    result.Token.Expiry,
	}); err != nil {
		return nil, fmt.Errorf("saving tokens: %w", err)
	}

	return result.Token, nil
}

// Forget drops stored credentials so the next Client call re-authenticates
func (s *ImportService) Forget() error {
	return s.store.DeleteAuth()
}

// ListRides returns the athlete's cycling routes. onProgress, when not nil,
// receives the running count while pages are fetched.
func (s *ImportService) ListRides(ctx context.Context, client *strava.Client, onProgress func(fetched int)) ([]strava.Route, error) {
	routes, err := client.GetAllRoutes(ctx, onProgress)
	if err != nil {
		return nil, err
	}

	rides := routes[:0]
	for _, r := range routes {
		if r.IsRide() {
			rides = append(rides, r)
		}
	}
	return rides, nil
}

// FetchRoute downloads one route's GPX and returns a request ready for
// PlanService.Compute
func (s *ImportService) FetchRoute(ctx context.Context, client *strava.Client, routeID int64) (PlanRequest, error) {
	r, err := client.GetRoute(ctx, routeID)
	if err != nil {
		return PlanRequest{}, fmt.Errorf("fetching route %d: %w", routeID, err)
	}
	if !r.IsRide() {
		return PlanRequest{}, fmt.Errorf("route %d (%s) is not a cycling route", routeID, r.Name)
	}

	data, err := client.ExportRouteGPX(ctx, routeID)
	if err != nil {
		return PlanRequest{}, fmt.Errorf("exporting route %d: %w", routeID, err)
	}

	return PlanRequest{GPXData: data, Name: r.Name}, nil
}
