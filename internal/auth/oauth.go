package auth

import (
	"strings"

	"golang.org/x/oauth2"
)

const (
	// Strava OAuth endpoints
	AuthURL  = "https://www.strava.com/oauth/authorize"
	TokenURL = "https://www.strava.com/oauth/token"
)

// Scopes required for route import. read_all covers private routes.
// Strava expects its scopes comma-separated in a single parameter.
var Scopes = []string{
	"read,read_all",
}

// Config holds the OAuth client credentials
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "http://localhost:8089/callback"
}

// NewOAuthConfig creates an oauth2.Config from our Config
func NewOAuthConfig(cfg Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  AuthURL,
			TokenURL: TokenURL,
		},
		RedirectURL: cfg.RedirectURL,
		Scopes:      Scopes,
	}
}

// AuthResult contains the token and athlete identity from a successful auth
type AuthResult struct {
	Token       *oauth2.Token
	AthleteID   int64
	AthleteName string
}

// athleteExtra returns the athlete summary Strava embeds in its token
// response, or nil when absent
func athleteExtra(token *oauth2.Token) map[string]interface{} {
	athlete, ok := token.Extra("athlete").(map[string]interface{})
	if !ok {
		return nil
	}
	return athlete
}

// ExtractAthleteID extracts the athlete ID from the token extras
func ExtractAthleteID(token *oauth2.Token) int64 {
	if id, ok := athleteExtra(token)["id"].(float64); ok {
		return int64(id)
	}
	return 0
}

// ExtractAthleteName extracts the athlete's display name from the token extras
func ExtractAthleteName(token *oauth2.Token) string {
	athlete := athleteExtra(token)
	first, _ := athlete["firstname"].(string)
	last, _ := athlete["lastname"].(string)
	return strings.TrimSpace(first + " " + last)
}
