package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/sistema-laudos/laudos-go/internal/models"
	"github.com/sistema-laudos/laudos-go/internal/storage"
)

// Authenticator wraps the external identity provider's authorization-code
// flow. The protocol itself is delegated to golang.org/x/oauth2; this type
// only wires tokens into durable storage.
type Authenticator struct {
	config *oauth2.Config
	store  storage.Store
}

// Endpoints names the identity provider's OAuth2 endpoints.
type Endpoints struct {
	AuthURL     string
	TokenURL    string
	ClientID    string
	RedirectURL string
}

// NewAuthenticator creates the identity-provider wrapper.
func NewAuthenticator(endpoints Endpoints, store storage.Store) *Authenticator {
	return &Authenticator{
		config: &oauth2.Config{
			ClientID:    endpoints.ClientID,
			RedirectURL: endpoints.RedirectURL,
			Scopes:      []string{"openid", "profile", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  endpoints.AuthURL,
				TokenURL: endpoints.TokenURL,
			},
		},
		store: store,
	}
}

// LoginURL builds the provider redirect for the given anti-CSRF state.
func (a *Authenticator) LoginURL(state string) string {
	return a.config.AuthCodeURL(state)
}

// HandleCallback exchanges the authorization code, stores the token pair and
// returns the profile extracted from the id_token claims.
func (a *Authenticator) HandleCallback(ctx context.Context, code string) (*models.UserProfile, error) {
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	if err := a.store.Set(storage.KeyAccessToken, token.AccessToken); err != nil {
		return nil, err
	}
	if token.RefreshToken != "" {
		if err := a.store.Set(storage.KeyRefreshToken, token.RefreshToken); err != nil {
			return nil, err
		}
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		return nil, errors.New("identity provider returned no id_token")
	}
	return profileFromIDToken(idToken)
}

// Refresh exchanges a refresh token for a new pair. Satisfies api.Refresher.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	source := a.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return "", "", fmt.Errorf("refresh session: %w", err)
	}
	return token.AccessToken, token.RefreshToken, nil
}

// Logout clears the locally stored tokens. Provider-side logout is a
// browser redirect and stays outside this wrapper.
func (a *Authenticator) Logout() {
	_ = a.store.Delete(storage.KeyAccessToken)
	_ = a.store.Delete(storage.KeyRefreshToken)
	_ = a.store.Delete(storage.KeyUser)
}

// profileFromIDToken pulls the standard OIDC claims. The signature is not
// checked here; the token came over TLS from the token endpoint.
func profileFromIDToken(idToken string) (*models.UserProfile, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return nil, fmt.Errorf("parse id_token: %w", err)
	}

	profile := &models.UserProfile{}
	if sub, ok := claims["sub"].(string); ok {
		profile.ID = sub
	}
	if name, ok := claims["name"].(string); ok {
		profile.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		profile.Email = email
	}
	if profile.ID == "" {
		return nil, errors.New("id_token missing sub claim")
	}
	return profile, nil
}
