// Package auth holds the client-side session cache and the thin wrapper
// around the external identity provider.
package auth

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sistema-laudos/laudos-go/internal/models"
	"github.com/sistema-laudos/laudos-go/internal/storage"
)

// State is the observable session snapshot. IsAuthenticated is always
// derived from the user and token, never stored independently, so the two
// can never disagree.
type State struct {
	User            *models.UserProfile
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

// persistedSession is the durable part of the session. Transient fields
// (IsLoading, Error) are never persisted and reset to defaults on restore.
type persistedSession struct {
	User            *models.UserProfile `json:"user"`
	IsAuthenticated bool                `json:"isAuthenticated"`
}

// Session caches the authenticated user, mirrored to durable storage under
// a fixed key and restored on construction.
type Session struct {
	mu        sync.Mutex
	store     storage.Store
	user      *models.UserProfile
	isLoading bool
	errMsg    string
	listeners map[int]func(State)
	nextSub   int
	now       func() time.Time
}

// NewSession restores the session from storage.
func NewSession(store storage.Store) *Session {
	s := &Session{
		store:     store,
		listeners: make(map[int]func(State)),
		now:       time.Now,
	}

	var persisted persistedSession
	if ok, err := storage.GetJSON(store, storage.KeySession, &persisted); err == nil && ok {
		s.user = persisted.User
	}
	return s
}

// State returns the current session snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// SetUser records a login: tokens and profile go to durable storage and the
// session flips to authenticated. This is the only false-to-true transition.
func (s *Session) SetUser(user models.UserProfile, accessToken, refreshToken string) error {
	s.mu.Lock()

	if err := s.store.Set(storage.KeyAccessToken, accessToken); err != nil {
		s.mu.Unlock()
		return err
	}
	if refreshToken != "" {
		if err := s.store.Set(storage.KeyRefreshToken, refreshToken); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	if err := storage.SetJSON(s.store, storage.KeyUser, user); err != nil {
		s.mu.Unlock()
		return err
	}

	s.user = &user
	s.errMsg = ""
	s.persistLocked()
	s.notifyLocked()
	return nil
}

// Logout wipes tokens and profile. This is the only true-to-false
// transition besides token expiry.
func (s *Session) Logout() {
	s.mu.Lock()

	_ = s.store.Delete(storage.KeyAccessToken)
	_ = s.store.Delete(storage.KeyRefreshToken)
	_ = s.store.Delete(storage.KeyUser)

	s.user = nil
	s.errMsg = ""
	s.persistLocked()
	s.notifyLocked()
}

// CheckAuth re-derives the authentication state from durable storage.
func (s *Session) CheckAuth() bool {
	s.mu.Lock()

	var user models.UserProfile
	ok, err := storage.GetJSON(s.store, storage.KeyUser, &user)
	if err != nil || !ok {
		s.user = nil
	} else {
		s.user = &user
	}

	authenticated := s.authenticatedLocked()
	if !authenticated {
		s.user = nil
	}
	s.notifyLocked()
	return authenticated
}

// UpdateUser replaces the cached profile and persists it.
func (s *Session) UpdateUser(user models.UserProfile) error {
	s.mu.Lock()

	if err := storage.SetJSON(s.store, storage.KeyUser, user); err != nil {
		s.mu.Unlock()
		return err
	}
	s.user = &user
	s.persistLocked()
	s.notifyLocked()
	return nil
}

// SetLoading flips the transient loading flag.
func (s *Session) SetLoading(loading bool) {
	s.mu.Lock()
	s.isLoading = loading
	s.notifyLocked()
}

// SetError records a transient error message.
func (s *Session) SetError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.notifyLocked()
}

// ClearError resets the transient error message.
func (s *Session) ClearError() {
	s.SetError("")
}

// Subscribe registers a listener and returns an unsubscribe function.
func (s *Session) Subscribe(l func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Session) stateLocked() State {
	return State{
		User:            s.user,
		IsAuthenticated: s.authenticatedLocked(),
		IsLoading:       s.isLoading,
		Error:           s.errMsg,
	}
}

// authenticatedLocked derives the flag: a cached user plus an unexpired
// access token.
func (s *Session) authenticatedLocked() bool {
	if s.user == nil {
		return false
	}
	token, ok := s.store.Get(storage.KeyAccessToken)
	if !ok || token == "" {
		return false
	}
	return !tokenExpired(token, s.now())
}

// persistLocked writes the durable slice of the session. Caller holds s.mu.
func (s *Session) persistLocked() {
	_ = storage.SetJSON(s.store, storage.KeySession, persistedSession{
		User:            s.user,
		IsAuthenticated: s.authenticatedLocked(),
	})
}

// notifyLocked snapshots, unlocks and fans out to listeners.
func (s *Session) notifyLocked() {
	snapshot := s.stateLocked()
	listeners := make([]func(State), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// tokenExpired inspects the JWT exp claim without verifying the signature;
// validation is the backend's job. Opaque or claim-less tokens are treated
// as live so the backend stays the authority on their validity.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
