// Package session holds the console's authenticated identity: a bearer token
// and the matching user profile. The pair is process-wide, persisted through
// localstore so a restart stays logged in, and observable by subscription.
package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/matriculapp/academico/storage/localstore"
)

// durable storage keys
const (
	tokenKey = "token"
	userKey  = "user"
)

// User is the profile object the backend returns at login.
type User struct {
	ID       int    `json:"id"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Email    string `json:"email"`
}

// State is a snapshot of the store. Token and User are either both set
// (Authenticated) or both zero (Anonymous), never one without the other.
type State struct {
	Token string
	User  *User
}

func (s State) IsAuthenticated() bool { return s.Token != "" }

type Store struct {
	mu      sync.RWMutex
	token   string
	user    *User
	storage localstore.Storage
	subs    []func(State)
}

func NewStore(storage localstore.Storage) *Store {
	return &Store{storage: storage}
}

// Initialize runs once at process start: it rehydrates the session from
// durable storage. Anything malformed, incomplete or already expired leaves
// the store Anonymous; it never fails.
func (s *Store) Initialize() {
	token, err := s.storage.Get(tokenKey)
	if err != nil || token == "" {
		return
	}
	rawUser, err := s.storage.Get(userKey)
	if err != nil {
		s.purge()
		return
	}
	var usr User
	if err := json.Unmarshal([]byte(rawUser), &usr); err != nil {
		s.purge()
		return
	}
	if tokenExpired(token) {
		// stale credential; better to ask for a fresh login than
		// bounce every call off a 401
		s.purge()
		return
	}

	s.mu.Lock()
	s.token = token
	s.user = &usr
	s.mu.Unlock()
	s.notify()
}

// purge clears both durable keys; the pair is stored both-or-neither.
func (s *Store) purge() {
	_ = s.storage.Delete(tokenKey)
	_ = s.storage.Delete(userKey)
}

// Login transitions Anonymous -> Authenticated. Both fields are persisted
// before the in-memory state changes, so observers never see a half-set pair.
func (s *Store) Login(token string, usr User) error {
	rawUser, err := json.Marshal(usr)
	if err != nil {
		return errors.Wrap(err, "serializing user")
	}
	if err := s.storage.Set(tokenKey, token); err != nil {
		return errors.Wrap(err, "persisting token")
	}
	if err := s.storage.Set(userKey, string(rawUser)); err != nil {
		_ = s.storage.Delete(tokenKey)
		return errors.Wrap(err, "persisting user")
	}

	s.mu.Lock()
	s.token = token
	s.user = &usr
	s.mu.Unlock()
	s.notify()
	return nil
}

// Logout transitions Authenticated -> Anonymous, clearing durable storage
// before the in-memory state.
func (s *Store) Logout() error {
	if err := s.storage.Delete(tokenKey); err != nil {
		return errors.Wrap(err, "clearing token")
	}
	if err := s.storage.Delete(userKey); err != nil {
		return errors.Wrap(err, "clearing user")
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	s.notify()
	return nil
}

// Token implements gateway.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	usr := *s.user
	return &usr
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

func (s *Store) CurrentState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Token: s.token, User: s.user}
}

// Subscribe registers fn to be called after every state transition.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	state := State{Token: s.token, User: s.user}
	subs := make([]func(State), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(state)
	}
}

// tokenExpired inspects the token's exp claim without verifying the
// signature (only the backend holds the key). Opaque, non-JWT tokens are
// assumed live and left to the backend to reject.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return false
	}
	return !claims.VerifyExpiresAt(time.Now().Unix(), false)
}
