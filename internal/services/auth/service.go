// Package auth is the authentication collaborator: it owns accounts, verifies
// credentials and issues session tokens. Session modes only ever move to auth after
// this service has confirmed an identity.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/valnor-game/valnor/internal/dependencies/clock"
	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidUsername    = errors.New("username must be 3-32 characters")
	ErrInvalidPassword    = errors.New("password must be at least 8 characters")
)

// Session represents an authenticated session
type Session struct {
	Token     string
	ClientID  model.ClientID // client the token was issued to
	Identity  model.Identity
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ChangeKind describes an identity change
type ChangeKind string

const (
	SignedIn  ChangeKind = "signed_in"
	SignedOut ChangeKind = "signed_out"
	Expired   ChangeKind = "expired"
)

// Change is delivered to subscribers when a session starts or ends
type Change struct {
	Kind     ChangeKind
	ClientID model.ClientID
	Identity model.Identity
}

// Listener receives identity changes. It is called without any service lock held.
type Listener func(Change)

// Service handles authentication and session management
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	listenersMu sync.RWMutex
	listeners   map[int]Listener
	nextID      int

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new AuthService
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		logger:          logger,
		sessions:        make(map[string]*Session),
		listeners:       make(map[int]Listener),
		sessionDuration: cfg.SessionDuration,
	}
}

// Subscribe registers fn for identity changes and returns a function that removes it
func (s *Service) Subscribe(fn Listener) func() {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *Service) notify(change Change) {
	s.listenersMu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.listenersMu.RUnlock()

	for _, fn := range listeners {
		fn(change)
	}
}

// Register creates an account and signs the client in
func (s *Service) Register(ctx context.Context, clientID model.ClientID, username, password, displayName string) (*Session, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 32 {
		return nil, ErrInvalidUsername
	}
	if len(password) < 8 {
		return nil, ErrInvalidPassword
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = username
	}

	// Check if username exists
	_, err := s.storage.GetAccountByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameExists
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		return nil, err
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	account := &model.Account{
		ID:           model.AccountID(uuid.NewString()),
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, model.ErrAccountExists) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("save account: %w", err)
	}

	s.logger.Info("account registered",
		slog.String("account_id", string(account.ID)),
		slog.String("username", username))

	return s.createSession(clientID, account), nil
}

// Login verifies credentials and signs the client in
func (s *Service) Login(ctx context.Context, clientID model.ClientID, username, password string) (*Session, error) {
	account, err := s.storage.GetAccountByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login rejected", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}

	return s.createSession(clientID, account), nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		_, stillPresent := s.sessions[token]
		delete(s.sessions, token)
		s.mu.Unlock()
		if stillPresent {
			s.ended(Expired, session)
		}
		return nil, ErrInvalidSession
	}

	return session, nil
}

// Identity returns the identity behind token, or nil when the token is not valid
func (s *Service) Identity(token string) *model.Identity {
	session, err := s.ValidateSession(token)
	if err != nil {
		return nil
	}
	identity := session.Identity
	return &identity
}

// Logout removes a session and notifies subscribers
func (s *Service) Logout(token string) {
	s.mu.Lock()
	session, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if !ok {
		return
	}
	s.logger.Info("signed out", slog.String("account_id", string(session.Identity.AccountID)))
	s.ended(SignedOut, session)
}

// ended notifies listeners that session is gone, unless its client still holds
// another live token
func (s *Service) ended(kind ChangeKind, session *Session) {
	if s.hasLiveSession(session.ClientID) {
		return
	}
	s.notify(Change{Kind: kind, ClientID: session.ClientID, Identity: session.Identity})
}

func (s *Service) hasLiveSession(clientID model.ClientID) bool {
	now := s.clock.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, other := range s.sessions {
		if other.ClientID == clientID && !now.After(other.ExpiresAt) {
			return true
		}
	}
	return false
}

// createSession creates a new session for an account
func (s *Service) createSession(clientID model.ClientID, account *model.Account) *Session {
	now := s.clock.Now()

	session := &Session{
		Token:    s.generateID("sess_"),
		ClientID: clientID,
		Identity: model.Identity{
			AccountID:   account.ID,
			Username:    account.Username,
			DisplayName: account.DisplayName,
		},
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	s.notify(Change{Kind: SignedIn, ClientID: clientID, Identity: session.Identity})
	return session
}

// generateID generates a random ID with a prefix
func (s *Service) generateID(prefix string) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() int {
	now := s.clock.Now()

	var expired []*Session
	s.mu.Lock()
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
			expired = append(expired, session)
		}
	}
	s.mu.Unlock()

	for _, session := range expired {
		s.ended(Expired, session)
	}
	return len(expired)
}

// RunCleanup calls CleanExpiredSessions every interval until ctx is done
func (s *Service) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.CleanExpiredSessions(); n > 0 {
				s.logger.Debug("expired sessions removed", slog.Int("count", n))
			}
		}
	}
}
