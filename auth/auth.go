// Package auth manages user accounts and login sessions. A session replaces
// the single global "current user": it is created on register or login,
// carried by the client as a signed token, and deleted on logout.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"geomarket/models"
	"geomarket/storage"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrMissingFields      = errors.New("username, email and password are required")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrEmailInUse         = errors.New("this email is already in use by another account")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrSessionExpired     = errors.New("session expired")
)

// Claims are carried inside a session token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Session is an authenticated user for the lifetime of a token.
type Session struct {
	ID        string      `json:"id"`
	User      models.User `json:"-"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type sessionRecord struct {
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type sessionStore map[string]sessionRecord

// RegisterInput carries a new account.
type RegisterInput struct {
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	ProfilePicture *string `json:"profilePicture"`
}

// UpdateInput carries profile changes. A nil ProfilePicture keeps the
// current picture.
type UpdateInput struct {
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	ProfilePicture *string `json:"profilePicture"`
}

// Service owns the users and sessions stores.
type Service struct {
	store    storage.Store
	logger   *zap.Logger
	secret   []byte
	lifetime time.Duration
	mu       sync.Mutex
	now      func() time.Time
}

// NewService creates an auth service signing tokens with secret.
func NewService(store storage.Store, logger *zap.Logger, secret []byte, lifetime time.Duration) *Service {
	return &Service{
		store:    store,
		logger:   logger,
		secret:   secret,
		lifetime: lifetime,
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) loadUsers(ctx context.Context) ([]models.User, error) {
	return storage.LoadJSON[[]models.User](ctx, s.store, storage.UsersKey, s.logger)
}

// Register creates an account and logs it in.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	username := strings.TrimSpace(input.Username)
	email := normalizeEmail(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email {
			return nil, ErrEmailTaken
		}
	}

	user := models.User{
		ID:             uuid.NewString(),
		Username:       username,
		Email:          email,
		ProfilePicture: input.ProfilePicture,
	}
	if err := user.HashPassword(input.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	users = append(users, user)
	if err := storage.SaveJSON(ctx, s.store, storage.UsersKey, users); err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}
	s.logger.Info("User registered", zap.String("user_id", user.ID))

	return s.issue(ctx, user)
}

// Login checks credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email && u.CheckPassword(password) {
			return s.issue(ctx, u)
		}
	}
	s.logger.Debug("Login rejected", zap.String("email", email))
	return nil, ErrInvalidCredentials
}

// Logout deletes the session. Unknown sessions are ignored.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := storage.LoadJSON[sessionStore](ctx, s.store, storage.SessionsKey, s.logger)
	if err != nil {
		return err
	}
	if _, ok := sessions[sessionID]; !ok {
		return nil
	}
	delete(sessions, sessionID)
	return storage.SaveJSON(ctx, s.store, storage.SessionsKey, sessions)
}

// GetUser returns the account with id.
func (s *Service) GetUser(ctx context.Context, id string) (models.User, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

// Update changes a user's profile. The email must stay unique.
func (s *Service) Update(ctx context.Context, userID string, input UpdateInput) (models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := normalizeEmail(input.Email)
	if username == "" || email == "" {
		return models.User{}, ErrMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return models.User{}, err
	}

	index := -1
	for i, u := range users {
		if u.ID == userID {
			index = i
			continue
		}
		if u.Email == email {
			return models.User{}, ErrEmailInUse
		}
	}
	if index == -1 {
		return models.User{}, ErrUserNotFound
	}

	updated := users[index]
	updated.Username = username
	updated.Email = email
	if input.ProfilePicture != nil {
		updated.ProfilePicture = input.ProfilePicture
	}
	users[index] = updated

	if err := storage.SaveJSON(ctx, s.store, storage.UsersKey, users); err != nil {
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

// issue records a new session for user and signs its token. Callers hold s.mu.
func (s *Service) issue(ctx context.Context, user models.User) (*Session, error) {
	now := s.now()
	expiresAt := now.Add(s.lifetime)
	sessionID := uuid.NewString()

	sessions, err := storage.LoadJSON[sessionStore](ctx, s.store, storage.SessionsKey, s.logger)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = sessionStore{}
	}
	for id, rec := range sessions {
		if !rec.ExpiresAt.After(now) {
			delete(sessions, id)
		}
	}
	sessions[sessionID] = sessionRecord{UserID: user.ID, ExpiresAt: expiresAt}

	claims := &Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	if err := storage.SaveJSON(ctx, s.store, storage.SessionsKey, sessions); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &Session{ID: sessionID, User: user, Token: tokenString, ExpiresAt: expiresAt}, nil
}

// Authenticate resolves a bearer token to a live session.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*Session, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}

	now := s.now()
	if !claims.ExpiresAt.Time.After(now) {
		return nil, ErrSessionExpired
	}

	sessions, err := storage.LoadJSON[sessionStore](ctx, s.store, storage.SessionsKey, s.logger)
	if err != nil {
		return nil, err
	}
	rec, ok := sessions[claims.ID]
	if !ok || rec.UserID != claims.Subject {
		return nil, ErrInvalidToken
	}
	if !rec.ExpiresAt.After(now) {
		return nil, ErrSessionExpired
	}

	user, err := s.GetUser(ctx, rec.UserID)
	if err != nil {
		return nil, err
	}
	return &Session{ID: claims.ID, User: user, Token: tokenString, ExpiresAt: rec.ExpiresAt}, nil
}
