package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	e "github.com/gartstein/workforce/internal/workforce/errors"
	"github.com/gartstein/workforce/internal/workforce/models"
	"github.com/gartstein/workforce/internal/workforce/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository loads the accounts that may log in.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// Result is a token issued by Login or Refresh.
type Result struct {
	Token     string
	User      *models.User
	ExpiresAt time.Time
}

// Gateway issues, rotates and revokes session tokens and authenticates
// requests against the session store.
type Gateway struct {
	users  UserRepository
	store  SessionStore
	tokens *TokenIssuer
	engine *validation.Engine
	logger *zap.Logger
}

func NewGateway(users UserRepository, store SessionStore, tokens *TokenIssuer, logger *zap.Logger) *Gateway {
	return &Gateway{
		users:  users,
		store:  store,
		tokens: tokens,
		engine: validation.NewEngine(nil),
		logger: logger.Named("auth_gateway"),
	}
}

// Login checks the credentials in input and starts a new session. Invalid
// input is reported as validation.Errors, wrong credentials as
// e.ErrUnauthorized.
func (g *Gateway) Login(ctx context.Context, input validation.Input) (*Result, error) {
	errs, err := g.engine.Validate(ctx, validation.Login, input)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs
	}

	email := *input.String("email")
	password := *input.String("password")

	user, err := g.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			g.logger.Info("Login for unknown user", zap.String("email", email))
			return nil, e.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		g.logger.Info("Login with wrong password", zap.Int64("user_id", user.ID))
		return nil, e.ErrUnauthorized
	}

	sessionID := uuid.NewString()
	token, claims, err := g.tokens.Issue(user.ID, sessionID)
	if err != nil {
		return nil, err
	}
	expiresAt := claims.ExpiresAt.Time
	if err := g.store.Create(ctx, &Session{
		ID:        sessionID,
		UserID:    user.ID,
		TokenID:   claims.ID,
		ExpiresAt: expiresAt,
	}); err != nil {
		return nil, err
	}

	g.logger.Info("User logged in", zap.Int64("user_id", user.ID), zap.String("session_id", sessionID))
	return &Result{Token: token, User: user, ExpiresAt: expiresAt}, nil
}

// Refresh replaces the token of the caller's session. The presented token
// stops being accepted once the new one is issued.
func (g *Gateway) Refresh(ctx context.Context, claims *Claims) (*Result, error) {
	userID, err := claims.UserID()
	if err != nil {
		return nil, e.ErrUnauthenticated
	}
	user, err := g.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	token, next, err := g.tokens.Issue(userID, claims.SessionID)
	if err != nil {
		return nil, err
	}
	expiresAt := next.ExpiresAt.Time
	if err := g.store.Rotate(ctx, claims.SessionID, next.ID, expiresAt); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, e.ErrUnauthenticated
		}
		return nil, err
	}

	g.logger.Debug("Session token rotated", zap.String("session_id", claims.SessionID))
	return &Result{Token: token, User: user, ExpiresAt: expiresAt}, nil
}

// Logout ends the caller's session. Every token of the session, including
// one issued by a concurrent Refresh, is rejected afterwards.
func (g *Gateway) Logout(ctx context.Context, claims *Claims) error {
	if err := g.store.Revoke(ctx, claims.SessionID); err != nil {
		return err
	}
	g.logger.Info("User logged out", zap.String("user_id", claims.Subject), zap.String("session_id", claims.SessionID))
	return nil
}

// Authenticate accepts a token only if it is validly signed, unexpired and
// still the current token of a live session.
func (g *Gateway) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := g.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", e.ErrUnauthenticated, err)
	}

	session, err := g.store.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: session ended", e.ErrUnauthenticated)
		}
		return nil, err
	}
	if session.TokenID != claims.ID {
		return nil, fmt.Errorf("%w: token superseded", e.ErrUnauthenticated)
	}
	return claims, nil
}

// HashPassword returns the bcrypt hash stored for a user password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
