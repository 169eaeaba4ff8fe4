package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lanwire/chathub-server/internal/store"
)

var (
	// ErrInvalidCredentials is returned when username/credential don't match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned when trying to register with existing username.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidUsername is returned when username doesn't meet constraints.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidCredential is returned when the credential doesn't meet constraints.
	ErrInvalidCredential = errors.New("invalid credential")
)

const (
	minUsernameLen   = 3
	maxUsernameLen   = 32
	minCredentialLen = 4
)

// DisplayAttrs are the optional display attributes supplied at registration.
type DisplayAttrs struct {
	Glyph string
	Bio   string
	Color string
}

// Service provides authentication operations against the identity store.
type Service struct {
	store     store.AccountStore
	jwtConfig *JWTConfig
}

// NewService creates a new authentication service.
func NewService(accountStore store.AccountStore, jwtConfig *JWTConfig) *Service {
	return &Service{
		store:     accountStore,
		jwtConfig: jwtConfig,
	}
}

// Register creates a standard-role account with hashed credential.
func (s *Service) Register(ctx context.Context, username, credential string, attrs DisplayAttrs) (*store.Account, error) {
	username = strings.TrimSpace(username)
	runes := []rune(username)
	if len(runes) < minUsernameLen || len(runes) > maxUsernameLen {
		return nil, ErrInvalidUsername
	}
	if len(credential) < minCredentialLen {
		return nil, ErrInvalidCredential
	}

	hash, err := HashCredential(credential)
	if err != nil {
		return nil, fmt.Errorf("hash credential: %w", err)
	}

	if attrs.Glyph == "" {
		attrs.Glyph = strings.ToUpper(string(runes[0]))
	}
	if attrs.Bio == "" {
		attrs.Bio = "A newly joined user."
	}
	if attrs.Color == "" {
		attrs.Color = "#5865F2"
	}

	acc := &store.Account{
		Username:       username,
		CredentialHash: hash,
		Glyph:          attrs.Glyph,
		Bio:            attrs.Bio,
		Role:           store.RoleStandard,
		Color:          attrs.Color,
		CreatedAt:      time.Now(),
	}
	if err := s.store.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return acc, nil
}

// Login verifies the credential and returns the account plus a reconnect token.
func (s *Service) Login(ctx context.Context, username, credential string) (*store.Account, string, error) {
	acc, err := s.store.GetAccount(ctx, username)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if errCmp := CompareCredential(acc.CredentialHash, credential); errCmp != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := GenerateToken(s.jwtConfig, acc.Username)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return acc, token, nil
}

// Reconnect validates a reconnect token and returns the account plus a fresh
// token. The identity must still exist.
func (s *Service) Reconnect(ctx context.Context, username, token string) (*store.Account, string, error) {
	claims, err := ValidateToken(s.jwtConfig, token)
	if err != nil || claims.Username != username {
		return nil, "", ErrInvalidCredentials
	}

	acc, err := s.store.GetAccount(ctx, username)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	fresh, err := GenerateToken(s.jwtConfig, acc.Username)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return acc, fresh, nil
}
