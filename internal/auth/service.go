package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired refresh token")
	ErrInternalError         = errors.New("internal server error")
)

// TokenPair is what both login and refresh hand back to the caller.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Service interface {
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
}

type service struct {
	repo            UserRepository
	tokenManager    TokenManagerInterface
	refreshTokenTTL time.Duration
}

func NewAuthService(repo UserRepository, tokenManager TokenManagerInterface, refreshTokenTTL time.Duration) Service {
	return &service{
		repo:            repo,
		tokenManager:    tokenManager,
		refreshTokenTTL: refreshTokenTTL,
	}
}

// Login checks the credential and, on success, issues a fresh token pair and
// overwrites the stored refresh token. Every failure surfaces as
// ErrInvalidCredentials so the response never reveals which part was wrong.
func (s *service) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	existingUser, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Printf("error when getting user from database: %v", err)
		return nil, ErrInternalError
	}

	if !doPasswordsMatch(existingUser.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokenManager.GenerateAccessToken(existingUser.ID, existingUser.Username, existingUser.Role)
	if err != nil {
		log.Printf("error during access token generation: %v", err)
		return nil, ErrInternalError
	}
	refreshToken, err := s.tokenManager.GenerateRefreshToken()
	if err != nil {
		log.Printf("error during refresh token generation: %v", err)
		return nil, ErrInternalError
	}

	expiresAt := time.Now().UTC().Add(s.refreshTokenTTL)
	if err := s.repo.SetRefreshToken(ctx, existingUser.ID, refreshToken, expiresAt); err != nil {
		log.Printf("error persisting refresh token: %v", err)
		return nil, ErrInternalError
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh exchanges a stored refresh token for a new pair, rotating the
// refresh token so the presented value is single-use. The rotation is a
// compare-and-swap in the repository: if a concurrent refresh got there
// first, this call fails like any other replay.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	existingUser, err := s.repo.GetUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		log.Printf("error when getting user by refresh token: %v", err)
		return nil, ErrInternalError
	}

	if !existingUser.RefreshTokenExpiresAt.Valid || time.Now().UTC().After(existingUser.RefreshTokenExpiresAt.Time) {
		return nil, ErrInvalidOrExpiredToken
	}

	accessToken, err := s.tokenManager.GenerateAccessToken(existingUser.ID, existingUser.Username, existingUser.Role)
	if err != nil {
		log.Printf("error during access token generation: %v", err)
		return nil, ErrInternalError
	}
	newRefreshToken, err := s.tokenManager.GenerateRefreshToken()
	if err != nil {
		log.Printf("error during refresh token generation: %v", err)
		return nil, ErrInternalError
	}

	expiresAt := time.Now().UTC().Add(s.refreshTokenTTL)
	err = s.repo.RotateRefreshToken(ctx, existingUser.ID, refreshToken, newRefreshToken, expiresAt)
	if err != nil {
		if errors.Is(err, ErrRefreshTokenRotated) {
			return nil, ErrInvalidOrExpiredToken
		}
		log.Printf("error rotating refresh token: %v", err)
		return nil, ErrInternalError
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

func doPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword(
		[]byte(hashedPassword), []byte(currPassword))
	return err == nil
}
