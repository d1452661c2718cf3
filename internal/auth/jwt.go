package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/sebuszqo/BudgetKeeper/internal/config"
)

var (
	ErrInvalidJWTToken = errors.New("JWT token is invalid")
	ErrExpiredJWTToken = errors.New("JWT token is expired")
)

type TokenManagerInterface interface {
	GenerateAccessToken(userID, username, role string) (string, error)
	ValidateAccessToken(tokenString string) (*AccessTokenClaims, error)
	GenerateRefreshToken() (string, error)
}

type AccessTokenClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.StandardClaims
}

// TokenManager signs short-lived access tokens and mints opaque refresh
// tokens. Secret, issuer, audience and lifetime all come from the injected
// configuration; construction fails rather than signing with an empty key.
type TokenManager struct {
	secret         string
	issuer         string
	audience       string
	accessTokenTTL time.Duration
}

func NewTokenManager(cfg *config.Config) (*TokenManager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT secret must not be empty")
	}
	return &TokenManager{
		secret:         cfg.JWTSecret,
		issuer:         cfg.JWTIssuer,
		audience:       cfg.JWTAudience,
		accessTokenTTL: cfg.AccessTokenTTL,
	}, nil
}

func (m *TokenManager) GenerateAccessToken(userID, username, role string) (string, error) {
	now := time.Now()
	claims := &AccessTokenClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			Audience:  m.audience,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.accessTokenTTL).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}

// ValidateAccessToken checks signature, issuer, audience and expiry, and
// returns the embedded claims.
func (m *TokenManager) ValidateAccessToken(tokenString string) (*AccessTokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidJWTToken
		}
		return []byte(m.secret), nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) {
			if validationErr.Errors&(jwt.ValidationErrorExpired) != 0 {
				return nil, ErrExpiredJWTToken
			}
		}
		return nil, ErrInvalidJWTToken
	}

	claims, ok := token.Claims.(*AccessTokenClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidJWTToken
	}
	if !claims.VerifyIssuer(m.issuer, true) {
		return nil, ErrInvalidJWTToken
	}
	if !claims.VerifyAudience(m.audience, true) {
		return nil, ErrInvalidJWTToken
	}
	return claims, nil
}

// GenerateRefreshToken returns 32 random bytes hex-encoded: an opaque value
// with no embedded claims and 256 bits of entropy.
func (m *TokenManager) GenerateRefreshToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(tokenBytes), nil
}
