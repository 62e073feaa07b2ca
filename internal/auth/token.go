package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour

	// Refresh claims carry no username, so access tokens minted through
	// the refresh flow get this placeholder instead of the real one.
	refreshUsernamePlaceholder = "unknown"
)

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenMalformed = errors.New("token malformed")
)

type AccessClaims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies the two token kinds with independent
// secrets, so a token of one kind can never verify as the other.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenCodec(accessSecret, refreshSecret string) *TokenCodec {
	return &TokenCodec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     defaultAccessTTL,
		refreshTTL:    defaultRefreshTTL,
	}
}

func (c *TokenCodec) WithTTLs(accessTTL, refreshTTL time.Duration) {
	if accessTTL > 0 {
		c.accessTTL = accessTTL
	}
	if refreshTTL > 0 {
		c.refreshTTL = refreshTTL
	}
}

func (c *TokenCodec) RefreshTTL() time.Duration {
	return c.refreshTTL
}

func (c *TokenCodec) IssueAccess(userID int64, username string) (string, error) {
	now := time.Now().UTC()
	claims := AccessClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		},
	}

	encoded, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return encoded, nil
}

func (c *TokenCodec) IssueRefresh(userID int64) (string, error) {
	now := time.Now().UTC()
	claims := RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.refreshTTL)),
		},
	}

	encoded, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return encoded, nil
}

func (c *TokenCodec) VerifyAccess(tokenStr string) (AccessClaims, error) {
	var claims AccessClaims
	if err := verify(tokenStr, &claims, c.accessSecret); err != nil {
		return AccessClaims{}, err
	}
	return claims, nil
}

func (c *TokenCodec) VerifyRefresh(tokenStr string) (RefreshClaims, error) {
	var claims RefreshClaims
	if err := verify(tokenStr, &claims, c.refreshSecret); err != nil {
		return RefreshClaims{}, err
	}
	return claims, nil
}

func verify(tokenStr string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return ErrTokenSignature
		default:
			return ErrTokenMalformed
		}
	}
	if !token.Valid {
		return ErrTokenMalformed
	}

	return nil
}
