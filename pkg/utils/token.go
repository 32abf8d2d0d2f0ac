package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// AccessClaims identifies the user and the issued token row behind a bearer
// token.
type AccessClaims struct {
	UserUUID uuid.UUID
	TokenID  uuid.UUID
}

// TokenIssuer signs and parses HS256 access tokens. A zero ttl issues tokens
// without an exp claim.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for userUUID and the fresh token id it carries
// as jti.
func (i *TokenIssuer) Issue(userUUID uuid.UUID) (string, uuid.UUID, error) {
	tokenID := uuid.New()
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:  userUUID.String(),
		ID:       tokenID.String(),
		IssuedAt: jwt.NewNumericDate(now),
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, tokenID, nil
}

func (i *TokenIssuer) Parse(tokenString string) (AccessClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return AccessClaims{}, ErrInvalidToken
	}

	userUUID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return AccessClaims{}, ErrInvalidToken
	}
	tokenID, err := uuid.Parse(claims.ID)
	if err != nil {
		return AccessClaims{}, ErrInvalidToken
	}
	return AccessClaims{UserUUID: userUUID, TokenID: tokenID}, nil
}

// BearerToken extracts the token from an Authorization header value, or
// returns "" when the header is not a bearer credential.
func BearerToken(authHeader string) string {
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}
