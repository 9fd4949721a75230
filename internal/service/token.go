package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/msomdec/event-registry/internal/domain"
)

// TokenSigner issues and verifies stateless bearer tokens carrying a
// caller identity. Verification is a pure function of the token and the
// signing secret; there is no revocation list, so a token stays valid
// until its expiry even after client-side logout.
type TokenSigner interface {
	Sign(caller domain.Caller) (string, error)
	Verify(token string) (domain.Caller, error)
}

// JWTSigner implements TokenSigner with HMAC-SHA256 JWTs.
type JWTSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTSigner creates a JWTSigner issuing tokens valid for ttl.
func NewJWTSigner(secret string, ttl time.Duration) *JWTSigner {
	return &JWTSigner{secret: []byte(secret), ttl: ttl}
}

func (s *JWTSigner) Sign(caller domain.Caller) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(caller.UserID, 10),
		"email": caller.Email,
		"role":  caller.Role.String(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses the token and reconstructs the caller from its claims.
// Missing, malformed, expired, and forged tokens all surface as
// ErrUnauthorized.
func (s *JWTSigner) Verify(tokenString string) (domain.Caller, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return domain.Caller{}, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return domain.Caller{}, domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return domain.Caller{}, domain.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return domain.Caller{}, domain.ErrUnauthorized
	}

	email, _ := claims["email"].(string)
	roleClaim, _ := claims["role"].(string)
	role, err := domain.ParseRole(roleClaim)
	if err != nil {
		return domain.Caller{}, domain.ErrUnauthorized
	}

	return domain.Caller{UserID: userID, Email: email, Role: role}, nil
}
