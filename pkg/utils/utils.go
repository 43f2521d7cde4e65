package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims carries the anonymous web session id. The signature only
// proves the cookie was minted by this server; it is not an authentication
// credential.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

const sessionTokenLifetime = 365 * 24 * time.Hour

func GenerateSessionToken(sessionID, secret string) (string, error) {
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTokenLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken returns the session id from a signed token, or an error
// for anything tampered, expired, or signed with a different key.
func ParseSessionToken(tokenString, secret string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.SessionID == "" {
		return "", fmt.Errorf("invalid session token")
	}
	return claims.SessionID, nil
}

// OriginHash fingerprints a network origin into a short stable hex string.
// Best effort only: shared or rotating addresses map many callers onto one
// key.
func OriginHash(origin string) string {
	sum := sha256.Sum256([]byte(origin))
	return hex.EncodeToString(sum[:])[:16]
}
