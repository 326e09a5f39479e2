package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

// GenerateAccessToken creates a signed HMAC-SHA256 access token bound to one
// session.
//
// The token carries the standard claims iss, sub (the user id), jti (a fresh
// random id, so two tokens minted in the same second still differ), iat and
// exp, plus sid (the session id).
//
// issuer, userID, sessionID, ttl and signKey are required.
//
// Example usage:
//
//	token, err := utils.GenerateAccessToken("securecore", "u1", sid, time.Now(), 15*time.Minute, key)
func GenerateAccessToken(issuer, userID, sessionID string, now time.Time, ttl time.Duration, signKey string) (models.AccessToken, error) {
	if issuer == "" || userID == "" || sessionID == "" || ttl <= 0 || signKey == "" {
		return models.AccessToken{}, errors.New("invalid params for generating access token")
	}

	expiresAt := now.Add(ttl)
	claims := &models.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SessionID: sessionID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signKey))
	if err != nil {
		return models.AccessToken{}, fmt.Errorf("error occurred during signing access token: %w", err)
	}

	return models.AccessToken{
		Token:     signed,
		SessionID: sessionID,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateAccessToken verifies signature, issuer and expiry of tokenString at
// now and returns its claims. An expired token yields an error matching
// [jwt.ErrTokenExpired].
func ValidateAccessToken(tokenString, signKey, issuer string, now time.Time) (*models.AccessClaims, error) {
	claims := &models.AccessClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if claims.Subject == "" {
		return nil, errors.New("empty subject error")
	}
	if claims.SessionID == "" {
		return nil, errors.New("empty session id error")
	}

	return claims, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authorizationHeader), " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
