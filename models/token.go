// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RefreshToken is the persisted half of a refresh token.
//
// The raw token only lives in volatile memory; the store keeps TokenHash
// (hex HMAC-SHA256 of the raw value). Exactly one token per session has
// IsValid set. Once UsedAt is set the token never becomes usable again.
type RefreshToken struct {
	TokenHash   string     `json:"-"`
	SessionID   string     `json:"session_id"`
	UserID      string     `json:"user_id"`
	Fingerprint string     `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	UsedAt      *time.Time `json:"used_at,omitempty"`
	RotatedAt   *time.Time `json:"rotated_at,omitempty"`
	IsValid     bool       `json:"is_valid"`
}

// TableName returns the name of the collection holding refresh tokens.
func (t RefreshToken) TableName() string {
	return "refresh_tokens"
}

// AccessToken is a short-lived signed token returned to callers.
type AccessToken struct {
	Token     string    `json:"access_token"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenPair is a freshly minted access + refresh pair. RefreshToken is the raw
// value and must only be kept in volatile storage.
type TokenPair struct {
	Access           AccessToken `json:"access"`
	RefreshToken     string      `json:"-"`
	RefreshExpiresAt time.Time   `json:"refresh_expires_at"`
}

// AccessClaims are the JWT claims embedded in every access token.
type AccessClaims struct {
	jwt.RegisteredClaims

	// SessionID binds the token to one session.
	SessionID string `json:"sid"`
}
