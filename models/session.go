// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// AuthMethod records how the user proved their identity for a session.
type AuthMethod string

const (
	AuthMethodPassword AuthMethod = "password"
	AuthMethodWebAuthn AuthMethod = "webauthn"
	AuthMethodRecovery AuthMethod = "recovery"
)

// DeviceInfo describes the client a session was opened from.
type DeviceInfo struct {
	UserAgent string `json:"user_agent"`
	Platform  string `json:"platform"`
	Label     string `json:"label"`
	IPAddress string `json:"ip_address"`
}

// Session is one authenticated tab/process.
//
// Sessions are never hard-deleted when they end: IsActive flips to false and
// TerminationReason records why.
type Session struct {
	SessionID         string     `json:"session_id"`
	UserID            string     `json:"user_id"`
	Fingerprint       string     `json:"-"`
	AuthMethod        AuthMethod `json:"auth_method"`
	CreatedAt         time.Time  `json:"created_at"`
	LastActivityAt    time.Time  `json:"last_activity_at"`
	ExpiresAt         time.Time  `json:"expires_at"`
	DeviceInfo        DeviceInfo `json:"device_info"`
	IPAddress         string     `json:"ip_address"`
	IsActive          bool       `json:"is_active"`
	TerminatedAt      *time.Time `json:"terminated_at,omitempty"`
	TerminationReason string     `json:"termination_reason,omitempty"`
}

// TableName returns the name of the collection holding sessions.
func (s Session) TableName() string {
	return "sessions"
}
