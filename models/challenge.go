// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ChallengePurpose binds a challenge to one kind of ceremony.
type ChallengePurpose string

const (
	PurposeRegistration   ChallengePurpose = "registration"
	PurposeAuthentication ChallengePurpose = "authentication"
)

// Challenge is a single-use nonce issued for one ceremony.
//
// It is deleted as soon as a response is checked against it, and swept by
// the garbage collector once ExpiresAt has passed. A challenge must never be
// consumable twice.
type Challenge struct {
	ChallengeID string           `json:"challenge_id"`
	Nonce       []byte           `json:"nonce"`
	Purpose     ChallengePurpose `json:"purpose"`

	// Subject is the user id (registration) or login subject such as an
	// email address (authentication) the challenge was issued for.
	Subject string `json:"subject"`

	// UserID is set for registration challenges and filled in from the
	// credential set for authentication challenges.
	UserID string `json:"user_id"`

	// AllowedCredentials restricts an authentication challenge to the
	// credential ids owned by Subject.
	AllowedCredentials []string `json:"allowed_credentials,omitempty"`

	// DisplayName and Kind carry registration parameters from Begin to Finish.
	DisplayName string            `json:"display_name,omitempty"`
	Kind        AuthenticatorKind `json:"kind,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TableName returns the name of the collection holding challenges.
func (c Challenge) TableName() string {
	return "challenges"
}

// Expired reports whether the challenge is no longer usable at now.
func (c Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Allows reports whether credentialID is in the challenge's allow list.
// An empty allow list allows nothing.
func (c Challenge) Allows(credentialID string) bool {
	for _, id := range c.AllowedCredentials {
		if id == credentialID {
			return true
		}
	}
	return false
}
