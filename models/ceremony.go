// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// CeremonyState is the lifecycle of one challenge/response interaction.
type CeremonyState string

const (
	CeremonyChallengeIssued  CeremonyState = "challenge_issued"
	CeremonyResponseReceived CeremonyState = "response_received"
	CeremonyVerified         CeremonyState = "verified"
	CeremonyRejected         CeremonyState = "rejected"
	CeremonyExpired          CeremonyState = "expired"
)

// Client data types placed into CollectedClientData.Type.
const (
	ClientDataCreate = "webauthn.create"
	ClientDataGet    = "webauthn.get"
)

// RegistrationRequest starts a registration ceremony.
type RegistrationRequest struct {
	UserID      string            `json:"user_id"`
	DisplayName string            `json:"display_name"`
	Subject     string            `json:"subject"`
	Kind        AuthenticatorKind `json:"kind"`
}

// CeremonyOptions is what the verifier hands to the authenticator.
type CeremonyOptions struct {
	ChallengeID    string            `json:"challenge_id"`
	Challenge      []byte            `json:"challenge"`
	Purpose        ChallengePurpose  `json:"purpose"`
	RelyingPartyID string            `json:"rp_id"`
	Origin         string            `json:"origin"`
	UserID         string            `json:"user_id,omitempty"`
	DisplayName    string            `json:"display_name,omitempty"`
	Subject        string            `json:"subject,omitempty"`
	Kind           AuthenticatorKind `json:"kind,omitempty"`

	// AllowCredentials lists the credential ids acceptable for an
	// authentication ceremony.
	AllowCredentials []string `json:"allow_credentials,omitempty"`

	// ExcludeCredentials lists ids already registered for the user; an
	// authenticator holding one of them must refuse to create a new one.
	ExcludeCredentials []string `json:"exclude_credentials,omitempty"`

	Timeout   time.Duration `json:"timeout"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// CollectedClientData is the JSON document signed (by hash) in every response.
type CollectedClientData struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
	Origin    string `json:"origin"`
}

// AttestationResponse is returned by the authenticator's create primitive.
type AttestationResponse struct {
	ChallengeID  string            `json:"challenge_id"`
	CredentialID string            `json:"credential_id"`
	PublicKey    []byte            `json:"public_key"`
	AAGUID       string            `json:"aaguid"`
	Kind         AuthenticatorKind `json:"kind"`
	DeviceLabel  string            `json:"device_label"`

	ClientDataJSON    []byte `json:"client_data_json"`
	AuthenticatorData []byte `json:"authenticator_data"`

	// Signature is a self-attestation made with the new private key over
	// AuthenticatorData ‖ SHA-256(ClientDataJSON).
	Signature []byte `json:"signature"`
}

// AssertionResponse is returned by the authenticator's get primitive.
type AssertionResponse struct {
	ChallengeID       string `json:"challenge_id"`
	CredentialID      string `json:"credential_id"`
	ClientDataJSON    []byte `json:"client_data_json"`
	AuthenticatorData []byte `json:"authenticator_data"`
	Signature         []byte `json:"signature"`
	UserHandle        string `json:"user_handle"`
}

// AuthenticationResult is the outcome of a verified authentication ceremony.
type AuthenticationResult struct {
	UserID       string        `json:"user_id"`
	CredentialID string        `json:"credential_id"`
	State        CeremonyState `json:"state"`
}
