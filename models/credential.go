// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// AuthenticatorKind tells whether a credential lives in a platform
// authenticator (built into the device) or in a roaming hardware key.
type AuthenticatorKind string

const (
	// PlatformAuthenticator is a biometric/PIN authenticator bound to the device.
	PlatformAuthenticator AuthenticatorKind = "platform"
	// CrossPlatformAuthenticator is a roaming security key (USB, NFC, BLE).
	CrossPlatformAuthenticator AuthenticatorKind = "cross-platform"
)

// Valid reports whether k is one of the supported authenticator kinds.
func (k AuthenticatorKind) Valid() bool {
	return k == PlatformAuthenticator || k == CrossPlatformAuthenticator
}

// Credential is a registered public-key credential.
//
// Everything except SignatureCounter and LastUsedAt is immutable after the
// registration ceremony. One user may own many credentials (one per device).
type Credential struct {
	// CredentialID is the authenticator-chosen public identifier (base64url).
	CredentialID string `json:"credential_id"`

	// PublicKey is the PKIX (DER) encoded ECDSA P-256 public key.
	PublicKey []byte `json:"public_key"`

	// SignatureCounter is the last counter value seen from the authenticator.
	// A response carrying a counter that is not strictly greater is treated
	// as a cloned authenticator.
	SignatureCounter uint32 `json:"signature_counter"`

	UserID            string            `json:"user_id"`
	Subject           string            `json:"subject"`
	AuthenticatorKind AuthenticatorKind `json:"authenticator_kind"`
	DeviceLabel       string            `json:"device_label"`
	AAGUID            string            `json:"aaguid"`
	CreatedAt         time.Time         `json:"created_at"`
	LastUsedAt        time.Time         `json:"last_used_at"`
}

// TableName returns the name of the collection holding credentials.
func (c Credential) TableName() string {
	return "credentials"
}

// AuthenticatorSupport is the result of the capability check.
type AuthenticatorSupport struct {
	PlatformAvailable      bool `json:"platform_available"`
	CrossPlatformAvailable bool `json:"cross_platform_available"`
}

// Supports reports whether an authenticator of the given kind is available.
func (s AuthenticatorSupport) Supports(kind AuthenticatorKind) bool {
	switch kind {
	case PlatformAuthenticator:
		return s.PlatformAvailable
	case CrossPlatformAuthenticator:
		return s.CrossPlatformAvailable
	default:
		return false
	}
}
