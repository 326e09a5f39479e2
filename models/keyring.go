// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// UserKeyring is the per-user salt record stored alongside the user.
//
// None of its fields are secret: the salt is public by design, KeyCheck is a
// ciphertext of a fixed marker used to tell a wrong secret apart at login, and
// RecoveryHash is a one-way hash of the recovery key.
type UserKeyring struct {
	UserID       string         `json:"user_id"`
	Salt         []byte         `json:"salt"`
	KDF          string         `json:"kdf"`
	KDFParams    KDFParams      `json:"kdf_params"`
	KeyCheck     *EncryptedBlob `json:"key_check,omitempty"`
	RecoveryHash string         `json:"recovery_hash,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// KDFParams are the cost parameters the user's key was first derived with.
// They are fixed at enrollment so a later config change cannot lock the user
// out. Zero fields come from records written before the parameters were kept.
type KDFParams struct {
	Iterations int    `json:"iterations,omitempty"`
	Time       uint32 `json:"time,omitempty"`
	Memory     uint32 `json:"memory,omitempty"`
	Threads    uint8  `json:"threads,omitempty"`
}

// TableName returns the name of the collection holding keyrings.
func (k UserKeyring) TableName() string {
	return "user_keyrings"
}
