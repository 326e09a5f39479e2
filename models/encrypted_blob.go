// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Algorithm tags written into EncryptedBlob.AlgorithmTag.
const (
	AlgorithmAES256GCM         = "AES-256-GCM"
	AlgorithmXChaCha20Poly1305 = "XChaCha20-Poly1305"
)

// EncryptedBlob is the only form in which sensitive payloads may be written
// to the document store.
type EncryptedBlob struct {
	Ciphertext   []byte    `json:"ciphertext"`
	IV           []byte    `json:"iv"`
	AlgorithmTag string    `json:"alg"`
	CreatedAt    time.Time `json:"created_at"`
}
