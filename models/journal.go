// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// JournalEntry is a private journal entry as persisted: the content is an
// EncryptedBlob, never plaintext.
type JournalEntry struct {
	EntryID   string        `json:"entry_id"`
	UserID    string        `json:"user_id"`
	Blob      EncryptedBlob `json:"blob"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TableName returns the name of the collection holding journal entries.
func (j JournalEntry) TableName() string {
	return "journal_entries"
}

// JournalContent is the plaintext shape sealed inside JournalEntry.Blob.
type JournalContent struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Mood  string   `json:"mood,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}
