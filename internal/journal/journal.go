// Package journal stores private journal entries. Content is sealed by the
// key service before it reaches the store and opened again on the way out.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/crypto"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/store"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/utils"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/validators"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

var (
	ErrEntryNotFound = errors.New("journal entry not found")
	ErrMissingUser   = errors.New("user id is required")
)

// Entry is an opened journal entry.
type Entry struct {
	EntryID string `json:"entry_id"`
	models.JournalContent
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Journal is the private journal of the signed-in user.
type Journal struct {
	sealer    crypto.Sealer
	entries   store.JournalRepository
	validator validators.Validator
	ids       *utils.UUIDGenerator
	now       func() time.Time
	logger    *logger.Logger
}

func New(sealer crypto.Sealer, entries store.JournalRepository, log *logger.Logger) *Journal {
	return &Journal{
		sealer:    sealer,
		entries:   entries,
		validator: validators.NewJournalValidator(),
		ids:       utils.NewUUIDGenerator(),
		now:       time.Now,
		logger:    log,
	}
}

// Add seals content and stores it as a new entry.
func (j *Journal) Add(ctx context.Context, userID string, content models.JournalContent) (Entry, error) {
	if userID == "" {
		return Entry{}, ErrMissingUser
	}
	if err := j.validator.Validate(ctx, content); err != nil {
		return Entry{}, err
	}

	blob, err := j.sealer.EncryptJSON(content)
	if err != nil {
		return Entry{}, fmt.Errorf("sealing journal entry: %w", err)
	}

	now := j.now()
	record := models.JournalEntry{
		EntryID:   j.ids.Generate(),
		UserID:    userID,
		Blob:      blob,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := j.entries.SaveEntry(ctx, record); err != nil {
		return Entry{}, err
	}

	logger.FromContext(ctx).Debug().Str("entry_id", record.EntryID).Msg("journal entry added")
	return Entry{EntryID: record.EntryID, JournalContent: content, CreatedAt: now, UpdatedAt: now}, nil
}

// Get opens one entry.
func (j *Journal) Get(ctx context.Context, userID, entryID string) (Entry, error) {
	record, err := j.entries.GetEntry(ctx, userID, entryID)
	if err != nil {
		return Entry{}, notFound(err)
	}
	return j.open(record)
}

// List opens every entry of userID. One entry that fails to open fails the
// whole listing.
func (j *Journal) List(ctx context.Context, userID string) ([]Entry, error) {
	records, err := j.entries.ListEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(records))
	for _, r := range records {
		e, err := j.open(r)
		if err != nil {
			j.logger.Warn().Err(err).Str("entry_id", r.EntryID).Msg("journal entry could not be opened")
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Update replaces the content of an existing entry.
func (j *Journal) Update(ctx context.Context, userID, entryID string, content models.JournalContent) (Entry, error) {
	if err := j.validator.Validate(ctx, content); err != nil {
		return Entry{}, err
	}

	record, err := j.entries.GetEntry(ctx, userID, entryID)
	if err != nil {
		return Entry{}, notFound(err)
	}

	blob, err := j.sealer.EncryptJSON(content)
	if err != nil {
		return Entry{}, fmt.Errorf("sealing journal entry: %w", err)
	}
	record.Blob = blob
	record.UpdatedAt = j.now()

	if err := j.entries.UpdateEntry(ctx, record); err != nil {
		return Entry{}, notFound(err)
	}
	return Entry{EntryID: entryID, JournalContent: content, CreatedAt: record.CreatedAt, UpdatedAt: record.UpdatedAt}, nil
}

// Delete removes an entry.
func (j *Journal) Delete(ctx context.Context, userID, entryID string) error {
	return notFound(j.entries.DeleteEntry(ctx, userID, entryID))
}

func (j *Journal) open(record models.JournalEntry) (Entry, error) {
	var content models.JournalContent
	if err := j.sealer.DecryptJSON(record.Blob, &content); err != nil {
		return Entry{}, err
	}
	return Entry{
		EntryID:        record.EntryID,
		JournalContent: content,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}, nil
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrEntryNotFound
	}
	return err
}
