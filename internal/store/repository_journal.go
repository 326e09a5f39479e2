package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

var journalColumns = []string{
	"entry_id",
	"user_id",
	"ciphertext",
	"iv",
	"alg",
	"sealed_at",
	"created_at",
	"updated_at",
}

// journalRepository is the SQL implementation of [JournalRepository]. The
// blob is split across ciphertext, iv and alg; nothing in the table is
// plaintext.
type journalRepository struct {
	*DB
	logger *logger.Logger
}

// NewJournalRepository constructs a [JournalRepository] backed by db.
func NewJournalRepository(db *DB, logger *logger.Logger) JournalRepository {
	return &journalRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *journalRepository) SaveEntry(ctx context.Context, e models.JournalEntry) error {
	insert := r.builder.Insert(e.TableName()).
		Columns(journalColumns...).
		Values(e.EntryID, e.UserID, e.Blob.Ciphertext, e.Blob.IV, e.Blob.AlgorithmTag,
			e.Blob.CreatedAt, e.CreatedAt, e.UpdatedAt)

	if _, err := execAffecting(ctx, r.DB.DB, insert); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "journalRepository.SaveEntry").
			Str("user_id", e.UserID).
			Msg("failed to insert journal entry")
		return err
	}
	return nil
}

func (r *journalRepository) GetEntry(ctx context.Context, userID, entryID string) (models.JournalEntry, error) {
	query, args, err := r.builder.Select(journalColumns...).
		From(models.JournalEntry{}.TableName()).
		Where(sq.Eq{"entry_id": entryID, "user_id": userID}).
		ToSql()
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var e models.JournalEntry
	err = r.withRetry(ctx, func() error {
		var scanErr error
		e, scanErr = scanJournalEntry(r.QueryRowContext(ctx, query, args...))
		return scanErr
	})
	if err != nil {
		return models.JournalEntry{}, notFound(err)
	}
	return e, nil
}

func (r *journalRepository) ListEntries(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	query, args, err := r.builder.Select(journalColumns...).
		From(models.JournalEntry{}.TableName()).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var out []models.JournalEntry
	err = r.withRetry(ctx, func() error {
		rows, err := r.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		defer rows.Close()

		out = make([]models.JournalEntry, 0)
		for rows.Next() {
			e, err := scanJournalEntry(rows)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrScanningRow, err)
			}
			out = append(out, e)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "journalRepository.ListEntries").
			Str("user_id", userID).
			Msg("failed to list journal entries")
		return nil, err
	}
	return out, nil
}

func (r *journalRepository) UpdateEntry(ctx context.Context, e models.JournalEntry) error {
	update := r.builder.Update(e.TableName()).
		Set("ciphertext", e.Blob.Ciphertext).
		Set("iv", e.Blob.IV).
		Set("alg", e.Blob.AlgorithmTag).
		Set("sealed_at", e.Blob.CreatedAt).
		Set("updated_at", e.UpdatedAt).
		Where(sq.Eq{"entry_id": e.EntryID, "user_id": e.UserID})

	n, err := execAffecting(ctx, r.DB.DB, update)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "journalRepository.UpdateEntry").Msg("failed to update journal entry")
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *journalRepository) DeleteEntry(ctx context.Context, userID, entryID string) error {
	del := r.builder.Delete(models.JournalEntry{}.TableName()).
		Where(sq.Eq{"entry_id": entryID, "user_id": userID})

	n, err := execAffecting(ctx, r.DB.DB, del)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "journalRepository.DeleteEntry").Msg("failed to delete journal entry")
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanJournalEntry(row rowScanner) (models.JournalEntry, error) {
	var e models.JournalEntry
	err := row.Scan(
		&e.EntryID,
		&e.UserID,
		&e.Blob.Ciphertext,
		&e.Blob.IV,
		&e.Blob.AlgorithmTag,
		&e.Blob.CreatedAt,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return models.JournalEntry{}, err
	}
	return e, nil
}
