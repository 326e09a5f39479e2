package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

var keyringColumns = []string{
	"user_id",
	"salt",
	"kdf",
	"kdf_params",
	"key_check",
	"recovery_hash",
	"created_at",
}

// keyringRepository is the SQL implementation of [KeyringRepository].
type keyringRepository struct {
	*DB
	logger *logger.Logger
}

// NewKeyringRepository constructs a [KeyringRepository] backed by db.
func NewKeyringRepository(db *DB, logger *logger.Logger) KeyringRepository {
	return &keyringRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *keyringRepository) GetKeyring(ctx context.Context, userID string) (models.UserKeyring, error) {
	query, args, err := r.builder.Select(keyringColumns...).
		From(models.UserKeyring{}.TableName()).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return models.UserKeyring{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var k models.UserKeyring
	err = r.withRetry(ctx, func() error {
		var scanErr error
		k, scanErr = scanKeyring(r.QueryRowContext(ctx, query, args...))
		return scanErr
	})
	if err != nil {
		return models.UserKeyring{}, notFound(err)
	}
	return k, nil
}

// SaveKeyring upserts on user_id. ON CONFLICT ... DO UPDATE is understood by
// both PostgreSQL and SQLite.
func (r *keyringRepository) SaveKeyring(ctx context.Context, k models.UserKeyring) error {
	var check sql.NullString
	if k.KeyCheck != nil {
		raw, err := json.Marshal(k.KeyCheck)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrEncodingColumn, err)
		}
		check = sql.NullString{String: string(raw), Valid: true}
	}

	params, err := json.Marshal(k.KDFParams)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingColumn, err)
	}

	upsert := r.builder.Insert(k.TableName()).
		Columns(keyringColumns...).
		Values(k.UserID, k.Salt, k.KDF, string(params), check, k.RecoveryHash, k.CreatedAt).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET " +
			"salt = excluded.salt, kdf = excluded.kdf, kdf_params = excluded.kdf_params, " +
			"key_check = excluded.key_check, recovery_hash = excluded.recovery_hash")

	if _, err := execAffecting(ctx, r.DB.DB, upsert); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "keyringRepository.SaveKeyring").
			Str("user_id", k.UserID).
			Msg("failed to save keyring")
		return err
	}
	return nil
}

func scanKeyring(row rowScanner) (models.UserKeyring, error) {
	var (
		k      models.UserKeyring
		params string
		check  sql.NullString
	)
	if err := row.Scan(&k.UserID, &k.Salt, &k.KDF, &params, &check, &k.RecoveryHash, &k.CreatedAt); err != nil {
		return models.UserKeyring{}, err
	}
	if params != "" {
		if err := json.Unmarshal([]byte(params), &k.KDFParams); err != nil {
			return models.UserKeyring{}, fmt.Errorf("%w: %w", ErrEncodingColumn, err)
		}
	}
	if check.Valid && check.String != "" {
		var blob models.EncryptedBlob
		if err := json.Unmarshal([]byte(check.String), &blob); err != nil {
			return models.UserKeyring{}, fmt.Errorf("%w: %w", ErrEncodingColumn, err)
		}
		k.KeyCheck = &blob
	}
	return k, nil
}
