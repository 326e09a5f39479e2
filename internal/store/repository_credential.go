package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

var credentialColumns = []string{
	"credential_id",
	"public_key",
	"sign_count",
	"user_id",
	"subject",
	"authenticator_kind",
	"device_label",
	"aaguid",
	"created_at",
	"last_used_at",
}

// credentialRepository is the SQL implementation of [CredentialRepository]
// over the "credentials" table.
type credentialRepository struct {
	*DB
	logger *logger.Logger
}

// NewCredentialRepository constructs a [CredentialRepository] backed by db.
func NewCredentialRepository(db *DB, logger *logger.Logger) CredentialRepository {
	return &credentialRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *credentialRepository) SaveCredential(ctx context.Context, c models.Credential) error {
	log := logger.FromContext(ctx)

	insert := r.builder.Insert(c.TableName()).
		Columns(credentialColumns...).
		Values(c.CredentialID, c.PublicKey, int64(c.SignatureCounter), c.UserID, c.Subject,
			string(c.AuthenticatorKind), c.DeviceLabel, c.AAGUID, c.CreatedAt, c.LastUsedAt)

	if _, err := execAffecting(ctx, r.DB.DB, insert); err != nil {
		log.Err(err).
			Str("func", "credentialRepository.SaveCredential").
			Str("user_id", c.UserID).
			Msg("failed to insert credential")
		return err
	}
	return nil
}

func (r *credentialRepository) GetCredential(ctx context.Context, credentialID string) (models.Credential, error) {
	query, args, err := r.builder.Select(credentialColumns...).
		From(models.Credential{}.TableName()).
		Where(sq.Eq{"credential_id": credentialID}).
		ToSql()
	if err != nil {
		return models.Credential{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var c models.Credential
	err = r.withRetry(ctx, func() error {
		var scanErr error
		c, scanErr = scanCredential(r.QueryRowContext(ctx, query, args...))
		return scanErr
	})
	if err != nil {
		return models.Credential{}, notFound(err)
	}
	return c, nil
}

func (r *credentialRepository) ListCredentialsBySubject(ctx context.Context, subject string) ([]models.Credential, error) {
	return r.list(ctx, sq.Eq{"subject": subject})
}

func (r *credentialRepository) ListCredentialsByUser(ctx context.Context, userID string) ([]models.Credential, error) {
	return r.list(ctx, sq.Eq{"user_id": userID})
}

func (r *credentialRepository) list(ctx context.Context, where sq.Eq) ([]models.Credential, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.Select(credentialColumns...).
		From(models.Credential{}.TableName()).
		Where(where).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var out []models.Credential
	err = r.withRetry(ctx, func() error {
		rows, err := r.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		defer rows.Close()

		out = make([]models.Credential, 0)
		for rows.Next() {
			c, err := scanCredential(rows)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrScanningRow, err)
			}
			out = append(out, c)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "credentialRepository.list").Msg("failed to list credentials")
		return nil, err
	}
	return out, nil
}

func (r *credentialRepository) UpdateCredentialUsage(ctx context.Context, credentialID string, prevCounter, newCounter uint32, usedAt time.Time) error {
	log := logger.FromContext(ctx)

	update := r.builder.Update(models.Credential{}.TableName()).
		Set("sign_count", int64(newCounter)).
		Set("last_used_at", usedAt).
		Where(sq.Eq{"credential_id": credentialID, "sign_count": int64(prevCounter)})

	n, err := execAffecting(ctx, r.DB.DB, update)
	if err != nil {
		log.Err(err).Str("func", "credentialRepository.UpdateCredentialUsage").Msg("failed to update credential usage")
		return err
	}
	if n == 0 {
		return ErrStaleCounter
	}
	return nil
}

func (r *credentialRepository) DeleteCredential(ctx context.Context, userID, credentialID string) error {
	log := logger.FromContext(ctx)

	del := r.builder.Delete(models.Credential{}.TableName()).
		Where(sq.Eq{"credential_id": credentialID, "user_id": userID})

	n, err := execAffecting(ctx, r.DB.DB, del)
	if err != nil {
		log.Err(err).Str("func", "credentialRepository.DeleteCredential").Str("user_id", userID).Msg("failed to delete credential")
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCredential(row rowScanner) (models.Credential, error) {
	var (
		c     models.Credential
		count int64
		kind  string
	)
	err := row.Scan(
		&c.CredentialID,
		&c.PublicKey,
		&count,
		&c.UserID,
		&c.Subject,
		&kind,
		&c.DeviceLabel,
		&c.AAGUID,
		&c.CreatedAt,
		&c.LastUsedAt,
	)
	if err != nil {
		return models.Credential{}, err
	}
	c.SignatureCounter = uint32(count)
	c.AuthenticatorKind = models.AuthenticatorKind(kind)
	return c, nil
}
