package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

var refreshTokenColumns = []string{
	"token_hash",
	"session_id",
	"user_id",
	"fingerprint",
	"created_at",
	"expires_at",
	"used_at",
	"rotated_at",
	"is_valid",
}

// refreshTokenRepository is the SQL implementation of [RefreshTokenRepository].
type refreshTokenRepository struct {
	*DB
	logger *logger.Logger
}

// NewRefreshTokenRepository constructs a [RefreshTokenRepository] backed by db.
func NewRefreshTokenRepository(db *DB, logger *logger.Logger) RefreshTokenRepository {
	return &refreshTokenRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *refreshTokenRepository) insert(t models.RefreshToken) sq.InsertBuilder {
	return r.builder.Insert(t.TableName()).
		Columns(refreshTokenColumns...).
		Values(t.TokenHash, t.SessionID, t.UserID, t.Fingerprint, t.CreatedAt, t.ExpiresAt,
			nullTime(t.UsedAt), nullTime(t.RotatedAt), t.IsValid)
}

func (r *refreshTokenRepository) SaveRefreshToken(ctx context.Context, t models.RefreshToken) error {
	if _, err := execAffecting(ctx, r.DB.DB, r.insert(t)); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "refreshTokenRepository.SaveRefreshToken").
			Str("session_id", t.SessionID).
			Msg("failed to insert refresh token")
		return err
	}
	return nil
}

func (r *refreshTokenRepository) GetRefreshToken(ctx context.Context, tokenHash string) (models.RefreshToken, error) {
	query, args, err := r.builder.Select(refreshTokenColumns...).
		From(models.RefreshToken{}.TableName()).
		Where(sq.Eq{"token_hash": tokenHash}).
		ToSql()
	if err != nil {
		return models.RefreshToken{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var t models.RefreshToken
	err = r.withRetry(ctx, func() error {
		var scanErr error
		t, scanErr = scanRefreshToken(r.QueryRowContext(ctx, query, args...))
		return scanErr
	})
	if err != nil {
		return models.RefreshToken{}, notFound(err)
	}
	return t, nil
}

func (r *refreshTokenRepository) RotateRefreshToken(ctx context.Context, oldHash string, next models.RefreshToken, at time.Time) error {
	log := logger.FromContext(ctx)

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		invalidate := r.builder.Update(models.RefreshToken{}.TableName()).
			Set("is_valid", false).
			Set("used_at", at).
			Set("rotated_at", at).
			Where(sq.Eq{"token_hash": oldHash, "is_valid": true})

		n, err := execAffecting(ctx, tx, invalidate)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrStaleToken
		}

		_, err = execAffecting(ctx, tx, r.insert(next))
		return err
	})
	if err != nil {
		log.Err(err).
			Str("func", "refreshTokenRepository.RotateRefreshToken").
			Str("session_id", next.SessionID).
			Msg("refresh token rotation rejected")
		return err
	}
	return nil
}

func (r *refreshTokenRepository) InvalidateSessionTokens(ctx context.Context, sessionID string, at time.Time) (int64, error) {
	update := r.builder.Update(models.RefreshToken{}.TableName()).
		Set("is_valid", false).
		Set("used_at", sq.Expr("COALESCE(used_at, ?)", at)).
		Where(sq.Eq{"session_id": sessionID, "is_valid": true})

	n, err := execAffecting(ctx, r.DB.DB, update)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "refreshTokenRepository.InvalidateSessionTokens").
			Msg("failed to invalidate session tokens")
		return 0, err
	}
	return n, nil
}

func (r *refreshTokenRepository) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	del := r.builder.Delete(models.RefreshToken{}.TableName()).
		Where(sq.LtOrEq{"expires_at": now})

	n, err := execAffecting(ctx, r.DB.DB, del)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "refreshTokenRepository.DeleteExpiredRefreshTokens").
			Msg("failed to sweep refresh tokens")
		return 0, err
	}
	return n, nil
}

func scanRefreshToken(row rowScanner) (models.RefreshToken, error) {
	var (
		t       models.RefreshToken
		used    sql.NullTime
		rotated sql.NullTime
	)
	err := row.Scan(
		&t.TokenHash,
		&t.SessionID,
		&t.UserID,
		&t.Fingerprint,
		&t.CreatedAt,
		&t.ExpiresAt,
		&used,
		&rotated,
		&t.IsValid,
	)
	if err != nil {
		return models.RefreshToken{}, err
	}
	t.UsedAt = timePtr(used)
	t.RotatedAt = timePtr(rotated)
	return t, nil
}
