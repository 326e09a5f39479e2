package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

var sessionColumns = []string{
	"session_id",
	"user_id",
	"fingerprint",
	"auth_method",
	"created_at",
	"last_activity_at",
	"expires_at",
	"device_info",
	"ip_address",
	"is_active",
	"terminated_at",
	"termination_reason",
}

// sessionRepository is the SQL implementation of [SessionRepository].
type sessionRepository struct {
	*DB
	logger *logger.Logger
}

// NewSessionRepository constructs a [SessionRepository] backed by db.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	return &sessionRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *sessionRepository) SaveSession(ctx context.Context, s models.Session) error {
	device, err := json.Marshal(s.DeviceInfo)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingColumn, err)
	}

	insert := r.builder.Insert(s.TableName()).
		Columns(sessionColumns...).
		Values(s.SessionID, s.UserID, s.Fingerprint, string(s.AuthMethod), s.CreatedAt, s.LastActivityAt,
			s.ExpiresAt, string(device), s.IPAddress, s.IsActive, nullTime(s.TerminatedAt), s.TerminationReason)

	if _, err := execAffecting(ctx, r.DB.DB, insert); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sessionRepository.SaveSession").
			Str("user_id", s.UserID).
			Msg("failed to insert session")
		return err
	}
	return nil
}

func (r *sessionRepository) GetSession(ctx context.Context, sessionID string) (models.Session, error) {
	query, args, err := r.builder.Select(sessionColumns...).
		From(models.Session{}.TableName()).
		Where(sq.Eq{"session_id": sessionID}).
		ToSql()
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var s models.Session
	err = r.withRetry(ctx, func() error {
		var scanErr error
		s, scanErr = scanSession(r.QueryRowContext(ctx, query, args...))
		return scanErr
	})
	if err != nil {
		return models.Session{}, notFound(err)
	}
	return s, nil
}

func (r *sessionRepository) ListActiveSessions(ctx context.Context, userID string) ([]models.Session, error) {
	query, args, err := r.builder.Select(sessionColumns...).
		From(models.Session{}.TableName()).
		Where(sq.Eq{"user_id": userID, "is_active": true}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var out []models.Session
	err = r.withRetry(ctx, func() error {
		rows, err := r.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		defer rows.Close()

		out = make([]models.Session, 0)
		for rows.Next() {
			s, err := scanSession(rows)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrScanningRow, err)
			}
			out = append(out, s)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sessionRepository.ListActiveSessions").
			Str("user_id", userID).
			Msg("failed to list sessions")
		return nil, err
	}
	return out, nil
}

func (r *sessionRepository) TouchSession(ctx context.Context, sessionID string, at time.Time) error {
	update := r.builder.Update(models.Session{}.TableName()).
		Set("last_activity_at", at).
		Where(sq.Eq{"session_id": sessionID, "is_active": true})

	n, err := execAffecting(ctx, r.DB.DB, update)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "sessionRepository.TouchSession").Msg("failed to touch session")
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sessionRepository) DeactivateSession(ctx context.Context, sessionID, reason string, at time.Time) error {
	update := r.builder.Update(models.Session{}.TableName()).
		Set("is_active", false).
		Set("terminated_at", at).
		Set("termination_reason", reason).
		Where(sq.Eq{"session_id": sessionID, "is_active": true})

	if _, err := execAffecting(ctx, r.DB.DB, update); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sessionRepository.DeactivateSession").
			Str("reason", reason).
			Msg("failed to deactivate session")
		return err
	}
	return nil
}

func scanSession(row rowScanner) (models.Session, error) {
	var (
		s          models.Session
		method     string
		device     string
		terminated sql.NullTime
	)
	err := row.Scan(
		&s.SessionID,
		&s.UserID,
		&s.Fingerprint,
		&method,
		&s.CreatedAt,
		&s.LastActivityAt,
		&s.ExpiresAt,
		&device,
		&s.IPAddress,
		&s.IsActive,
		&terminated,
		&s.TerminationReason,
	)
	if err != nil {
		return models.Session{}, err
	}
	s.AuthMethod = models.AuthMethod(method)
	s.TerminatedAt = timePtr(terminated)
	if err := json.Unmarshal([]byte(device), &s.DeviceInfo); err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrEncodingColumn, err)
	}
	return s, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
