package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

var challengeColumns = []string{
	"challenge_id",
	"nonce",
	"purpose",
	"subject",
	"user_id",
	"allowed_credentials",
	"display_name",
	"kind",
	"created_at",
	"expires_at",
}

// challengeRepository is the SQL implementation of [ChallengeRepository].
// Consumption is a single DELETE ... RETURNING, so two concurrent consumers
// can never both receive the row.
type challengeRepository struct {
	*DB
	logger *logger.Logger
}

// NewChallengeRepository constructs a [ChallengeRepository] backed by db.
func NewChallengeRepository(db *DB, logger *logger.Logger) ChallengeRepository {
	return &challengeRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *challengeRepository) SaveChallenge(ctx context.Context, c models.Challenge) error {
	allowed, err := json.Marshal(nonNil(c.AllowedCredentials))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingColumn, err)
	}

	insert := r.builder.Insert(c.TableName()).
		Columns(challengeColumns...).
		Values(c.ChallengeID, c.Nonce, string(c.Purpose), c.Subject, c.UserID, string(allowed),
			c.DisplayName, string(c.Kind), c.CreatedAt, c.ExpiresAt)

	if _, err := execAffecting(ctx, r.DB.DB, insert); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "challengeRepository.SaveChallenge").
			Str("purpose", string(c.Purpose)).
			Msg("failed to insert challenge")
		return err
	}
	return nil
}

func (r *challengeRepository) ConsumeChallenge(ctx context.Context, challengeID string, now time.Time) (models.Challenge, error) {
	query, args, err := r.builder.Delete(models.Challenge{}.TableName()).
		Where(sq.Eq{"challenge_id": challengeID}).
		Suffix("RETURNING " + strings.Join(challengeColumns, ", ")).
		ToSql()
	if err != nil {
		return models.Challenge{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	c, err := scanChallenge(r.QueryRowContext(ctx, query, args...))
	if err != nil {
		return models.Challenge{}, notFound(err)
	}

	if c.Expired(now) {
		return models.Challenge{}, ErrExpired
	}
	return c, nil
}

func (r *challengeRepository) DeleteExpiredChallenges(ctx context.Context, now time.Time) (int64, error) {
	del := r.builder.Delete(models.Challenge{}.TableName()).
		Where(sq.LtOrEq{"expires_at": now})

	n, err := execAffecting(ctx, r.DB.DB, del)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "challengeRepository.DeleteExpiredChallenges").Msg("failed to sweep challenges")
		return 0, err
	}
	return n, nil
}

func scanChallenge(row rowScanner) (models.Challenge, error) {
	var (
		c       models.Challenge
		purpose string
		allowed string
		kind    string
	)
	err := row.Scan(
		&c.ChallengeID,
		&c.Nonce,
		&purpose,
		&c.Subject,
		&c.UserID,
		&allowed,
		&c.DisplayName,
		&kind,
		&c.CreatedAt,
		&c.ExpiresAt,
	)
	if err != nil {
		return models.Challenge{}, err
	}
	c.Purpose = models.ChallengePurpose(purpose)
	c.Kind = models.AuthenticatorKind(kind)
	if err := json.Unmarshal([]byte(allowed), &c.AllowedCredentials); err != nil {
		return models.Challenge{}, fmt.Errorf("%w: %w", ErrEncodingColumn, err)
	}
	return c, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
