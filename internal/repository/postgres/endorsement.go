package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type endorsementRepo struct {
	db DBTX
}

func newEndorsementRepo(db *pgxpool.Pool) Endorsement {
	return &endorsementRepo{
		db: db,
	}
}

// Set upserts the caller's vote: one row per (post, user) pair, last
// vote wins, no history retained.
func (r *endorsementRepo) Set(ctx context.Context, postID int64, userID uuid.UUID, sentiment bool) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO endorsements(post_id, user_id, endorsement) VALUES($1, $2, $3)
		ON CONFLICT (post_id, user_id) DO UPDATE SET endorsement = EXCLUDED.endorsement`,
		postID,
		userID,
		sentiment,
	)

	return err
}

func (r *endorsementRepo) Status(ctx context.Context, postID int64, userID uuid.UUID) (*bool, error) {
	var sentiment bool
	err := r.db.QueryRow(
		ctx,
		"SELECT e.endorsement FROM endorsements e WHERE e.post_id = $1 AND e.user_id = $2",
		postID,
		userID,
	).Scan(&sentiment)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &sentiment, nil
}

func (r *endorsementRepo) Score(ctx context.Context, postID int64) (int64, error) {
	var score int64
	if err := r.db.QueryRow(
		ctx,
		"SELECT COALESCE(SUM(CASE WHEN e.endorsement THEN 1 ELSE -1 END), 0) FROM endorsements e WHERE e.post_id = $1",
		postID,
	).Scan(&score); err != nil {
		return 0, err
	}

	return score, nil
}
