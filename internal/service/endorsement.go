package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jamieblog/catalog-service/internal/repository"
	"github.com/jamieblog/catalog-service/internal/repository/redisrepo"
	"go.uber.org/zap"
)

type endorsementService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newEndorsementService(logger *zap.Logger, repo *repository.Repository) Endorsement {
	return &endorsementService{
		logger: logger,
		repo:   repo,
	}
}

func (s *endorsementService) Set(ctx context.Context, postID int64, userID uuid.UUID, sentiment bool) error {
	if userID == uuid.Nil {
		return ErrUnauthenticated
	}

	ownerID, err := s.repo.Postgres.Post.OwnerOf(ctx, postID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to check post(%d) before endorsing: %s", postID, err.Error())
		return ErrInternal
	}

	if err := s.repo.Postgres.Endorsement.Set(ctx, postID, userID, sentiment); err != nil {
		s.logger.Sugar().Errorf("failed to set user(%s) endorsement on post(%d): %s", userID.String(), postID, err.Error())
		return ErrInternal
	}

	// Cached views carry the aggregate score, so both the post entry and
	// the owner's listings are stale now.
	keys := append([]string{redisrepo.PostKey(postID)}, ownerPostsCacheKeys(ownerID)...)
	if err := s.repo.Redis.Default.Del(ctx, keys...).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate post(%d) caches: %s", postID, err.Error())
	}

	return nil
}

func (s *endorsementService) Status(ctx context.Context, postID int64, userID uuid.UUID) (*bool, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	sentiment, err := s.repo.Postgres.Endorsement.Status(ctx, postID, userID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to get user(%s) endorsement status on post(%d): %s", userID.String(), postID, err.Error())
		return nil, ErrInternal
	}

	return sentiment, nil
}

func (s *endorsementService) Score(ctx context.Context, postID int64) (int64, error) {
	score, err := s.repo.Postgres.Endorsement.Score(ctx, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to aggregate post(%d) score: %s", postID, err.Error())
		return 0, ErrInternal
	}

	return score, nil
}
