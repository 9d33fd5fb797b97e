package service

import (
	"context"
	"time"

	"github.com/jamieblog/catalog-service/internal/model"
	"github.com/jamieblog/catalog-service/internal/repository"
	"github.com/jamieblog/catalog-service/internal/repository/redisrepo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type taxonomyService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newTaxonomyService(logger *zap.Logger, repo *repository.Repository) Taxonomy {
	return &taxonomyService{
		logger: logger,
		repo:   repo,
	}
}

// Categories and tags are seed data, so they cache well.

func (s *taxonomyService) Categories(ctx context.Context) ([]*model.Category, error) {
	cached, err := redisrepo.GetMany[model.Category](s.repo.Redis.Default, ctx, redisrepo.CategoriesKey())
	if err == nil && cached != nil {
		return cached, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get categories from redis: %s", err.Error())
	}

	categories, err := s.repo.Postgres.Taxonomy.Categories(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to list categories: %s", err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.CategoriesKey(), categories, time.Hour); err != nil {
		s.logger.Sugar().Errorf("failed to set categories in redis: %s", err.Error())
	}

	return categories, nil
}

func (s *taxonomyService) Tags(ctx context.Context) ([]*model.Tag, error) {
	cached, err := redisrepo.GetMany[model.Tag](s.repo.Redis.Default, ctx, redisrepo.TagsKey())
	if err == nil && cached != nil {
		return cached, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get tags from redis: %s", err.Error())
	}

	tags, err := s.repo.Postgres.Taxonomy.Tags(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to list tags: %s", err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.TagsKey(), tags, time.Hour); err != nil {
		s.logger.Sugar().Errorf("failed to set tags in redis: %s", err.Error())
	}

	return tags, nil
}

func (s *taxonomyService) RandomCategories(ctx context.Context, count int, excludeIDs []int64) ([]*model.Category, error) {
	normalizeCount(&count)

	categories, err := s.repo.Postgres.Taxonomy.RandomCategories(ctx, count, excludeIDs)
	if err != nil {
		s.logger.Sugar().Errorf("failed to pick random categories: %s", err.Error())
		return nil, ErrInternal
	}

	if categories == nil {
		categories = []*model.Category{}
	}

	return categories, nil
}

func (s *taxonomyService) RandomTags(ctx context.Context, count int, excludeIDs []int64) ([]*model.Tag, error) {
	normalizeCount(&count)

	tags, err := s.repo.Postgres.Taxonomy.RandomTags(ctx, count, excludeIDs)
	if err != nil {
		s.logger.Sugar().Errorf("failed to pick random tags: %s", err.Error())
		return nil, ErrInternal
	}

	if tags == nil {
		tags = []*model.Tag{}
	}

	return tags, nil
}
