package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jamieblog/catalog-service/internal/dto"
	"github.com/jamieblog/catalog-service/internal/model"
	"github.com/jamieblog/catalog-service/internal/repository"
	"github.com/jamieblog/catalog-service/internal/repository/redisrepo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DEFAULT_LIMIT matches the front page: three posts per page.
const DEFAULT_LIMIT = 3

// Allow-lists for owner listings. Sort parameters are matched against
// these before any SQL is built; everything else is rejected outright.
var ownerSortColumns = map[string]string{
	"date": "p.created_at",
	"id":   "p.id",
}

var ownerSortOrders = map[string]struct{}{
	"ASC":  {},
	"DESC": {},
}

type catalogService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newCatalogService(logger *zap.Logger, repo *repository.Repository) Catalog {
	return &catalogService{
		logger: logger,
		repo:   repo,
	}
}

func (s *catalogService) List(ctx context.Context, filter model.CatalogFilter, limit int, offset int) ([]*model.PostView, error) {
	normalizePage(&limit, &offset)

	views, err := s.repo.Postgres.Catalog.List(ctx, filter, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to list posts: %s", err.Error())
		return nil, ErrInternal
	}

	if views == nil {
		views = []*model.PostView{}
	}

	return views, nil
}

func (s *catalogService) Count(ctx context.Context, filter model.CatalogFilter) (int64, error) {
	count, err := s.repo.Postgres.Catalog.Count(ctx, filter)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count posts: %s", err.Error())
		return 0, ErrInternal
	}

	return count, nil
}

func (s *catalogService) FindByID(ctx context.Context, id int64) (*model.PostView, error) {
	cachedView, err := redisrepo.Get[model.PostView](s.repo.Redis.Default, ctx, redisrepo.PostKey(id))
	if err == nil && cachedView != nil {
		return cachedView, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get post(%d) from redis: %s", id, err.Error())
	}

	view, err := s.repo.Postgres.Catalog.FindByID(ctx, id)
	if err == pgx.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d) from postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.PostKey(id), view, time.Hour); err != nil {
		s.logger.Sugar().Errorf("failed to set post(%d) in redis: %s", id, err.Error())
	}

	return view, nil
}

func (s *catalogService) FindOwnerPosts(ctx context.Context, ownerID uuid.UUID, sortColumn string, order string) ([]*model.PostView, error) {
	column, ok := ownerSortColumns[sortColumn]
	if !ok {
		return nil, ErrInvalidSortParams
	}
	if _, ok := ownerSortOrders[order]; !ok {
		return nil, ErrInvalidSortParams
	}

	cacheKey := redisrepo.OwnerPostsKey(ownerID.String(), sortColumn, order)
	cachedViews, err := redisrepo.GetMany[model.PostView](s.repo.Redis.Default, ctx, cacheKey)
	if err == nil && cachedViews != nil {
		return cachedViews, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get owner(%s) posts from redis: %s", ownerID.String(), err.Error())
	}

	views, err := s.repo.Postgres.Catalog.FindOwnerPosts(ctx, ownerID, column, order)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find owner(%s) posts from postgres: %s", ownerID.String(), err.Error())
		return nil, ErrInternal
	}

	if views == nil {
		views = []*model.PostView{}
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, cacheKey, views, time.Hour); err != nil {
		s.logger.Sugar().Errorf("failed to set owner(%s) posts in redis: %s", ownerID.String(), err.Error())
	}

	return views, nil
}

func (s *catalogService) Random(ctx context.Context, count int) ([]*model.PostView, error) {
	normalizeCount(&count)

	views, err := s.repo.Postgres.Catalog.Random(ctx, count)
	if err != nil {
		s.logger.Sugar().Errorf("failed to pick random posts: %s", err.Error())
		return nil, ErrInternal
	}

	if views == nil {
		views = []*model.PostView{}
	}

	return views, nil
}

func (s *catalogService) Latest(ctx context.Context, count int) ([]*model.PostView, error) {
	normalizeCount(&count)

	views, err := s.repo.Postgres.Catalog.Latest(ctx, count)
	if err != nil {
		s.logger.Sugar().Errorf("failed to list latest posts: %s", err.Error())
		return nil, ErrInternal
	}

	if views == nil {
		views = []*model.PostView{}
	}

	return views, nil
}

func (s *catalogService) Search(ctx context.Context, text string, limit int, offset int) (*dto.SearchResult, error) {
	normalizePage(&limit, &offset)

	views, total, err := s.repo.Postgres.Catalog.Search(ctx, text, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to search posts by %q: %s", text, err.Error())
		return nil, ErrInternal
	}

	if views == nil {
		views = []*model.PostView{}
	}

	return &dto.SearchResult{
		Posts:      views,
		TotalCount: total,
	}, nil
}

// normalizePage leaves large limits alone: a caller asking for a
// count-sized page must get every matching post back.
func normalizePage(limit *int, offset *int) {
	if *limit <= 0 {
		*limit = DEFAULT_LIMIT
	}
	if *offset < 0 {
		*offset = 0
	}
}

func normalizeCount(count *int) {
	if *count <= 0 {
		*count = DEFAULT_LIMIT
	}
	maxLimit(count)
}
