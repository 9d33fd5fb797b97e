package service

import (
	"context"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/jamieblog/catalog-service/internal/dto"
	"github.com/jamieblog/catalog-service/internal/model"
	"github.com/jamieblog/catalog-service/internal/repository"
	"go.uber.org/zap"
)

// MAX_LIMIT caps the random and latest pick sizes.
const MAX_LIMIT = 20

func maxLimit(limit *int) {
	if *limit > MAX_LIMIT {
		*limit = MAX_LIMIT
	}
}

type Post interface {
	Create(ctx context.Context, authorID uuid.UUID, dto dto.CreatePostDto) (*model.Post, error)
	Update(ctx context.Context, postID int64, callerID uuid.UUID, dto dto.UpdatePostDto) error
	Delete(ctx context.Context, postID int64, callerID uuid.UUID) error
	SaveImage(file multipart.File, fileHeader *multipart.FileHeader) (string, error)
}

type Catalog interface {
	List(ctx context.Context, filter model.CatalogFilter, limit int, offset int) ([]*model.PostView, error)
	Count(ctx context.Context, filter model.CatalogFilter) (int64, error)
	FindByID(ctx context.Context, id int64) (*model.PostView, error)
	FindOwnerPosts(ctx context.Context, ownerID uuid.UUID, sortColumn string, order string) ([]*model.PostView, error)
	Random(ctx context.Context, count int) ([]*model.PostView, error)
	Latest(ctx context.Context, count int) ([]*model.PostView, error)
	Search(ctx context.Context, text string, limit int, offset int) (*dto.SearchResult, error)
}

type Endorsement interface {
	Set(ctx context.Context, postID int64, userID uuid.UUID, sentiment bool) error
	Status(ctx context.Context, postID int64, userID uuid.UUID) (*bool, error)
	Score(ctx context.Context, postID int64) (int64, error)
}

type Taxonomy interface {
	Categories(ctx context.Context) ([]*model.Category, error)
	Tags(ctx context.Context) ([]*model.Tag, error)
	RandomCategories(ctx context.Context, count int, excludeIDs []int64) ([]*model.Category, error)
	RandomTags(ctx context.Context, count int, excludeIDs []int64) ([]*model.Tag, error)
}

type User interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req dto.LoginRequest) (string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, displayName string) error
	ChangePassword(ctx context.Context, id uuid.UUID, oldPassword string, newPassword string) error
}

type Service struct {
	Post
	Catalog
	Endorsement
	Taxonomy
	User
}

func New(logger *zap.Logger, repo *repository.Repository) *Service {
	return &Service{
		Post:        newPostService(logger, repo),
		Catalog:     newCatalogService(logger, repo),
		Endorsement: newEndorsementService(logger, repo),
		Taxonomy:    newTaxonomyService(logger, repo),
		User:        newUserService(logger, repo),
	}
}
