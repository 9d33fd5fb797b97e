package service

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jamieblog/catalog-service/internal/dto"
	"github.com/jamieblog/catalog-service/internal/model"
	"github.com/jamieblog/catalog-service/internal/repository"
	"github.com/jamieblog/catalog-service/internal/repository/redisrepo"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// defaultImagePath is served for posts created without an upload.
const defaultImagePath = "images/i1.jpg"

const (
	maxCategoriesPerPost = 1
	maxTagsPerPost       = 2
)

type postService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newPostService(logger *zap.Logger, repo *repository.Repository) Post {
	return &postService{
		logger: logger,
		repo:   repo,
	}
}

func (s *postService) Create(ctx context.Context, authorID uuid.UUID, d dto.CreatePostDto) (*model.Post, error) {
	if authorID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if err := validateAssociationLimits(d.Categories, d.Tags); err != nil {
		return nil, err
	}

	categoryIDs, tagIDs, err := s.resolveAssociations(ctx, d.Categories, d.Tags)
	if err != nil {
		return nil, err
	}

	imagePath := defaultImagePath
	if d.ImagePath != nil {
		imagePath = *d.ImagePath
	}

	post := model.Post{
		UserID:    authorID,
		Title:     d.Title,
		Content:   d.Content,
		ImagePath: imagePath,
	}

	createdPost, err := s.repo.Postgres.Post.Create(ctx, post, categoryIDs, tagIDs)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) post: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	s.invalidateOwnerPosts(ctx, authorID)

	return createdPost, nil
}

func (s *postService) Update(ctx context.Context, postID int64, callerID uuid.UUID, d dto.UpdatePostDto) error {
	if callerID == uuid.Nil {
		return ErrUnauthenticated
	}
	if err := validateAssociationLimits(d.Categories, d.Tags); err != nil {
		return err
	}

	if err := s.requireOwner(ctx, postID, callerID); err != nil {
		return err
	}

	categoryIDs, tagIDs, err := s.resolveAssociations(ctx, d.Categories, d.Tags)
	if err != nil {
		return err
	}

	if err := s.repo.Postgres.Post.Update(ctx, postID, d.Title, d.Content, d.ImagePath, categoryIDs, tagIDs); err != nil {
		s.logger.Sugar().Errorf("failed to update post(%d): %s", postID, err.Error())
		return ErrInternal
	}

	s.invalidatePost(ctx, postID)
	s.invalidateOwnerPosts(ctx, callerID)

	return nil
}

func (s *postService) Delete(ctx context.Context, postID int64, callerID uuid.UUID) error {
	if callerID == uuid.Nil {
		return ErrUnauthenticated
	}

	if err := s.requireOwner(ctx, postID, callerID); err != nil {
		return err
	}

	if err := s.repo.Postgres.Post.Delete(ctx, postID); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%d): %s", postID, err.Error())
		return ErrInternal
	}

	s.invalidatePost(ctx, postID)
	s.invalidateOwnerPosts(ctx, callerID)

	return nil
}

// requireOwner resolves the post's owner before any write transaction
// opens: absent post and foreign post fail differently.
func (s *postService) requireOwner(ctx context.Context, postID int64, callerID uuid.UUID) error {
	ownerID, err := s.repo.Postgres.Post.OwnerOf(ctx, postID)
	if err == pgx.ErrNoRows {
		return ErrPostNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to resolve owner of post(%d): %s", postID, err.Error())
		return ErrInternal
	}

	if ownerID != callerID {
		return ErrForbidden
	}

	return nil
}

func validateAssociationLimits(categories []string, tags []string) error {
	if len(categories) > maxCategoriesPerPost {
		return ErrTooManyCategories
	}
	if len(tags) > maxTagsPerPost {
		return ErrTooManyTags
	}
	return nil
}

func (s *postService) resolveAssociations(ctx context.Context, categories []string, tags []string) ([]int64, []int64, error) {
	categoryIDs := make([]int64, 0, len(categories))
	for _, name := range categories {
		id, err := s.repo.Postgres.Taxonomy.ResolveCategory(ctx, name)
		if err == pgx.ErrNoRows {
			return nil, nil, ErrCategoryNotFound
		}
		if err != nil {
			s.logger.Sugar().Errorf("failed to resolve category %q: %s", name, err.Error())
			return nil, nil, ErrInternal
		}
		categoryIDs = append(categoryIDs, id)
	}

	tagIDs := make([]int64, 0, len(tags))
	for _, name := range tags {
		id, err := s.repo.Postgres.Taxonomy.ResolveTag(ctx, name)
		if err == pgx.ErrNoRows {
			return nil, nil, ErrTagNotFound
		}
		if err != nil {
			s.logger.Sugar().Errorf("failed to resolve tag %q: %s", name, err.Error())
			return nil, nil, ErrInternal
		}
		tagIDs = append(tagIDs, id)
	}

	return categoryIDs, tagIDs, nil
}

func (s *postService) SaveImage(file multipart.File, fileHeader *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return "", ErrFileMustBeImage
	}

	uploadDir := viper.GetString("uploads.dir")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		s.logger.Sugar().Errorf("failed to create upload dir: %s", err.Error())
		return "", ErrInternal
	}

	filename := "image-" + strconv.FormatInt(time.Now().UnixNano(), 10) + ext
	path := filepath.Join(uploadDir, filename)

	dst, err := os.Create(path)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create image file: %s", err.Error())
		return "", ErrInternal
	}
	defer dst.Close()

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		s.logger.Sugar().Errorf("failed to seek to the start of the file: %s", err.Error())
		return "", ErrInternal
	}
	if _, err := io.Copy(dst, file); err != nil {
		s.logger.Sugar().Errorf("failed to copy image content: %s", err.Error())
		return "", ErrInternal
	}

	return filepath.ToSlash(path), nil
}

func (s *postService) invalidatePost(ctx context.Context, postID int64) {
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostKey(postID)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate post(%d) cache: %s", postID, err.Error())
	}
}

func (s *postService) invalidateOwnerPosts(ctx context.Context, ownerID uuid.UUID) {
	keys := ownerPostsCacheKeys(ownerID)
	if err := s.repo.Redis.Default.Del(ctx, keys...).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate owner(%s) posts cache: %s", ownerID.String(), err.Error())
	}
}

func ownerPostsCacheKeys(ownerID uuid.UUID) []string {
	var keys []string
	for _, sortColumn := range []string{"date", "id"} {
		for _, order := range []string{"ASC", "DESC"} {
			keys = append(keys, redisrepo.OwnerPostsKey(ownerID.String(), sortColumn, order))
		}
	}
	return keys
}
