package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jamieblog/catalog-service/internal/config"
	"github.com/jamieblog/catalog-service/internal/model"
)

// DBTX is the connection surface the repositories query through. Both
// pgxpool.Pool and pgx.Tx satisfy it.
type DBTX interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Post interface {
	Create(ctx context.Context, post model.Post, categoryIDs []int64, tagIDs []int64) (*model.Post, error)
	Update(ctx context.Context, postID int64, title string, content string, imagePath *string, categoryIDs []int64, tagIDs []int64) error
	Delete(ctx context.Context, postID int64) error
	OwnerOf(ctx context.Context, postID int64) (uuid.UUID, error)
}

type Catalog interface {
	List(ctx context.Context, filter model.CatalogFilter, limit int, offset int) ([]*model.PostView, error)
	Count(ctx context.Context, filter model.CatalogFilter) (int64, error)
	FindByID(ctx context.Context, id int64) (*model.PostView, error)
	FindOwnerPosts(ctx context.Context, ownerID uuid.UUID, sortColumn string, order string) ([]*model.PostView, error)
	Random(ctx context.Context, count int) ([]*model.PostView, error)
	Latest(ctx context.Context, count int) ([]*model.PostView, error)
	Search(ctx context.Context, text string, limit int, offset int) ([]*model.PostView, int64, error)
}

type Taxonomy interface {
	Categories(ctx context.Context) ([]*model.Category, error)
	Tags(ctx context.Context) ([]*model.Tag, error)
	RandomCategories(ctx context.Context, count int, excludeIDs []int64) ([]*model.Category, error)
	RandomTags(ctx context.Context, count int, excludeIDs []int64) ([]*model.Tag, error)
	ResolveCategory(ctx context.Context, name string) (int64, error)
	ResolveTag(ctx context.Context, name string) (int64, error)
	ReplaceAssociations(ctx context.Context, postID int64, categoryIDs []int64, tagIDs []int64) error
	ListAssociations(ctx context.Context, postID int64) (*model.Associations, error)
}

type Endorsement interface {
	Set(ctx context.Context, postID int64, userID uuid.UUID, sentiment bool) error
	Status(ctx context.Context, postID int64, userID uuid.UUID) (*bool, error)
	Score(ctx context.Context, postID int64) (int64, error)
}

type User interface {
	Create(ctx context.Context, user model.User) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
}

type PostgresRepository struct {
	Post
	Catalog
	Taxonomy
	Endorsement
	User
}

func New(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		Post:        newPostRepo(db),
		Catalog:     newCatalogRepo(db),
		Taxonomy:    newTaxonomyRepo(db),
		Endorsement: newEndorsementRepo(db),
		User:        newUserRepo(db),
	}
}

func DB(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.SSLMode,
	)

	return pgxpool.New(ctx, dsn)
}
