package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jamieblog/catalog-service/internal/model"
	"github.com/jamieblog/catalog-service/internal/repository"
	"github.com/jamieblog/catalog-service/internal/repository/postgres"
	"github.com/jamieblog/catalog-service/internal/repository/redisrepo"
	"github.com/redis/go-redis/v9"
)

// fakeCache implements redisrepo.Default on a plain map so cache
// behavior is observable without a redis server.
type fakeCache struct {
	store map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string]string{}}
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.store[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.store[key] = string(valueJSON)
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if value, ok := f.store[key]; ok {
		cmd.SetVal(value)
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(f.store, key)
	}
	return redis.NewIntCmd(ctx)
}

func (f *fakeCache) has(key string) bool {
	_, ok := f.store[key]
	return ok
}

type createdPost struct {
	post        model.Post
	categoryIDs []int64
	tagIDs      []int64
}

type updatedPost struct {
	postID      int64
	title       string
	content     string
	imagePath   *string
	categoryIDs []int64
	tagIDs      []int64
}

type fakePostRepo struct {
	owners  map[int64]uuid.UUID
	nextID  int64
	created []createdPost
	updated []updatedPost
	deleted []int64
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{owners: map[int64]uuid.UUID{}}
}

func (f *fakePostRepo) Create(ctx context.Context, post model.Post, categoryIDs []int64, tagIDs []int64) (*model.Post, error) {
	f.nextID++
	post.ID = f.nextID
	f.owners[post.ID] = post.UserID
	f.created = append(f.created, createdPost{post: post, categoryIDs: categoryIDs, tagIDs: tagIDs})
	return &post, nil
}

func (f *fakePostRepo) Update(ctx context.Context, postID int64, title string, content string, imagePath *string, categoryIDs []int64, tagIDs []int64) error {
	f.updated = append(f.updated, updatedPost{
		postID:      postID,
		title:       title,
		content:     content,
		imagePath:   imagePath,
		categoryIDs: categoryIDs,
		tagIDs:      tagIDs,
	})
	return nil
}

func (f *fakePostRepo) Delete(ctx context.Context, postID int64) error {
	f.deleted = append(f.deleted, postID)
	delete(f.owners, postID)
	return nil
}

func (f *fakePostRepo) OwnerOf(ctx context.Context, postID int64) (uuid.UUID, error) {
	ownerID, ok := f.owners[postID]
	if !ok {
		return uuid.Nil, pgx.ErrNoRows
	}
	return ownerID, nil
}

type fakeTaxonomyRepo struct {
	categories map[string]int64
	tags       map[string]int64
}

func (f *fakeTaxonomyRepo) Categories(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	for name, id := range f.categories {
		categories = append(categories, &model.Category{ID: id, Name: name})
	}
	return categories, nil
}

func (f *fakeTaxonomyRepo) Tags(ctx context.Context) ([]*model.Tag, error) {
	var tags []*model.Tag
	for name, id := range f.tags {
		tags = append(tags, &model.Tag{ID: id, Name: name})
	}
	return tags, nil
}

func (f *fakeTaxonomyRepo) RandomCategories(ctx context.Context, count int, excludeIDs []int64) ([]*model.Category, error) {
	return nil, nil
}

func (f *fakeTaxonomyRepo) RandomTags(ctx context.Context, count int, excludeIDs []int64) ([]*model.Tag, error) {
	return nil, nil
}

func (f *fakeTaxonomyRepo) ResolveCategory(ctx context.Context, name string) (int64, error) {
	id, ok := f.categories[name]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	return id, nil
}

func (f *fakeTaxonomyRepo) ResolveTag(ctx context.Context, name string) (int64, error) {
	id, ok := f.tags[name]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	return id, nil
}

func (f *fakeTaxonomyRepo) ReplaceAssociations(ctx context.Context, postID int64, categoryIDs []int64, tagIDs []int64) error {
	return nil
}

func (f *fakeTaxonomyRepo) ListAssociations(ctx context.Context, postID int64) (*model.Associations, error) {
	return &model.Associations{Categories: []string{}, Tags: []string{}}, nil
}

type fakeEndorsementRepo struct {
	votes map[string]bool
}

func newFakeEndorsementRepo() *fakeEndorsementRepo {
	return &fakeEndorsementRepo{votes: map[string]bool{}}
}

func voteKey(postID int64, userID uuid.UUID) string {
	return fmt.Sprintf("%d:%s", postID, userID.String())
}

func (f *fakeEndorsementRepo) Set(ctx context.Context, postID int64, userID uuid.UUID, sentiment bool) error {
	f.votes[voteKey(postID, userID)] = sentiment
	return nil
}

func (f *fakeEndorsementRepo) Status(ctx context.Context, postID int64, userID uuid.UUID) (*bool, error) {
	sentiment, ok := f.votes[voteKey(postID, userID)]
	if !ok {
		return nil, nil
	}
	return &sentiment, nil
}

func (f *fakeEndorsementRepo) Score(ctx context.Context, postID int64) (int64, error) {
	prefix := fmt.Sprintf("%d:", postID)
	var score int64
	for key, sentiment := range f.votes {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			if sentiment {
				score++
			} else {
				score--
			}
		}
	}
	return score, nil
}

type ownerPostsCall struct {
	ownerID    uuid.UUID
	sortColumn string
	order      string
}

type listCall struct {
	filter model.CatalogFilter
	limit  int
	offset int
}

type fakeCatalogRepo struct {
	views       []*model.PostView
	listCalls   []listCall
	ownerCalls  []ownerPostsCall
	findCalls   int
	randomCalls []int
}

func (f *fakeCatalogRepo) List(ctx context.Context, filter model.CatalogFilter, limit int, offset int) ([]*model.PostView, error) {
	f.listCalls = append(f.listCalls, listCall{filter: filter, limit: limit, offset: offset})
	return f.views, nil
}

func (f *fakeCatalogRepo) Count(ctx context.Context, filter model.CatalogFilter) (int64, error) {
	return int64(len(f.views)), nil
}

func (f *fakeCatalogRepo) FindByID(ctx context.Context, id int64) (*model.PostView, error) {
	f.findCalls++
	for _, view := range f.views {
		if view.ID == id {
			return view, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCatalogRepo) FindOwnerPosts(ctx context.Context, ownerID uuid.UUID, sortColumn string, order string) ([]*model.PostView, error) {
	f.ownerCalls = append(f.ownerCalls, ownerPostsCall{ownerID: ownerID, sortColumn: sortColumn, order: order})
	return f.views, nil
}

func (f *fakeCatalogRepo) Random(ctx context.Context, count int) ([]*model.PostView, error) {
	f.randomCalls = append(f.randomCalls, count)
	return f.views, nil
}

func (f *fakeCatalogRepo) Latest(ctx context.Context, count int) ([]*model.PostView, error) {
	return f.views, nil
}

func (f *fakeCatalogRepo) Search(ctx context.Context, text string, limit int, offset int) ([]*model.PostView, int64, error) {
	return f.views, int64(len(f.views)), nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	f.users[user.ID] = &user
	return &user, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if displayName, ok := updates["display_name"].(string); ok {
		user.DisplayName = displayName
	}
	if passwordHash, ok := updates["password_hash"].(string); ok {
		user.PasswordHash = passwordHash
	}
	return nil
}

type testRepos struct {
	posts        *fakePostRepo
	catalog      *fakeCatalogRepo
	taxonomy     *fakeTaxonomyRepo
	endorsements *fakeEndorsementRepo
	users        *fakeUserRepo
	cache        *fakeCache
}

func newTestRepos() *testRepos {
	return &testRepos{
		posts:        newFakePostRepo(),
		catalog:      &fakeCatalogRepo{},
		taxonomy:     &fakeTaxonomyRepo{categories: map[string]int64{}, tags: map[string]int64{}},
		endorsements: newFakeEndorsementRepo(),
		users:        newFakeUserRepo(),
		cache:        newFakeCache(),
	}
}

func (r *testRepos) repository() *repository.Repository {
	return &repository.Repository{
		Postgres: &postgres.PostgresRepository{
			Post:        r.posts,
			Catalog:     r.catalog,
			Taxonomy:    r.taxonomy,
			Endorsement: r.endorsements,
			User:        r.users,
		},
		Redis: &redisrepo.RedisRepository{
			Default: r.cache,
		},
	}
}
