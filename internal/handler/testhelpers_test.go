package handler

import (
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jamieblog/catalog-service/internal/dto"
	"github.com/jamieblog/catalog-service/internal/model"
	"github.com/jamieblog/catalog-service/internal/service"
	"github.com/jamieblog/catalog-service/pkg/utils"
	"github.com/spf13/viper"
)

type listCall struct {
	filter model.CatalogFilter
	limit  int
	offset int
}

type fakeCatalogService struct {
	views     []*model.PostView
	findErr   error
	listCalls []listCall
}

func (f *fakeCatalogService) List(ctx context.Context, filter model.CatalogFilter, limit int, offset int) ([]*model.PostView, error) {
	f.listCalls = append(f.listCalls, listCall{filter: filter, limit: limit, offset: offset})
	return f.views, nil
}

func (f *fakeCatalogService) Count(ctx context.Context, filter model.CatalogFilter) (int64, error) {
	return int64(len(f.views)), nil
}

func (f *fakeCatalogService) FindByID(ctx context.Context, id int64) (*model.PostView, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, view := range f.views {
		if view.ID == id {
			return view, nil
		}
	}
	return nil, service.ErrPostNotFound
}

func (f *fakeCatalogService) FindOwnerPosts(ctx context.Context, ownerID uuid.UUID, sortColumn string, order string) ([]*model.PostView, error) {
	return f.views, nil
}

func (f *fakeCatalogService) Random(ctx context.Context, count int) ([]*model.PostView, error) {
	return f.views, nil
}

func (f *fakeCatalogService) Latest(ctx context.Context, count int) ([]*model.PostView, error) {
	return f.views, nil
}

func (f *fakeCatalogService) Search(ctx context.Context, text string, limit int, offset int) (*dto.SearchResult, error) {
	return &dto.SearchResult{Posts: f.views, TotalCount: int64(len(f.views))}, nil
}

type fakePostService struct {
	createErr error
	updateErr error
	deleteErr error
	created   []dto.CreatePostDto
	deleted   []int64
}

func (f *fakePostService) Create(ctx context.Context, authorID uuid.UUID, input dto.CreatePostDto) (*model.Post, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, input)
	return &model.Post{ID: 1, UserID: authorID, Title: input.Title, Content: input.Content}, nil
}

func (f *fakePostService) Update(ctx context.Context, postID int64, callerID uuid.UUID, input dto.UpdatePostDto) error {
	return f.updateErr
}

func (f *fakePostService) Delete(ctx context.Context, postID int64, callerID uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, postID)
	return nil
}

func (f *fakePostService) SaveImage(file multipart.File, fileHeader *multipart.FileHeader) (string, error) {
	return "userimg/test.jpg", nil
}

type setCall struct {
	postID    int64
	userID    uuid.UUID
	sentiment bool
}

type fakeEndorsementService struct {
	setErr   error
	setCalls []setCall
	status   *bool
}

func (f *fakeEndorsementService) Set(ctx context.Context, postID int64, userID uuid.UUID, sentiment bool) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setCalls = append(f.setCalls, setCall{postID: postID, userID: userID, sentiment: sentiment})
	return nil
}

func (f *fakeEndorsementService) Status(ctx context.Context, postID int64, userID uuid.UUID) (*bool, error) {
	return f.status, nil
}

func (f *fakeEndorsementService) Score(ctx context.Context, postID int64) (int64, error) {
	return 0, nil
}

type fakeTaxonomyService struct{}

func (f *fakeTaxonomyService) Categories(ctx context.Context) ([]*model.Category, error) {
	return []*model.Category{}, nil
}

func (f *fakeTaxonomyService) Tags(ctx context.Context) ([]*model.Tag, error) {
	return []*model.Tag{}, nil
}

func (f *fakeTaxonomyService) RandomCategories(ctx context.Context, count int, excludeIDs []int64) ([]*model.Category, error) {
	return []*model.Category{}, nil
}

func (f *fakeTaxonomyService) RandomTags(ctx context.Context, count int, excludeIDs []int64) ([]*model.Tag, error) {
	return []*model.Tag{}, nil
}

type fakeUserService struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{users: map[uuid.UUID]*model.User{}}
}

func (f *fakeUserService) Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error) {
	user := &model.User{ID: uuid.New(), Username: req.Username, DisplayName: req.DisplayName}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserService) Login(ctx context.Context, req dto.LoginRequest) (string, error) {
	return "", service.ErrInvalidCredentials
}

func (f *fakeUserService) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserService) UpdateProfile(ctx context.Context, id uuid.UUID, displayName string) error {
	return nil
}

func (f *fakeUserService) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword string, newPassword string) error {
	return nil
}

type testServices struct {
	posts        *fakePostService
	catalog      *fakeCatalogService
	endorsements *fakeEndorsementService
	users        *fakeUserService
}

func newTestServices() *testServices {
	return &testServices{
		posts:        &fakePostService{},
		catalog:      &fakeCatalogService{},
		endorsements: &fakeEndorsementService{},
		users:        newFakeUserService(),
	}
}

func (s *testServices) service() *service.Service {
	return &service.Service{
		Post:        s.posts,
		Catalog:     s.catalog,
		Endorsement: s.endorsements,
		Taxonomy:    &fakeTaxonomyService{},
		User:        s.users,
	}
}

func newTestRouter(t *testing.T, services *testServices) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	viper.Set("client.origin", "http://localhost:3000")
	viper.Set("uploads.dir", t.TempDir())
	viper.Set("assets.dir", t.TempDir())
	return New(services.service()).InitRoutes()
}

func doRequest(router *gin.Engine, method string, target string, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// loginAs registers a user with the fake user service and mints a token
// the auth middleware will accept. ACCESS_SECRET must be set via t.Setenv
// before calling.
func loginAs(t *testing.T, services *testServices) string {
	t.Helper()

	user := &model.User{ID: uuid.New(), Username: "tester", DisplayName: "Tester"}
	services.users.users[user.ID] = user

	token, err := utils.GenerateJWT(user.ID, time.Hour, []byte(os.Getenv("ACCESS_SECRET")))
	if err != nil {
		t.Fatalf("failed to generate token: %s", err)
	}
	return token
}

func bearer(token string) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + token,
		"Content-Type":  "application/json",
	}
}
