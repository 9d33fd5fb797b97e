package handler

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jamieblog/catalog-service/internal/model"
	"github.com/jamieblog/catalog-service/internal/service"
	"github.com/spf13/viper"
)

type Handler struct {
	services *service.Service
}

func New(services *service.Service) *Handler {
	return &Handler{
		services: services,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{viper.GetString("client.origin")},
		AllowMethods:     []string{"POST", "GET", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Static("/userimg", viper.GetString("uploads.dir"))
	r.Static("/images", viper.GetString("assets.dir"))

	r.POST("/register", h.usersRegister)
	r.POST("/login", h.usersLogin)
	r.GET("/check-auth", h.authMiddleware, h.usersCheckAuth)

	user := r.Group("/user")
	{
		user.GET("/avatar/:userID", h.usersGetAvatar)
		user.PATCH("/profile", h.authMiddleware, h.usersUpdateProfile)
		user.PATCH("/password", h.authMiddleware, h.usersChangePassword)
	}

	posts := r.Group("/posts")
	{
		posts.GET("", h.postsGet)
		posts.GET("/count", h.postsCount)
		posts.GET("/random", h.postsRandom)
		posts.GET("/my", h.authMiddleware, h.postsGetMy)
		posts.POST("", h.authMiddleware, h.postsCreate)

		post := posts.Group("/:postID")
		{
			post.GET("", h.postsGetByID)
			post.PUT("", h.authMiddleware, h.postsEdit)
			post.DELETE("", h.authMiddleware, h.postsDelete)
			post.POST("/endorse", h.authMiddleware, h.postsEndorse)
			post.GET("/endorsement-status", h.notRequiredAuthMiddleware, h.postsEndorsementStatus)
		}
	}

	r.GET("/posts-latest", h.postsLatest)
	r.GET("/search", h.postsSearch)

	r.GET("/categories", h.taxonomyCategories)
	r.GET("/categories/random", h.taxonomyRandomCategories)
	r.GET("/tags", h.taxonomyTags)
	r.GET("/tags/random", h.taxonomyRandomTags)

	return r
}

func (h *Handler) getUserDataFromClaims(ctx context.Context, claims jwt.MapClaims) (*model.User, error) {
	idString, ok := claims["id"].(string)
	if !ok {
		return nil, errNotAuthorized
	}

	id, err := uuid.Parse(idString)
	if err != nil {
		return nil, err
	}

	user, err := h.services.User.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (h *Handler) getUserFromRequest(c *gin.Context) *model.User {
	userReq, _ := c.Get("user")

	user, ok := userReq.(model.User)
	if !ok {
		return nil
	}

	return &user
}

// callerID returns the authenticated user's ID, or uuid.Nil when the
// request carries no identity.
func (h *Handler) callerID(c *gin.Context) uuid.UUID {
	user := h.getUserFromRequest(c)
	if user == nil {
		return uuid.Nil
	}
	return user.ID
}
