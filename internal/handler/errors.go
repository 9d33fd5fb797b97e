package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jamieblog/catalog-service/internal/dto"
	"github.com/jamieblog/catalog-service/internal/service"
)

var (
	errNotAuthorized           = errors.New("user is not authorized")
	errInvalidPostID           = errors.New("invalid post ID")
	errInvalidUserID           = errors.New("invalid user ID")
	errInvalidIDList           = errors.New("category and tag filters must be comma-separated IDs")
	errLimitAndOffsetMustBeInt = errors.New("limit and offset must be int")
	errCountMustBeInt          = errors.New("count must be int")
	errInvalidAssociationsJSON = errors.New("categories and tags must be JSON arrays of names")
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrTagNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrTooManyCategories),
		errors.Is(err, service.ErrTooManyTags),
		errors.Is(err, service.ErrInvalidSortParams),
		errors.Is(err, service.ErrFileMustBeImage):
		return http.StatusBadRequest
	case errors.Is(err, errInvalidAssociationsJSON):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUsernameTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusOf(err), dto.NewBasicResponse(false, err.Error()))
}
