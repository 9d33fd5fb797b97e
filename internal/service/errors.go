package service

import "errors"

var (
	ErrInternal           = errors.New("internal server error")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("you are not the owner of this post")
	ErrPostNotFound       = errors.New("post not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrTooManyCategories  = errors.New("a post can have at most one category")
	ErrTooManyTags        = errors.New("a post can have at most two tags")
	ErrInvalidSortParams  = errors.New("invalid sort column or order")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrFileMustBeImage    = errors.New("file must be an image")
)
