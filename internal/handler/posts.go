package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jamieblog/catalog-service/internal/dto"
	"github.com/jamieblog/catalog-service/internal/model"
)

func (h *Handler) postsGet(c *gin.Context) {
	limit, offset, err := parsePage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	filter, err := parseCatalogFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	posts, err := h.services.Catalog.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsCount(c *gin.Context) {
	filter, err := parseCatalogFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	count, err := h.services.Catalog.Count(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

func (h *Handler) postsGetByID(c *gin.Context) {
	postID, err := parsePostID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	post, err := h.services.Catalog.FindByID(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsGetMy(c *gin.Context) {
	user := h.getUserFromRequest(c)

	sortColumn := c.DefaultQuery("sort", "date")
	order := c.DefaultQuery("order", "DESC")

	posts, err := h.services.Catalog.FindOwnerPosts(c.Request.Context(), user.ID, sortColumn, order)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsRandom(c *gin.Context) {
	count, err := parseCount(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errCountMustBeInt.Error()))
		return
	}

	posts, err := h.services.Catalog.Random(c.Request.Context(), count)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsLatest(c *gin.Context) {
	count, err := parseCount(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errCountMustBeInt.Error()))
		return
	}

	posts, err := h.services.Catalog.Latest(c.Request.Context(), count)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsSearch(c *gin.Context) {
	text := c.Query("q")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "3"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errLimitAndOffsetMustBeInt.Error()))
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	result, err := h.services.Catalog.Search(c.Request.Context(), text, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) postsCreate(c *gin.Context) {
	user := h.getUserFromRequest(c)

	var input dto.CreatePostRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	postDto, err := h.buildPostDto(c, input)
	if err != nil {
		respondError(c, err)
		return
	}

	createdPost, err := h.services.Post.Create(c.Request.Context(), user.ID, dto.CreatePostDto(*postDto))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, *createdPost)
}

func (h *Handler) postsEdit(c *gin.Context) {
	user := h.getUserFromRequest(c)

	postID, err := parsePostID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	var input dto.CreatePostRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	postDto, err := h.buildPostDto(c, input)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.services.Post.Update(c.Request.Context(), postID, user.ID, *postDto); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "post updated"))
}

func (h *Handler) postsDelete(c *gin.Context) {
	user := h.getUserFromRequest(c)

	postID, err := parsePostID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	if err := h.services.Post.Delete(c.Request.Context(), postID, user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "post deleted"))
}

// buildPostDto assembles the service input from the bound form: decodes
// the category/tag name arrays and stores the uploaded image, if any.
// A missing image part leaves ImagePath nil so updates keep the old one.
func (h *Handler) buildPostDto(c *gin.Context, input dto.CreatePostRequest) (*dto.UpdatePostDto, error) {
	categories, err := parseNameList(input.Categories)
	if err != nil {
		return nil, errInvalidAssociationsJSON
	}
	tags, err := parseNameList(input.Tags)
	if err != nil {
		return nil, errInvalidAssociationsJSON
	}

	postDto := dto.UpdatePostDto{
		Title:      input.Title,
		Content:    input.Content,
		Categories: categories,
		Tags:       tags,
	}

	file, fileHeader, err := c.Request.FormFile("image")
	if err == nil {
		defer file.Close()

		imagePath, err := h.services.Post.SaveImage(file, fileHeader)
		if err != nil {
			return nil, err
		}
		postDto.ImagePath = &imagePath
	}

	return &postDto, nil
}

func parsePostID(c *gin.Context) (int64, error) {
	postIDString := strings.TrimSpace(c.Param("postID"))
	return strconv.ParseInt(postIDString, 10, 64)
}

func parsePage(c *gin.Context) (int, int, error) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "3"))
	if err != nil {
		return 0, 0, errLimitAndOffsetMustBeInt
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		return 0, 0, errLimitAndOffsetMustBeInt
	}

	return limit, offset, nil
}

func parseCount(c *gin.Context) (int, error) {
	return strconv.Atoi(c.DefaultQuery("count", "3"))
}

func parseCatalogFilter(c *gin.Context) (model.CatalogFilter, error) {
	categoryIDs, err := parseIDList(c.Query("categories"))
	if err != nil {
		return model.CatalogFilter{}, errInvalidIDList
	}

	tagIDs, err := parseIDList(c.Query("tags"))
	if err != nil {
		return model.CatalogFilter{}, errInvalidIDList
	}

	return model.CatalogFilter{
		CategoryIDs: categoryIDs,
		TagIDs:      tagIDs,
	}, nil
}

func parseIDList(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func parseNameList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, err
	}

	return names, nil
}
