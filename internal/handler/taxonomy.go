package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jamieblog/catalog-service/internal/dto"
)

func (h *Handler) taxonomyCategories(c *gin.Context) {
	categories, err := h.services.Taxonomy.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *Handler) taxonomyTags(c *gin.Context) {
	tags, err := h.services.Taxonomy.Tags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tags)
}

func (h *Handler) taxonomyRandomCategories(c *gin.Context) {
	count, excludeIDs, err := parseRandomTaxonomyQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	categories, err := h.services.Taxonomy.RandomCategories(c.Request.Context(), count, excludeIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *Handler) taxonomyRandomTags(c *gin.Context) {
	count, excludeIDs, err := parseRandomTaxonomyQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	tags, err := h.services.Taxonomy.RandomTags(c.Request.Context(), count, excludeIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tags)
}

func parseRandomTaxonomyQuery(c *gin.Context) (int, []int64, error) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "5"))
	if err != nil {
		return 0, nil, errCountMustBeInt
	}

	excludeIDs, err := parseIDList(c.Query("exclude"))
	if err != nil {
		return 0, nil, errInvalidIDList
	}

	return count, excludeIDs, nil
}
