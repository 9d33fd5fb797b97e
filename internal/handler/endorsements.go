package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jamieblog/catalog-service/internal/dto"
)

func (h *Handler) postsEndorse(c *gin.Context) {
	user := h.getUserFromRequest(c)

	postID, err := parsePostID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	var input dto.SetEndorsementRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.Endorsement.Set(c.Request.Context(), postID, user.ID, *input.Endorsement); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "endorsement saved"))
}

func (h *Handler) postsEndorsementStatus(c *gin.Context) {
	postID, err := parsePostID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	callerID := h.callerID(c)
	if callerID == uuid.Nil {
		// No identity: the client just renders the neutral state.
		c.JSON(http.StatusOK, dto.EndorsementStatusResponse{Endorsement: nil})
		return
	}

	status, err := h.services.Endorsement.Status(c.Request.Context(), postID, callerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.EndorsementStatusResponse{Endorsement: status})
}
