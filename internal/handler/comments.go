package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) commentIDParam(c *gin.Context) (uuid.UUID, bool) {
	commentID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		h.errorResponse(c, service.ErrCommentNotFound)
		return uuid.Nil, false
	}
	return commentID, true
}

func (h *Handler) commentsCreate(c *gin.Context) {
	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.errorResponse(c, errInvalidRequestBody)
		return
	}

	createdComment, err := h.services.Comment.Create(c.Request.Context(), h.getUserIDFromRequest(c), input)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CommentResponse{Message: "Comment created successfully", Comment: createdComment})
}

func (h *Handler) commentsGetByPost(c *gin.Context) {
	postID, err := uuid.Parse(strings.TrimSpace(c.Param("postId")))
	if err != nil {
		h.errorResponse(c, service.ErrPostNotFound)
		return
	}

	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.errorResponse(c, errInvalidRequestBody)
		return
	}

	comments, err := h.services.Comment.ListByPost(c.Request.Context(), postID, query)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *Handler) commentsUpdate(c *gin.Context) {
	commentID, ok := h.commentIDParam(c)
	if !ok {
		return
	}

	var input dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.errorResponse(c, errInvalidRequestBody)
		return
	}

	updatedComment, err := h.services.Comment.Update(c.Request.Context(), h.getUserIDFromRequest(c), commentID, input)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CommentResponse{Message: "Comment updated successfully", Comment: updatedComment})
}

func (h *Handler) commentsDelete(c *gin.Context) {
	commentID, ok := h.commentIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), h.getUserIDFromRequest(c), commentID); err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse("Comment deleted successfully"))
}
