package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// postIDParam parses the :id path segment. A malformed id is answered like a missing post.
func (h *Handler) postIDParam(c *gin.Context) (uuid.UUID, bool) {
	postID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		h.errorResponse(c, service.ErrPostNotFound)
		return uuid.Nil, false
	}
	return postID, true
}

func (h *Handler) postsCreate(c *gin.Context) {
	var input dto.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.errorResponse(c, errInvalidRequestBody)
		return
	}

	createdPost, err := h.services.Post.Create(c.Request.Context(), h.getUserIDFromRequest(c), input)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.PostResponse{Message: "Post created successfully", Post: createdPost})
}

func (h *Handler) postsGet(c *gin.Context) {
	var query dto.PostsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.errorResponse(c, errInvalidRequestBody)
		return
	}

	posts, err := h.services.Post.List(c.Request.Context(), query)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsSearch(c *gin.Context) {
	var query dto.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.errorResponse(c, errInvalidRequestBody)
		return
	}

	result, err := h.services.Post.Search(c.Request.Context(), query)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) postsGetByID(c *gin.Context) {
	postID, ok := h.postIDParam(c)
	if !ok {
		return
	}

	post, err := h.services.Post.FindByID(c.Request.Context(), postID)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsUpdate(c *gin.Context) {
	postID, ok := h.postIDParam(c)
	if !ok {
		return
	}

	var input dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.errorResponse(c, errInvalidRequestBody)
		return
	}

	updatedPost, err := h.services.Post.Update(c.Request.Context(), h.getUserIDFromRequest(c), postID, input)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PostResponse{Message: "Post updated successfully", Post: updatedPost})
}

func (h *Handler) postsDelete(c *gin.Context) {
	postID, ok := h.postIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Post.Delete(c.Request.Context(), h.getUserIDFromRequest(c), postID); err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse("Post deleted successfully"))
}
