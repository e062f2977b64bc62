package handler

import (
	"errors"
	"net/http"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/service"
	"github.com/gin-gonic/gin"
)

var (
	errNotAuthorized      = errors.New("user is not authorized")
	errInvalidRequestBody = errors.New("invalid request body")
)

// errorResponse writes err with the status its kind maps to.
func (h *Handler) errorResponse(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var duplicateErr *service.DuplicateError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(validationErr.Error(), validationErr.Fields))
	case errors.As(err, &duplicateErr):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(duplicateErr.Error(), nil))
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrNotAuthorized):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(err.Error(), nil))
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(err.Error(), nil))
	case errors.Is(err, service.ErrMediaRejected), errors.Is(err, errInvalidRequestBody):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error(), nil))
	case errors.Is(err, service.ErrMediaNotConfigured), errors.Is(err, service.ErrMediaUnavailable):
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(err.Error(), nil))
	default:
		if !errors.Is(err, service.ErrInternal) {
			h.logger.Sugar().Errorf("unmapped error: %s", err.Error())
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(service.ErrInternal.Error(), nil))
	}
}
