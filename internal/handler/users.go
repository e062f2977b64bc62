package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) signIn(c *gin.Context, status int, message string, user *model.User) {
	token, err := h.services.Auth.IssueToken(user.ID)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	h.setTokenCookie(c, token, int(h.cfg.CookieMaxAge.Seconds()))

	c.JSON(status, dto.UserResponse{Message: message, User: user.Author()})
}

func (h *Handler) usersRegister(c *gin.Context) {
	var input dto.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.errorResponse(c, errInvalidRequestBody)
		return
	}

	user, err := h.services.User.Register(c.Request.Context(), input)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	h.signIn(c, http.StatusCreated, "User registered successfully", user)
}

func (h *Handler) usersLogin(c *gin.Context) {
	var input dto.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.errorResponse(c, errInvalidRequestBody)
		return
	}

	user, err := h.services.User.Login(c.Request.Context(), input)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	h.signIn(c, http.StatusOK, "Logged in successfully", user)
}

func (h *Handler) usersLogout(c *gin.Context) {
	h.setTokenCookie(c, "", -1)

	c.JSON(http.StatusOK, dto.NewMessageResponse("Logged out successfully"))
}

func (h *Handler) usersGetMe(c *gin.Context) {
	profile, err := h.services.User.FindProfile(c.Request.Context(), h.getUserIDFromRequest(c))
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Handler) usersGetByID(c *gin.Context) {
	userID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		h.errorResponse(c, service.ErrUserNotFound)
		return
	}

	profile, err := h.services.User.FindProfile(c.Request.Context(), userID)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Handler) usersUpdateProfile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUpload)

	var input dto.UpdateProfileRequest
	if err := c.ShouldBind(&input); err != nil {
		h.errorResponse(c, errInvalidRequestBody)
		return
	}

	user, err := h.services.User.UpdateProfile(c.Request.Context(), h.getUserIDFromRequest(c), input)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{Message: "Profile updated successfully", User: user.Author()})
}
