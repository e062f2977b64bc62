package handler

import (
	"net/http"
	"time"

	"github.com/BloggingApp/blog-service/internal/config"
	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultCookieName   = "token"
	defaultCookieMaxAge = 7 * 24 * time.Hour
	defaultMaxUpload    = 4 << 20
	userIDKey           = "user-id"
)

type Handler struct {
	services *service.Service
	logger   *zap.Logger
	cfg      config.HandlerConfig
}

func New(services *service.Service, logger *zap.Logger, cfg config.HandlerConfig) *Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName
	}
	if cfg.CookieMaxAge <= 0 {
		cfg.CookieMaxAge = defaultCookieMaxAge
	}
	if cfg.MaxUpload <= 0 {
		cfg.MaxUpload = defaultMaxUpload
	}

	return &Handler{
		services: services,
		logger:   logger,
		cfg:      cfg,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), h.loggerMiddleware)

	if h.cfg.ClientOrigin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{h.cfg.ClientOrigin},
			AllowMethods:     []string{"POST", "GET", "PUT", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api := r.Group("/api")
	{
		api.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, dto.NewMessageResponse("API is up and running!"))
		})

		users := api.Group("/users")
		{
			users.POST("/register", h.usersRegister)
			users.POST("/login", h.usersLogin)
			users.POST("/logout", h.usersLogout)
			users.GET("/me", h.authMiddleware, h.usersGetMe)
			users.PUT("/profile", h.authMiddleware, h.usersUpdateProfile)
			users.GET("/:id", h.usersGetByID)
		}

		posts := api.Group("/posts")
		{
			posts.POST("", h.authMiddleware, h.postsCreate)
			posts.GET("", h.postsGet)
			if h.services.SearchEnabled() {
				posts.GET("/search", h.postsSearch)
			}

			post := posts.Group("/:id")
			{
				post.GET("", h.postsGetByID)
				post.PUT("", h.authMiddleware, h.postsUpdate)
				post.DELETE("", h.authMiddleware, h.postsDelete)
			}
		}

		comments := api.Group("/comments")
		{
			comments.POST("", h.authMiddleware, h.commentsCreate)
			comments.GET("/post/:postId", h.commentsGetByPost)
			comments.PUT("/:id", h.authMiddleware, h.commentsUpdate)
			comments.DELETE("/:id", h.authMiddleware, h.commentsDelete)
		}
	}

	return r
}

func (h *Handler) getUserIDFromRequest(c *gin.Context) uuid.UUID {
	id, _ := c.Get(userIDKey)

	userID, ok := id.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}
