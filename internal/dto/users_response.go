package dto

import "github.com/BloggingApp/blog-service/internal/model"

type UserResponse struct {
	Message string       `json:"message"`
	User    model.Author `json:"user"`
}
