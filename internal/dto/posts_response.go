package dto

import "github.com/BloggingApp/blog-service/internal/model"

type PostResponse struct {
	Message string      `json:"message"`
	Post    *model.Post `json:"post"`
}

type CommentResponse struct {
	Message string         `json:"message"`
	Comment *model.Comment `json:"comment"`
}
