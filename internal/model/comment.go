package model

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Comment) Owner() uuid.UUID {
	return c.AuthorID
}

type FullComment struct {
	Comment
	Author Author `json:"author"`
}

type CommentUpdate struct {
	Content *string
}
