package model

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID   `json:"id"`
	AuthorID  uuid.UUID   `json:"author_id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	Tags      []string    `json:"tags"`
	Comments  []uuid.UUID `json:"comments"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (p *Post) Owner() uuid.UUID {
	return p.AuthorID
}

type FullPost struct {
	Post
	Author Author `json:"author"`
}

// PostDetails is a post with its comments populated instead of referenced by id.
type PostDetails struct {
	Post
	Author   Author         `json:"author"`
	Comments []*FullComment `json:"comments"`
}

type PostUpdate struct {
	Title   *string
	Content *string
	Tags    *[]string
}

func (u PostUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil && u.Tags == nil
}

type PostFilter struct {
	Tag      string
	AuthorID *uuid.UUID
}
