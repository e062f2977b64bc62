// Package memory is an in-process entity store. It backs the "memory" database driver and
// the service and handler tests.
package memory

import (
	"slices"
	"strings"
	"sync"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/repository/store"
	"github.com/google/uuid"
)

type db struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]model.User
	posts    map[uuid.UUID]model.Post
	comments map[uuid.UUID]model.Comment
}

func New() *store.Store {
	d := &db{
		users:    make(map[uuid.UUID]model.User),
		posts:    make(map[uuid.UUID]model.Post),
		comments: make(map[uuid.UUID]model.Comment),
	}

	return store.New(&userRepo{db: d}, &postRepo{db: d}, &commentRepo{db: d}, nil)
}

// author must be called with d.mu held.
func (d *db) author(id uuid.UUID) model.Author {
	user, ok := d.users[id]
	if !ok {
		return model.Author{ID: id}
	}
	return user.Author()
}

func clonePost(p model.Post) *model.Post {
	p.Tags = slices.Clone(p.Tags)
	p.Comments = slices.Clone(p.Comments)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Comments == nil {
		p.Comments = []uuid.UUID{}
	}
	return &p
}

func cloneUser(u model.User) *model.User {
	if u.ProfilePicture != nil {
		picture := *u.ProfilePicture
		u.ProfilePicture = &picture
	}
	return &u
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(a, b)
}
