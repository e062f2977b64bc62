package memory

import (
	"context"
	"time"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/repository/store"
	"github.com/google/uuid"
)

type userRepo struct {
	db *db
}

// checkUnique must be called with the write lock held.
func (r *userRepo) checkUnique(id uuid.UUID, username, email string) error {
	for _, u := range r.db.users {
		if u.ID == id {
			continue
		}
		if username != "" && u.Username == username {
			return &store.DuplicateKeyError{Field: "username"}
		}
		if email != "" && sameEmail(u.Email, email) {
			return &store.DuplicateKeyError{Field: "email"}
		}
	}
	return nil
}

func (r *userRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.checkUnique(user.ID, user.Username, user.Email); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.db.users[user.ID] = *cloneUser(user)

	return cloneUser(user), nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	user, ok := r.db.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneUser(user), nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, user := range r.db.users {
		if sameEmail(user.Email, email) {
			return cloneUser(user), nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *userRepo) Update(ctx context.Context, id uuid.UUID, update model.UserUpdate) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	user, ok := r.db.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	var username, email string
	if update.Username != nil {
		username = *update.Username
	}
	if update.Email != nil {
		email = *update.Email
	}
	if err := r.checkUnique(id, username, email); err != nil {
		return nil, err
	}

	if update.Username != nil {
		user.Username = *update.Username
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.PasswordHash != nil {
		user.PasswordHash = *update.PasswordHash
	}
	if update.ProfilePicture != nil {
		picture := *update.ProfilePicture
		user.ProfilePicture = &picture
	}
	user.UpdatedAt = time.Now().UTC()
	r.db.users[id] = user

	return cloneUser(user), nil
}
