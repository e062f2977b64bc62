package model

import (
	"time"

	"github.com/google/uuid"
)

type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	ProfilePicture *Image    `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Author is the public projection of a User joined into posts and comments.
type Author struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	ProfilePicture *Image    `json:"profile_picture"`
}

func (u *User) Author() Author {
	return Author{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
	}
}

type UserProfile struct {
	User
	Posts []*Post `json:"posts"`
}

// UserUpdate holds the fields of a partial profile update. Nil means unchanged.
type UserUpdate struct {
	Username       *string
	Email          *string
	PasswordHash   *string
	ProfilePicture *Image
}

func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.Email == nil && u.PasswordHash == nil && u.ProfilePicture == nil
}
