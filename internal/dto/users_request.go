package dto

import "mime/multipart"

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Username       *string               `form:"username" json:"username" validate:"omitnil,min=3"`
	Email          *string               `form:"email" json:"email" validate:"omitnil,email"`
	Password       *string               `form:"password" json:"password" validate:"omitnil,min=6,max=72"`
	ProfilePicture *multipart.FileHeader `form:"profile_picture" json:"-" validate:"-"`
}
