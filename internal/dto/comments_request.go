package dto

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=2"`
	Post    string `json:"post" validate:"required,uuid"`
}

type UpdateCommentRequest struct {
	Content *string `json:"content" validate:"omitnil,min=2"`
}
