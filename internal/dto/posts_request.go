package dto

type CreatePostRequest struct {
	Title   string   `json:"title" validate:"required,min=5"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags"`
}

type UpdatePostRequest struct {
	Title   *string   `json:"title" validate:"omitnil,min=5"`
	Content *string   `json:"content" validate:"omitnil,min=1"`
	Tags    *[]string `json:"tags"`
}

// PageQuery carries the raw pagination parameters of a list request. They stay strings
// so that malformed numbers are reported as validation errors instead of bind errors.
type PageQuery struct {
	Page  string `form:"page"`
	Limit string `form:"limit"`
	Sort  string `form:"sort"`
	Order string `form:"order"`
}

type PostsQuery struct {
	PageQuery
	Tag    string `form:"tag" json:"tag"`
	Author string `form:"author" json:"author" validate:"omitempty,uuid"`
}

type SearchQuery struct {
	PageQuery
	Q string `form:"q" json:"q" validate:"required"`
}
