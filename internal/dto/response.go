package dto

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func NewErrorResponse(details string, fields map[string]string) ErrorResponse {
	return ErrorResponse{
		Error:  details,
		Fields: fields,
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewMessageResponse(message string) MessageResponse {
	return MessageResponse{
		Message: message,
	}
}
