package model

// APIResponse is the common response envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccessResponse builds a success envelope with optional payload.
func NewSuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{Success: true, Message: message, Data: data}
}

// NewErrorResponse builds an error envelope. detail may be empty.
func NewErrorResponse(message, detail string) APIResponse {
	return APIResponse{Success: false, Message: message, Error: detail}
}
