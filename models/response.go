package models

// APIResponse is the success envelope shared by the doctor and appointment endpoints.
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func NewAPIResponse(status int, data any, message string) APIResponse {
	return APIResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < 400,
	}
}
