package dto

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message" example:"Student registered successfully!"`
}

// HealthResponse reports process and document store status
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"up"`
}
