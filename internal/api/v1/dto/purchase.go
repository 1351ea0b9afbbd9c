package dto

// PurchaseRequestDTO initiates a checkout for a course
type PurchaseRequestDTO struct {
	CourseID string `json:"course_id" validate:"required"`
}

// PurchaseResponseDTO carries the Stripe Checkout redirect URL
type PurchaseResponseDTO struct {
	SessionURL string `json:"session_url"`
}
