package tracker

import "github.com/heartmarshall/pallettrack-backend/internal/domain"

// StartCheckInput holds parameters for requesting a pallet check.
// An empty code is allowed: a placeholder is synthesized at confirmation.
type StartCheckInput struct {
	Code     string
	BoxCount int
}

// AddErrorInput holds parameters for one pending defect report.
type AddErrorInput struct {
	Type    domain.ErrorType
	Comment string
	Product *domain.ProductDetails
}
