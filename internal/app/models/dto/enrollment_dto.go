package dto

import "github.com/shopspring/decimal"

// SelectCourseRequest is the payload for selecting an offering
type SelectCourseRequest struct {
	OfferingID int64 `json:"offeringId" binding:"required" example:"12"`
}

// SelectCourseResponse is returned on a successful selection
type SelectCourseResponse struct {
	EnrollmentID int64 `json:"enrollmentId" example:"101"`
}

// CreditPositionResponse reports a student's active credit total for a term
type CreditPositionResponse struct {
	TermID     int64           `json:"termId" example:"1"`
	Credits    decimal.Decimal `json:"credits" example:"17.5"`
	MaxCredits decimal.Decimal `json:"maxCredits" example:"30"`
}
