package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yigit/courseselect/internal/app/models"
)

// CreateCourseRequest is the payload for creating a course
type CreateCourseRequest struct {
	Code        string          `json:"code" binding:"required" example:"CENG301"`
	Name        string          `json:"name" binding:"required" example:"Operating Systems"`
	Description *string         `json:"description,omitempty"`
	Department  string          `json:"department" binding:"required" example:"Computer Engineering"`
	Credits     decimal.Decimal `json:"credits" binding:"required" example:"3.5"`
}

// CreateOfferingRequest is the payload for scheduling an offering of a course
type CreateOfferingRequest struct {
	CourseID       int64      `json:"courseId" binding:"required" example:"1"`
	TeacherID      int64      `json:"teacherId" binding:"required" example:"2"`
	TermID         int64      `json:"termId" binding:"required" example:"1"`
	Section        string     `json:"section" example:"A1"`
	Classroom      string     `json:"classroom" example:"B-204"`
	Capacity       int        `json:"capacity" binding:"required,gt=0" example:"40"`
	SelectionStart *time.Time `json:"selectionStart,omitempty"`
	SelectionEnd   *time.Time `json:"selectionEnd,omitempty"`
}

// UpdateOfferingStatusRequest changes an offering's lifecycle status
type UpdateOfferingStatusRequest struct {
	Status models.OfferingStatus `json:"status" binding:"required" example:"OPEN"`
}

// UpdateOfferingCapacityRequest changes an offering's capacity. Only
// allowed while the offering has no active enrollments.
type UpdateOfferingCapacityRequest struct {
	Capacity int `json:"capacity" binding:"required,gt=0" example:"60"`
}

// CreateTermRequest is the payload for creating a term
type CreateTermRequest struct {
	Name      string            `json:"name" binding:"required" example:"2025 Fall"`
	Year      int               `json:"year" binding:"required" example:"2025"`
	Season    models.TermSeason `json:"season" binding:"required" example:"FALL"`
	StartDate time.Time         `json:"startDate" binding:"required"`
	EndDate   time.Time         `json:"endDate" binding:"required"`
}

// AvailableOfferingResponse is one row of the student-facing offering list.
// CanSelect and Reason describe whether a select would currently succeed
// for this student; the authoritative check still happens on select.
type AvailableOfferingResponse struct {
	Offering   *models.Offering `json:"offering"`
	IsSelected bool             `json:"isSelected"`
	CanSelect  bool             `json:"canSelect"`
	Reason     string           `json:"reason,omitempty" example:"offering is full"`
}
