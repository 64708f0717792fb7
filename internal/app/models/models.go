package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleTeacher RoleType = "TEACHER"
	RoleAdmin   RoleType = "ADMIN"
)

// OfferingStatus represents the lifecycle status of a course offering
type OfferingStatus string

const (
	OfferingPending   OfferingStatus = "PENDING"
	OfferingOpen      OfferingStatus = "OPEN"
	OfferingClosed    OfferingStatus = "CLOSED"
	OfferingCancelled OfferingStatus = "CANCELLED"
)

// EnrollmentStatus represents the lifecycle state of an enrollment record.
// Both states are terminal: re-selecting after a drop creates a new record
// rather than reviving the dropped one.
type EnrollmentStatus string

const (
	EnrollmentSelected EnrollmentStatus = "SELECTED"
	EnrollmentDropped  EnrollmentStatus = "DROPPED"
)

// TermSeason represents the season of an academic term
type TermSeason string

const (
	SeasonFall   TermSeason = "FALL"
	SeasonSpring TermSeason = "SPRING"
	SeasonSummer TermSeason = "SUMMER"
)
