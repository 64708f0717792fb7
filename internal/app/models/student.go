package models

import "github.com/shopspring/decimal"

// Student defines the student model based on the 'students' table
type Student struct {
	ID         int64  `json:"id" db:"id" example:"1"`                     // Unique identifier for the student record
	UserID     int64  `json:"userId" db:"user_id" example:"5"`            // ID of the associated user account
	Number     string `json:"number" db:"number" example:"20241234"`      // Student number
	Major      string `json:"major" db:"major" example:"Computer Engineering"`
	EnrollYear int    `json:"enrollYear" db:"enroll_year" example:"2024"` // Year the student enrolled at the school

	// MaxCredits is the per-student credit ceiling for one term.
	// Nil means the configured default applies.
	MaxCredits *decimal.Decimal `json:"maxCredits,omitempty" db:"max_credits"`

	// Relations (populated when needed)
	User *User `json:"user,omitempty"`
}
