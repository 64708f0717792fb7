package models

import "github.com/shopspring/decimal"

// Course represents a course in the catalog. Offerings inherit the
// course's credit weight.
type Course struct {
	ID          int64           `json:"id" db:"id"`
	Code        string          `json:"code" db:"code" example:"CENG301"`
	Name        string          `json:"name" db:"name" example:"Operating Systems"`
	Description *string         `json:"description,omitempty" db:"description"` // Nullable
	Department  string          `json:"department" db:"department" example:"Computer Engineering"`
	Credits     decimal.Decimal `json:"credits" db:"credits" example:"3.5"`
}
