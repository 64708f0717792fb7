package models

import "time"

// Term represents one academic term (e.g. 2025 Fall).
// Exactly one term is flagged current at a time; selection is always
// evaluated against the current term.
type Term struct {
	ID        int64      `json:"id" db:"id" example:"1"`
	Name      string     `json:"name" db:"name" example:"2025 Fall"`
	Year      int        `json:"year" db:"year" example:"2025"`
	Season    TermSeason `json:"season" db:"season" example:"FALL"`
	StartDate time.Time  `json:"startDate" db:"start_date"`
	EndDate   time.Time  `json:"endDate" db:"end_date"`
	IsCurrent bool       `json:"isCurrent" db:"is_current"`
}
