package models

// Teacher defines the teacher model based on the 'teachers' table
type Teacher struct {
	ID         int64  `json:"id" db:"id" example:"1"`
	UserID     int64  `json:"userId" db:"user_id" example:"7"`
	Title      string `json:"title" db:"title" example:"Assoc. Prof."`
	Department string `json:"department" db:"department" example:"Computer Engineering"`

	// Relations (populated when needed)
	User *User `json:"user,omitempty"`
}
