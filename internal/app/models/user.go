package models

import "time"

// User defines the user model based on the 'users' table
type User struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	Email        string    `json:"email" db:"email" example:"student@school.edu"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"firstName" db:"first_name" example:"John"`
	LastName     string    `json:"lastName" db:"last_name" example:"Doe"`
	RoleType     RoleType  `json:"roleType" db:"role_type" example:"STUDENT"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
