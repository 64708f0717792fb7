package dto

// RegisterRequest is the payload for registration. Role defaults to
// STUDENT; students must supply their number, teachers may supply a title
// and department.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email" example:"student@school.edu"`
	Password  string `json:"password" binding:"required,min=8" example:"s3cretpass"`
	FirstName string `json:"firstName" binding:"required" example:"John"`
	LastName  string `json:"lastName" binding:"required" example:"Doe"`
	Role      string `json:"role" binding:"omitempty,oneof=STUDENT TEACHER" example:"STUDENT"`

	// Student profile fields
	Number string `json:"number" example:"20241234"`
	Major  string `json:"major" example:"Computer Engineering"`

	// Teacher profile fields
	Title      string `json:"title" example:"Assoc. Prof."`
	Department string `json:"department" example:"Computer Engineering"`
}

// LoginRequest is the payload for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"student@school.edu"`
	Password string `json:"password" binding:"required" example:"s3cretpass"`
}

// RefreshTokenRequest is the payload for exchanging a refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LoginResponse is returned on successful login or token refresh
type LoginResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	TokenType        string `json:"tokenType" example:"Bearer"`
	ExpiresIn        int    `json:"expiresIn" example:"3600"`
	RefreshExpiresIn int    `json:"refreshExpiresIn" example:"2592000"`
	UserID           int64  `json:"userId" example:"1"`
	RoleType         string `json:"roleType" example:"STUDENT"`
}
