package model

// Credentials are submitted by the login form.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is submitted by the register form.
type Registration struct {
	Firstname string `json:"firstname" validate:"min=2"`
	Lastname  string `json:"lastname" validate:"min=2"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"min=6"`
	Role      Role   `json:"role,omitempty" validate:"omitempty,oneof=ADMIN MODERATOR USER DOCTOR"`
}

// Message is the reply envelope of the login and register endpoints.
type Message struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
