package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return &ValidationError{Msg: "email and password are required"}
	}
	return nil
}

type LoginResponse struct {
	Token string `json:"token"`
}
