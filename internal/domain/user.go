package domain

import "time"

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

type User struct {
	ID           string     `json:"id" bson:"_id"`
	Email        string     `json:"email" bson:"email"`
	Name         string     `json:"name" bson:"name"`
	PasswordHash string     `json:"-" bson:"password_hash"`
	Role         string     `json:"role" bson:"role"`
	IsVerified   bool       `json:"is_verified" bson:"is_verified"`
	OTP          string     `json:"-" bson:"otp,omitempty"`
	OTPExpiry    *time.Time `json:"-" bson:"otp_expiry,omitempty"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
}

// HasOTP indica si el usuario tiene un OTP pendiente.
func (u User) HasOTP() bool {
	return u.OTP != "" && u.OTPExpiry != nil
}

// PublicUser es el perfil que ve el cliente tras el login.
type PublicUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u User) Public() PublicUser {
	return PublicUser{Name: u.Name, Email: u.Email, Role: u.Role}
}
