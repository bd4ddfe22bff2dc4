package dto

// PasswordResetRequest starts the reset flow.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetVerifyRequest checks a code without consuming it.
type PasswordResetVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,max=4"`
}

// PasswordResetChangeRequest sets a new password.
type PasswordResetChangeRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required,max=4"`
	NewPassword string `json:"new_password" validate:"required"`
}
