package dto

// ForgotPasswordRequest represents the request payload for requesting a
// password reset code
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPasswordResponse confirms the verification code was sent
type ForgotPasswordResponse struct {
	Message string `json:"message"`
}

// VerifyResetCodeRequest exchanges a 6-digit code for a reset token
type VerifyResetCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

// VerifyResetCodeResponse carries the short-lived reset token
type VerifyResetCodeResponse struct {
	ResetToken string `json:"reset_token"`
	Message    string `json:"message"`
}

// ResetPasswordRequest sets a new password using a reset token
type ResetPasswordRequest struct {
	ResetToken  string `json:"reset_token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ResetPasswordResponse confirms the password change
type ResetPasswordResponse struct {
	Message string `json:"message"`
}
