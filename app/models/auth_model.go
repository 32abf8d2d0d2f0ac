package models

type SignUp struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8,mixed_case,has_number,has_symbol,eqfield=PasswordConfirmation"`
	PasswordConfirmation string `json:"password_confirmation"`
	Turnstile            any    `json:"cf-turnstile-response"`
}

type SignIn struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type DeleteAccount struct {
	Password string `json:"password" validate:"required"`
}
