package dto

type RegisterInput struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	ReferralCode string `json:"referralCode" validate:"omitempty,min=1"`
	Role         string `json:"role" validate:"omitempty,oneof=CUSTOMER ORGANIZER ADMIN"`
}

type RegisterResponse struct {
	Message      string     `json:"message"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	User         UserOutput `json:"user"`
}
