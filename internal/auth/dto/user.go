package dto

// UserOutput is the public projection of a user. Password and refresh-token
// hashes never leave the service layer.
type UserOutput struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	ReferralCode string `json:"referralCode"`
	Role         string `json:"role"`
}
