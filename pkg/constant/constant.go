package constant

const (
	// ReferralCodeAlphabet spans 36^5 ≈ 60M possible codes.
	ReferralCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	ReferralCodePrefix   = "REF-"
	ReferralCodeLength   = 5

	// MaxReferralCodeAttempts bounds the uniqueness retry loop during
	// registration so code generation cannot spin forever.
	MaxReferralCodeAttempts = 10
)
