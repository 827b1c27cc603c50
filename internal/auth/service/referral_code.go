package service

//go:generate mockgen -destination=../../mocks/mock_code_generator.go -package=mocks github.com/eventloyal/auth-service/internal/auth/service CodeGenerator

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/eventloyal/auth-service/pkg/constant"
)

type CodeGenerator interface {
	Generate() (string, error)
}

// ReferralCodeGenerator produces codes of the form REF-XXXXX where each X is
// drawn uniformly from A-Z0-9. Uniqueness is the caller's concern.
type ReferralCodeGenerator struct{}

func NewReferralCodeGenerator() *ReferralCodeGenerator {
	return &ReferralCodeGenerator{}
}

func (g *ReferralCodeGenerator) Generate() (string, error) {
	alphabetSize := big.NewInt(int64(len(constant.ReferralCodeAlphabet)))
	code := make([]byte, constant.ReferralCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to draw random index: %w", err)
		}
		code[i] = constant.ReferralCodeAlphabet[n.Int64()]
	}

	return constant.ReferralCodePrefix + string(code), nil
}

var _ CodeGenerator = (*ReferralCodeGenerator)(nil)
