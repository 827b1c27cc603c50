package service

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventloyal/auth-service/pkg/constant"
)

func TestReferralCodeGenerator_Format(t *testing.T) {
	g := NewReferralCodeGenerator()
	pattern := regexp.MustCompile(`^REF-[A-Z0-9]{5}$`)

	for i := 0; i < 1000; i++ {
		code, err := g.Generate()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestReferralCodeGenerator_UsesWholeAlphabet(t *testing.T) {
	g := NewReferralCodeGenerator()

	seen := make(map[byte]bool)
	for i := 0; i < 2000; i++ {
		code, err := g.Generate()
		require.NoError(t, err)

		suffix := strings.TrimPrefix(code, constant.ReferralCodePrefix)
		require.Len(t, suffix, constant.ReferralCodeLength)
		for j := 0; j < len(suffix); j++ {
			seen[suffix[j]] = true
		}
	}

	// With 10000 uniform draws every symbol should have appeared.
	for i := 0; i < len(constant.ReferralCodeAlphabet); i++ {
		assert.True(t, seen[constant.ReferralCodeAlphabet[i]],
			"symbol %q never drawn", constant.ReferralCodeAlphabet[i])
	}
}
