package usecase

import (
	"regexp"
	"testing"

	"recruitment-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[0-9A-F]{16}$`)

func TestGenerateVerificationCodeFormat(t *testing.T) {
	code, err := GenerateVerificationCode(42, domain.DocConvocation)
	require.NoError(t, err)
	assert.Regexp(t, codePattern, code)
}

func TestGenerateVerificationCodeUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := GenerateVerificationCode(1, domain.DocAcceptation)
		require.NoError(t, err)
		require.False(t, seen[code], "duplicate code %s after %d generations", code, i)
		seen[code] = true
	}
}

func TestGenerateVerificationCodeDoesNotLeakInputs(t *testing.T) {
	code, err := GenerateVerificationCode(1234567, domain.DocConvocation)
	require.NoError(t, err)
	assert.NotContains(t, code, "1234567")
	assert.NotContains(t, code, "convocation")
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "A1B2C3D4E5F60718", NormalizeCode("  a1b2c3d4e5f60718\n"))
	assert.Equal(t, "", NormalizeCode("   "))
}
