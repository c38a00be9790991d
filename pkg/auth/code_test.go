package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNumericCode_Length(t *testing.T) {
	for _, length := range []int{4, 6, 8, 10} {
		code, err := GenerateNumericCode(length)
		require.NoError(t, err)
		assert.Len(t, code, length)
	}
}

func TestGenerateNumericCode_DefaultsOnNonPositiveLength(t *testing.T) {
	code, err := GenerateNumericCode(0)
	require.NoError(t, err)
	assert.Len(t, code, DefaultCodeLength)

	code, err = GenerateNumericCode(-3)
	require.NoError(t, err)
	assert.Len(t, code, DefaultCodeLength)
}

func TestGenerateNumericCode_RejectsExcessiveLength(t *testing.T) {
	_, err := GenerateNumericCode(MaxCodeLength + 1)
	assert.Error(t, err)
}

func TestGenerateNumericCode_DigitsOnly(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateNumericCode(6)
		require.NoError(t, err)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "unexpected character %q in code %q", r, code)
		}
	}
}

func TestGenerateNumericCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateNumericCode(8)
		require.NoError(t, err)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1, "codes should not repeat across 50 draws")
}

func TestSecureCompare(t *testing.T) {
	assert.True(t, SecureCompare("123456", "123456"))
	assert.False(t, SecureCompare("123456", "123457"))
	assert.False(t, SecureCompare("123456", "12345"))
	assert.False(t, SecureCompare("", "123456"))
	assert.True(t, SecureCompare("", ""))
}
