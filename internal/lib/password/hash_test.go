package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{
			name:     "regular password",
			password: "password123",
		},
		{
			name:     "password with special chars",
			password: "p@ssw0rd!@#$%^&*()",
		},
		{
			name:     "long password",
			password: "verylongpasswordwithmorethanfiftycharacters",
		},
		{
			name:     "short password",
			password: "short",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHash, err := GetHash(tt.password)
			require.NoError(t, err)
			assert.NotEmpty(t, gotHash)
			assert.NotEqual(t, tt.password, gotHash)
		})
	}
}

func TestCompareHash(t *testing.T) {
	hash, err := GetHash("correct-password")
	require.NoError(t, err)

	assert.NoError(t, CompareHash(hash, "correct-password"))
	assert.Error(t, CompareHash(hash, "wrong-password"))
	assert.Error(t, CompareHash("not-a-hash", "correct-password"))
}

func TestGetHash_DifferentSalts(t *testing.T) {
	first, err := GetHash("same-password")
	require.NoError(t, err)
	second, err := GetHash("same-password")
	require.NoError(t, err)

	// bcrypt генерирует соль на каждый вызов
	assert.NotEqual(t, first, second)
}
