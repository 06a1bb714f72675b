package auth

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var hex64 = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestHashPasswordDeterministic(t *testing.T) {
	a := HashPassword("senha-secreta")
	b := HashPassword("senha-secreta")
	assert.Equal(t, a, b)
	assert.Regexp(t, hex64, a)
	assert.NotEqual(t, a, HashPassword("senha-secreta2"))
}

func TestHashPasswordKnownVector(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", HashPassword(""))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", HashPassword("abc"))
}

func TestVerifyPassword(t *testing.T) {
	stored := HashPassword("correct horse")
	assert.True(t, VerifyPassword(stored, "correct horse"))
	assert.False(t, VerifyPassword(stored, "wrong horse"))
	assert.False(t, VerifyPassword("", ""))

	legacy, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(string(legacy), "correct horse"))
	assert.False(t, VerifyPassword(string(legacy), "wrong horse"))
}
