package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheapParams keeps hashing fast in tests.
var cheapParams = Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := NewHasher(cheapParams)
	require.NoError(t, err)
	return h
}

func TestHasher_HashAndVerify(t *testing.T) {
	h := newTestHasher(t)

	encoded, err := h.Hash("correct horse battery")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$"))

	assert.True(t, h.Verify(encoded, "correct horse battery"))
	assert.False(t, h.Verify(encoded, "correct horse battery "))
	assert.False(t, h.Verify(encoded, ""))
}

func TestHasher_SaltIsRandom(t *testing.T) {
	h := newTestHasher(t)

	a, err := h.Hash("same password")
	require.NoError(t, err)
	b, err := h.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify(a, "same password"))
	assert.True(t, h.Verify(b, "same password"))
}

func TestHasher_VerifyUsesEmbeddedParams(t *testing.T) {
	old := newTestHasher(t)
	encoded, err := old.Hash("password123")
	require.NoError(t, err)

	stronger, err := NewHasher(Params{Memory: 2048, Iterations: 2, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	require.NoError(t, err)
	assert.True(t, stronger.Verify(encoded, "password123"))
}

func TestHasher_RejectsBadInput(t *testing.T) {
	h := newTestHasher(t)

	_, err := h.Hash("")
	assert.Error(t, err)

	_, err = h.Hash(strings.Repeat("x", MaxPasswordLength+1))
	assert.Error(t, err)

	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaA",
	} {
		assert.False(t, h.Verify(encoded, "password123"), "encoded %q", encoded)
	}
}

func TestHasher_VerifyDummyNeverMatches(t *testing.T) {
	h := newTestHasher(t)
	assert.False(t, h.VerifyDummy("anything"))
}

func TestNewHasher_InvalidParams(t *testing.T) {
	_, err := NewHasher(Params{})
	assert.Error(t, err)

	_, err = NewHasher(Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 4, KeyLength: 32})
	assert.Error(t, err)
}
