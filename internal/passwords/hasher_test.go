package passwords

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testHashers() []Hasher {
	return []Hasher{md5Hasher{}, NewBcryptHasher(bcrypt.MinCost), NewArgon2idHasher()}
}

func TestHashers_RoundTrip(t *testing.T) {
	for _, hasher := range testHashers() {
		t.Run(hasher.Name(), func(t *testing.T) {
			encoded, err := hasher.Hash("s3cret-Passw0rd!")
			require.NoError(t, err)

			scheme, err := Identify(encoded)
			require.NoError(t, err)
			assert.Equal(t, hasher.Name(), scheme)

			ok, err := hasher.Verify(encoded, "s3cret-Passw0rd!")
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = hasher.Verify(encoded, "wrong")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestMD5Hasher_IsUnsalted(t *testing.T) {
	hasher := md5Hasher{}

	first, err := hasher.Hash("devpass123")
	require.NoError(t, err)
	second, err := hasher.Hash("devpass123")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "47c764c6f595875460acdce38dbca512", first)
}

func TestArgon2idHasher_Salted(t *testing.T) {
	hasher := NewArgon2idHasher()

	first, err := hasher.Hash("same password")
	require.NoError(t, err)
	second, err := hasher.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, "$argon2id$v=19$m=65536,t=3,p=2$"))
}

func TestArgon2idHasher_Malformed(t *testing.T) {
	hasher := NewArgon2idHasher()

	_, err := hasher.Verify("$argon2id$v=19$broken", "x")
	assert.Error(t, err)

	_, err = hasher.Verify("$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$a2V5", "x")
	assert.Error(t, err)
}

func TestNewHasher(t *testing.T) {
	for _, scheme := range []string{SchemeMD5, SchemeBcrypt, "ARGON2ID"} {
		hasher, err := NewHasher(scheme)
		require.NoError(t, err)
		assert.Equal(t, strings.ToLower(scheme), hasher.Name())
	}

	_, err := NewHasher("sha1")
	assert.ErrorIs(t, err, ErrUnknownScheme)
}

func TestIdentify_Unknown(t *testing.T) {
	_, err := Identify("plaintext")
	assert.ErrorIs(t, err, ErrUnknownScheme)
}

func TestVerify(t *testing.T) {
	preferred := NewBcryptHasher(bcrypt.MinCost)
	legacy, err := md5Hasher{}.Hash("devpass123")
	require.NoError(t, err)
	current, err := preferred.Hash("devpass123")
	require.NoError(t, err)

	tests := []struct {
		name                string
		encoded             string
		password            string
		expectedOK          bool
		expectedNeedsRehash bool
		expectedError       bool
	}{
		{
			name:                "legacy hash matches and needs rehash",
			encoded:             legacy,
			password:            "devpass123",
			expectedOK:          true,
			expectedNeedsRehash: true,
		},
		{
			name:     "legacy hash mismatch",
			encoded:  legacy,
			password: "nope",
		},
		{
			name:       "preferred hash matches",
			encoded:    current,
			password:   "devpass123",
			expectedOK: true,
		},
		{
			name:          "unknown scheme",
			encoded:       "devpass123",
			password:      "devpass123",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, needsRehash, err := Verify(preferred, tt.encoded, tt.password)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedNeedsRehash, needsRehash)
		})
	}
}
