package passwords

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Hashing scheme names
const (
	SchemeMD5      = "md5"
	SchemeBcrypt   = "bcrypt"
	SchemeArgon2id = "argon2id"
)

// ErrUnknownScheme is returned for hashes or scheme names that no hasher understands
var ErrUnknownScheme = errors.New("unknown password hashing scheme")

// Hasher hashes passwords with a single scheme
type Hasher interface {
	// Method Name returns the scheme name of the hasher.
	Name() string
	// Method Hash returns the encoded hash of the password.
	//
	// If the password can not be hashed, the error will be returned together with empty string.
	Hash(password string) (string, error)
	// Method Verify compares a password against an encoded hash produced by the same scheme.
	//
	// A mismatch is reported as "false" with a nil error; malformed hashes produce an error.
	Verify(encoded, password string) (bool, error)
}

// NewHasher returns the hasher for a scheme name
func NewHasher(scheme string) (Hasher, error) {
	switch strings.ToLower(scheme) {
	case SchemeMD5:
		return md5Hasher{}, nil
	case SchemeBcrypt:
		return NewBcryptHasher(bcrypt.DefaultCost), nil
	case SchemeArgon2id:
		return NewArgon2idHasher(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

// Identify returns the scheme that produced an encoded hash
func Identify(encoded string) (string, error) {
	switch {
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		return SchemeBcrypt, nil
	case strings.HasPrefix(encoded, "$argon2id$"):
		return SchemeArgon2id, nil
	case isMD5Hex(encoded):
		return SchemeMD5, nil
	default:
		return "", ErrUnknownScheme
	}
}

// Verify checks a password against a hash of any known scheme.
// needsRehash is true when the password matched but the hash was not produced by preferred.
func Verify(preferred Hasher, encoded, password string) (ok bool, needsRehash bool, err error) {
	scheme, err := Identify(encoded)
	if err != nil {
		return false, false, err
	}

	hasher := preferred
	if scheme != preferred.Name() {
		hasher, err = NewHasher(scheme)
		if err != nil {
			return false, false, err
		}
	}

	ok, err = hasher.Verify(encoded, password)
	if err != nil || !ok {
		return false, false, err
	}

	return true, scheme != preferred.Name(), nil
}

// md5Hasher is the legacy unsalted scheme. It is kept so that old hashes can still be verified
// and upgraded on login.
type md5Hasher struct{}

func (md5Hasher) Name() string { return SchemeMD5 }

func (md5Hasher) Hash(password string) (string, error) {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (h md5Hasher) Verify(encoded, password string) (bool, error) {
	if !isMD5Hex(encoded) {
		return false, ErrUnknownScheme
	}
	hashed, _ := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(hashed), []byte(strings.ToLower(encoded))) == 1, nil
}

func isMD5Hex(s string) bool {
	if len(s) != md5.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt hasher with the given cost
func NewBcryptHasher(cost int) *bcryptHasher {
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Name() string { return SchemeBcrypt }

func (h *bcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (h *bcryptHasher) Verify(encoded, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to verify password: %w", err)
	}
	return true, nil
}

// argon2idHasher encodes hashes in the PHC string format:
// $argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<key>
type argon2idHasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

// NewArgon2idHasher creates an argon2id hasher with the RFC 9106 second recommended parameters
func NewArgon2idHasher() *argon2idHasher {
	return &argon2idHasher{
		time:    3,
		memory:  64 * 1024,
		threads: 2,
		keyLen:  32,
		saltLen: 16,
	}
}

func (h *argon2idHasher) Name() string { return SchemeArgon2id }

func (h *argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, h.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memory,
		h.time,
		h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *argon2idHasher) Verify(encoded, password string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != SchemeArgon2id {
		return false, fmt.Errorf("malformed argon2id hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("malformed argon2id version: %w", err)
	}
	if version != argon2.Version {
		return false, fmt.Errorf("unsupported argon2 version %d", version)
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, fmt.Errorf("malformed argon2id parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("malformed argon2id salt: %w", err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("malformed argon2id key: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}
