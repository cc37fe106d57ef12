// Package cryptox holds the password hashing primitive used by the auth
// service.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/useraccounts/internal/common"
	"golang.org/x/crypto/argon2"
)

// DefaultSaltSize is the number of random bytes drawn for a fresh salt.
const DefaultSaltSize = 16

// Hasher derives a digest from a password and a salt. Implementations must be
// deterministic: the same password and salt always give the same digest.
type Hasher interface {
	Hash(password, salt []byte) []byte
}

// Argon2Hasher is an Argon2id Hasher.
type Argon2Hasher struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
}

// DefaultArgon2 returns the parameters used in production.
func DefaultArgon2() Argon2Hasher {
	return Argon2Hasher{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32}
}

func (h Argon2Hasher) Hash(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, h.Time, h.Memory, h.Threads, h.KeyLen)
}

// HashPassword hashes password with salt. A nil or empty salt is replaced by
// DefaultSaltSize fresh random bytes; the salt actually used is returned with
// the digest so it can be stored next to it.
func HashPassword(h Hasher, password string, salt []byte) (digest, usedSalt []byte) {
	if len(salt) == 0 {
		salt = common.GenerateRandByteArray(DefaultSaltSize)
	}
	pw := []byte(password)
	defer common.WipeByteArray(pw)

	return h.Hash(pw, salt), salt
}

// Equal compares two digests in constant time.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
