package identity

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// The digest must be a pure function of the password: the migration engine
// hashes legacy plaintext credentials once, and authentication later compares
// stored digests for equality. bcrypt salts per call and cannot satisfy that,
// so we derive with PBKDF2 under fixed parameters instead.
const (
	digestSalt       = "finance.credentials.v1"
	digestIterations = 120_000
	digestKeyLen     = 32
)

// HashPassword returns the hex-encoded digest of plain.
func HashPassword(plain string) string {
	key := pbkdf2.Key([]byte(plain), []byte(digestSalt), digestIterations, digestKeyLen, sha256.New)

	return hex.EncodeToString(key)
}
