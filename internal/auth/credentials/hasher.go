package credentials

import (
	"golang.org/x/crypto/bcrypt"
)

// cost is fixed for all hashes; bcrypt encodes it into the digest so it
// can be raised later without invalidating existing credentials.
const cost = bcrypt.DefaultCost

// Hash hashes a plaintext password with bcrypt. The digest embeds a
// random salt, so hashing the same password twice yields different
// digests.
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify reports whether the plaintext password matches the stored
// digest. A malformed or empty digest verifies as false; comparison of
// well-formed digests is constant-time.
func Verify(digest string, password string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(
		[]byte(digest),
		[]byte(password),
	) == nil
}
