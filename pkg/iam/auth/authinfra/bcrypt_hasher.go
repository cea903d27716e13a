package authinfra

import "golang.org/x/crypto/bcrypt"

// BcryptHasher implements auth.Hasher with bcrypt at the library default
// cost; Verify's constant-time behavior over the candidate hash comes from
// bcrypt.CompareHashAndPassword itself.
type BcryptHasher struct{}

func NewBcryptHasher() *BcryptHasher { return &BcryptHasher{} }

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
