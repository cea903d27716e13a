package authinfra_test

import (
	"testing"

	"github.com/prapeller/api-auth/pkg/iam/auth/authinfra"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := authinfra.NewBcryptHasher()

	hash, err := h.Hash("s3cret-password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !h.Verify("s3cret-password", hash) {
		t.Fatal("Verify should accept the correct password")
	}
	if h.Verify("wrong-password", hash) {
		t.Fatal("Verify should reject an incorrect password")
	}
}
