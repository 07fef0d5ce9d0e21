package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("ipassword", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "ipassword" {
		t.Fatalf("hash equals the plain password")
	}
	if !VerifyPassword(hash, "ipassword") {
		t.Fatalf("correct password rejected")
	}
	if VerifyPassword(hash, "iPassword") {
		t.Fatalf("wrong password accepted")
	}
	if VerifyPassword("not-a-bcrypt-hash", "ipassword") {
		t.Fatalf("garbage hash accepted")
	}
}
