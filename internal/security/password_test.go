package security

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("txoko123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "txoko123" {
		t.Error("hash equals the plaintext password")
	}

	if !CheckPassword("txoko123", hash) {
		t.Error("CheckPassword() = false for the correct password")
	}
	if CheckPassword("wrong", hash) {
		t.Error("CheckPassword() = true for a wrong password")
	}
}

func TestCheckPasswordBadHash(t *testing.T) {
	if CheckPassword("anything", "not-a-bcrypt-hash") {
		t.Error("CheckPassword() = true for a malformed hash")
	}
}
