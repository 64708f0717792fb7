package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("S3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "S3cret-pass" {
		t.Fatal("HashPassword returned the plaintext")
	}

	if !CheckPassword(hash, "S3cret-pass") {
		t.Fatal("CheckPassword rejected the correct password")
	}
	if CheckPassword(hash, "wrong-pass") {
		t.Fatal("CheckPassword accepted a wrong password")
	}
}
