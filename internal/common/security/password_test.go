package security

import "testing"

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("abcdef")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if h == "abcdef" {
		t.Fatalf("hash must not equal the plaintext")
	}
	if !CheckPasswordHash("abcdef", h) {
		t.Fatalf("expected password to verify against its hash")
	}
	if CheckPasswordHash("wrong", h) {
		t.Fatalf("expected wrong password to fail verification")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("abcdef")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	h2, err := HashPassword("abcdef")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same password must differ")
	}
}
