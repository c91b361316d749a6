package identity

import (
	"encoding/hex"
	"testing"
)

func TestHashPasswordIsDeterministic(t *testing.T) {
	a := HashPassword("secret1")
	b := HashPassword("secret1")

	if a != b {
		t.Fatalf("same input produced different digests:\n%s\n%s", a, b)
	}
}

func TestHashPasswordDistinguishesInputs(t *testing.T) {
	if HashPassword("secret1") == HashPassword("secret2") {
		t.Fatal("different passwords produced the same digest")
	}

	if HashPassword("") == HashPassword(" ") {
		t.Fatal("empty and whitespace passwords collided")
	}
}

func TestHashPasswordShape(t *testing.T) {
	digest := HashPassword("secret1")

	raw, err := hex.DecodeString(digest)

	if err != nil {
		t.Fatalf("digest is not hex: %v", err)
	}

	if len(raw) != digestKeyLen {
		t.Fatalf("expected %d byte digest, got %d", digestKeyLen, len(raw))
	}
}

func TestHashPasswordNeverEqualsPlaintext(t *testing.T) {
	// migrated legacy rows rely on plaintext and digest never colliding
	for _, plain := range []string{"secret1", "hunter2", "correct horse battery staple"} {
		if HashPassword(plain) == plain {
			t.Fatalf("digest equals plaintext for %q", plain)
		}
	}
}
