package token

import (
	"strings"
	"testing"
)

func TestGenerateRandomToken(t *testing.T) {
	first, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatalf("GenerateRandomToken() returned error: %v", err)
	}
	second, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatalf("GenerateRandomToken() returned error: %v", err)
	}

	if first == second {
		t.Error("two generated tokens are identical")
	}
	if strings.ContainsAny(first, "+/=") {
		t.Errorf("token %q is not URL-safe", first)
	}
}

func TestHashSHA256IsDeterministic(t *testing.T) {
	if HashSHA256("abc") != HashSHA256("abc") {
		t.Error("hashing the same token twice gave different digests")
	}
	if HashSHA256("abc") == HashSHA256("abd") {
		t.Error("different tokens hashed to the same digest")
	}
	if len(HashSHA256("abc")) != 64 {
		t.Errorf("digest length = %d, expected 64 hex characters", len(HashSHA256("abc")))
	}
}
