package password

import "testing"

func TestHashAndCompare(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() returned error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals the plaintext password")
	}

	if err := Compare(hash, "correct horse battery staple"); err != nil {
		t.Errorf("Compare() rejected the correct password: %v", err)
	}
	if err := Compare(hash, "wrong password"); err == nil {
		t.Error("Compare() accepted a wrong password")
	}
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("same input")
	if err != nil {
		t.Fatalf("Hash() returned error: %v", err)
	}
	second, err := Hash("same input")
	if err != nil {
		t.Fatalf("Hash() returned error: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical")
	}
}
