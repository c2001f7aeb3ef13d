package credentials

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	digest, err := Hash("correct horse battery")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if digest == "correct horse battery" {
		t.Fatal("digest equals plaintext")
	}
	if !strings.HasPrefix(digest, "$2") {
		t.Errorf("expected bcrypt digest, got %q", digest)
	}

	if !Verify(digest, "correct horse battery") {
		t.Error("correct password did not verify")
	}
	if Verify(digest, "wrong password") {
		t.Error("wrong password verified")
	}
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("same password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	b, err := Hash("same password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if a == b {
		t.Error("two hashes of the same password are identical")
	}
}

func TestVerifyMalformedDigest(t *testing.T) {
	cases := []string{"", "not-a-digest", "$2a$broken", "plaintext"}
	for _, digest := range cases {
		if Verify(digest, "anything") {
			t.Errorf("malformed digest %q verified", digest)
		}
	}
}
