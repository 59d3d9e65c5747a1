package idgen

import (
	"strings"
	"testing"
)

func TestNew_PrefixAndAlphabet(t *testing.T) {
	id, err := Document()
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if !strings.HasPrefix(id, DocumentPrefix) {
		t.Fatalf("expected prefix %q, got %q", DocumentPrefix, id)
	}
	rest := strings.TrimPrefix(id, DocumentPrefix)
	if len(rest) != Length {
		t.Fatalf("expected %d random chars, got %q", Length, rest)
	}
	for _, r := range rest {
		if !strings.ContainsRune(Alphabet, r) {
			t.Fatalf("unexpected rune %q in %q", r, id)
		}
	}
}

func TestNew_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		id, err := User()
		if err != nil {
			t.Fatalf("User: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q after %d draws", id, i)
		}
		seen[id] = true
	}
}
