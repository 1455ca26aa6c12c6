package util

import "testing"

func TestHashSessionKey(t *testing.T) {
	id := "0b6f3a3e-session"
	got := HashSessionKey(id)
	if got != HashSessionKey(id) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}

func TestSanitizeFileName(t *testing.T) {
	if _, err := SanitizeFileName("../etc/passwd"); err == nil {
		t.Fatal("expected traversal rejection")
	}
	if _, err := SanitizeFileName("  "); err == nil {
		t.Fatal("expected empty name rejection")
	}
	got, err := SanitizeFileName("videos/shelf tour.mp4")
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if got != "videos_shelf tour.mp4" {
		t.Fatalf("got %q", got)
	}
}
