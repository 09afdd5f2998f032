package storage

import (
	"strings"
	"testing"
)

func TestObjectKey_TimestampPrefix(t *testing.T) {
	key := ObjectKey("wave.jpg")
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		t.Fatalf("expected timestamp-prefixed key, got %q", key)
	}
	if parts[1] != "wave.jpg" {
		t.Errorf("expected filename suffix wave.jpg, got %q", parts[1])
	}
}

func TestObjectKey_SanitizesFilename(t *testing.T) {
	key := ObjectKey("../secret passwords?.jpg")
	if strings.Contains(key, "/") || strings.Contains(key, " ") || strings.Contains(key, "?") {
		t.Errorf("expected sanitized key, got %q", key)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Errorf("expected extension preserved, got %q", key)
	}
}

func TestObjectKey_EmptyFilename(t *testing.T) {
	key := ObjectKey("")
	if !strings.HasSuffix(key, "_upload") {
		t.Errorf("expected fallback name, got %q", key)
	}
}

func TestObjectKey_Unique(t *testing.T) {
	a := ObjectKey("wave.jpg")
	b := ObjectKey("wave.jpg")
	if a == b {
		t.Errorf("expected distinct keys for repeated uploads, got %q twice", a)
	}
}
