package upload

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveUnder(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"path inside base", filepath.Join(base, "chunks", "u1", "chunk_0"), false},
		{"path equal to base", base, false},
		{"dot segments staying inside", filepath.Join(base, "chunks", "..", "out.dat"), false},
		{"traversal escaping base", filepath.Join(base, "..", "other"), true},
		{"sibling with base as prefix", base + "X", true},
		{"unrelated absolute path", "/etc/passwd", true},
		{"empty path", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveUnder(tt.path, base)
			if tt.wantErr {
				if !errors.Is(err, ErrPathOutsideStorage) {
					t.Fatalf("ResolveUnder(%q) error = %v, want ErrPathOutsideStorage", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveUnder(%q) unexpected error: %v", tt.path, err)
			}
			if !filepath.IsAbs(got) {
				t.Errorf("ResolveUnder(%q) = %q, want absolute path", tt.path, got)
			}
		})
	}
}

func TestResolveUnder_EmptyBase(t *testing.T) {
	if _, err := ResolveUnder("/tmp/whatever", ""); !errors.Is(err, ErrPathOutsideStorage) {
		t.Fatalf("error = %v, want ErrPathOutsideStorage", err)
	}
}

func TestResolveUnder_ErrorNeverEchoesPath(t *testing.T) {
	base := t.TempDir()
	offending := filepath.Join(base, "..", "secret-location")

	_, err := ResolveUnder(offending, base)
	if err == nil {
		t.Fatal("expected rejection")
	}
	if strings.Contains(err.Error(), "secret-location") {
		t.Errorf("error %q leaks the offending path", err.Error())
	}
}
