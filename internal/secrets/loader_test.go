package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("  file-secret \n"), 0o600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}

	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("   \n"), 0o600); err != nil {
		t.Fatalf("writing empty file: %v", err)
	}

	tests := []struct {
		name    string
		src     Source
		expect  string
		wantErr bool
	}{
		{
			name:   "inline value",
			src:    Source{Name: "api key", Value: " inline "},
			expect: "inline",
		},
		{
			name:   "file takes precedence over value",
			src:    Source{Name: "api key", Value: "inline", File: keyFile},
			expect: "file-secret",
		},
		{
			name:    "empty file",
			src:     Source{Name: "api key", File: emptyFile},
			wantErr: true,
		},
		{
			name:    "missing file",
			src:     Source{Name: "api key", File: filepath.Join(dir, "nope")},
			wantErr: true,
		},
		{
			name:    "nothing configured",
			src:     Source{Name: "api key"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Load(tt.src)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
