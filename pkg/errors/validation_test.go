package errors

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateNodeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Body", false},
		{"spaces and digits", "Hat 02", false},
		{"unicode", "Körper", false},
		{"empty", "", true},
		{"slash", "Root/Body", true},
		{"colon", "Body:1", true},
		{"at", "Body@2", true},
		{"percent", "%Body", true},
		{"quote", `Bo"dy`, true},
		{"control", "Bo\x01dy", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative", "materials/body.tres", false},
		{"absolute", "/tmp/body.tres", false},
		{"dots in name", "body..v2.tres", false},
		{"empty", "", true},
		{"traversal", "../body.tres", true},
		{"nested traversal", "a/../../b.tres", true},
		{"null byte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTargetPathReadOnlyDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits do not bind root")
	}
	dir := filepath.Join(t.TempDir(), "locked")
	if err := os.Mkdir(dir, 0o500); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	err := ValidateTargetPath(filepath.Join(dir, "new.tres"))
	if !Is(err, ErrCodeInvalidPath) {
		t.Errorf("ValidateTargetPath(read-only dir) error = %v, want INVALID_PATH", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("scratch files left behind: %v", entries)
	}
}

func TestValidateTargetPathLeavesNoScratch(t *testing.T) {
	dir := t.TempDir()
	if err := ValidateTargetPath(filepath.Join(dir, "new.tres")); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("scratch files left behind: %v", entries)
	}
}

func TestValidateTargetPath(t *testing.T) {
	dir := t.TempDir()

	existing := filepath.Join(dir, "existing.tres")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	readOnly := filepath.Join(dir, "locked.tres")
	if err := os.WriteFile(readOnly, []byte("x"), 0o444); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"new file", filepath.Join(dir, "new.tres"), false},
		{"existing writable", existing, false},
		{"read-only", readOnly, true},
		{"directory", dir, true},
		{"missing parent", filepath.Join(dir, "missing", "x.tres"), true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTargetPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTargetPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
