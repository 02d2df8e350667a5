package errors

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// IllegalNameChars lists the characters that cannot appear in a scene node
// name. The path separator and the identity suffix separator are among
// them, so a node path can always be split back into its names.
const IllegalNameChars = `/:@%"`

// ValidateNodeName validates a scene node name.
//
// Rules:
//   - No empty names
//   - No control characters
//   - None of [IllegalNameChars]
func ValidateNodeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "node name cannot be empty")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node name %q contains control characters", name)
		}
	}

	if i := strings.IndexAny(name, IllegalNameChars); i >= 0 {
		return New(ErrCodeInvalidInput, "node name %q contains illegal character %q", name, name[i])
	}

	return nil
}

// ValidatePath validates a path stored in an import configuration.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// ValidateTargetPath checks that path can receive an exported resource.
// The path must pass [ValidatePath] and must not name a directory. Its
// parent directory must exist and accept new files, and an existing file
// must not be read-only.
func ValidateTargetPath(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "target %q names a directory", path)
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return New(ErrCodeInvalidPath, "target %q is a directory", path)
	case err == nil && info.Mode().Perm()&0o200 == 0:
		return New(ErrCodeInvalidPath, "target %q is read-only", path)
	case err != nil && !os.IsNotExist(err):
		return Wrap(ErrCodeInvalidPath, err, "stat target %q", path)
	}

	dir := filepath.Dir(path)
	dirInfo, err := os.Stat(dir)
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "target directory %q", dir)
	}
	if !dirInfo.IsDir() {
		return New(ErrCodeInvalidPath, "target parent %q is not a directory", dir)
	}
	return checkWritableDir(dir)
}

// checkWritableDir creates and removes a scratch file in dir.
func checkWritableDir(dir string) error {
	f, err := os.CreateTemp(dir, ".sceneimport-*")
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "target directory %q is not writable", dir)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}
