// Package pathutil resolves local paths and validates paths on remote hosts.
package pathutil

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ResolveRelative resolves a path relative to a base directory.
// If p is absolute, it is returned unchanged (after cleaning).
// If p is relative, it is joined with base and cleaned.
func ResolveRelative(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(base, p))
}

// CleanRemote cleans a path on a Unix host. Remote paths always use forward
// slashes regardless of the local OS.
func CleanRemote(p string) string {
	if p == "" {
		return ""
	}
	return path.Clean(p)
}

// ValidateRemoteAbsolute checks that p is an absolute Unix path, such as the
// toolkit directory on a Linux environment.
func ValidateRemoteAbsolute(p string) error {
	if p == "" {
		return fmt.Errorf("path is empty")
	}
	if strings.Contains(p, `\`) {
		return fmt.Errorf("path contains a backslash: %s", p)
	}
	if !path.IsAbs(p) {
		return fmt.Errorf("path is not absolute: %s", p)
	}
	if CleanRemote(p) == "/" {
		return fmt.Errorf("path must not be the root directory")
	}
	return nil
}
