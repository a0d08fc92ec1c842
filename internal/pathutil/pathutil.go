package pathutil

import (
	"errors"
	"path"
	"path/filepath"
	"strings"
)

// ErrOutsideVault is returned when a path resolves outside the vault root.
var ErrOutsideVault = errors.New("path escapes the vault")

// NormalizePath converts Windows-style separators to the current platform's separator
// and cleans the resulting path.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}

	replaced := strings.ReplaceAll(p, "\\", "/")
	return filepath.Clean(filepath.FromSlash(replaced))
}

// VaultRelative returns the path to target relative to the provided vault directory.
// The returned path always uses forward slashes.
func VaultRelative(vaultDir, target string) (string, error) {
	base := NormalizePath(vaultDir)
	cleanedTarget := NormalizePath(target)

	rel, err := filepath.Rel(base, cleanedTarget)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(rel), nil
}

// Resolve joins a vault-relative slash path onto the vault root and refuses
// anything that climbs out of it.
func Resolve(vaultDir, rel string) (string, error) {
	cleaned := CleanRel(rel)
	if cleaned == "" {
		return "", ErrOutsideVault
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") || path.IsAbs(cleaned) {
		return "", ErrOutsideVault
	}
	return filepath.Join(NormalizePath(vaultDir), filepath.FromSlash(cleaned)), nil
}

// CleanRel normalises a vault-relative path to the slash form used as identity
// throughout the palette.
func CleanRel(rel string) string {
	trimmed := strings.TrimSpace(strings.ReplaceAll(rel, "\\", "/"))
	if trimmed == "" {
		return ""
	}
	cleaned := path.Clean(trimmed)
	cleaned = strings.TrimPrefix(cleaned, "./")
	if cleaned == "." {
		return ""
	}
	return cleaned
}

// IsExcluded reports whether rel starts with any of the configured folder
// prefixes. Matching is a plain prefix test, so "attach" also hides
// "attachments/".
func IsExcluded(rel string, prefixes []string) bool {
	for _, prefix := range prefixes {
		prefix = strings.TrimSuffix(strings.TrimSpace(prefix), "/")
		if prefix == "" {
			continue
		}
		if strings.HasPrefix(rel, prefix+"/") || strings.HasPrefix(rel, prefix) {
			return true
		}
	}
	return false
}

// Dir returns the parent folder of a vault-relative path, "/" for the root.
func Dir(rel string) string {
	dir := path.Dir(CleanRel(rel))
	if dir == "." || dir == "" {
		return "/"
	}
	return dir
}

// Stem returns the base name without its extension.
func Stem(rel string) string {
	base := path.Base(CleanRel(rel))
	return strings.TrimSuffix(base, path.Ext(base))
}

// Ext returns the extension without the leading dot.
func Ext(rel string) string {
	return strings.TrimPrefix(path.Ext(rel), ".")
}
