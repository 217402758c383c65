// Package pathguard rejects output paths that could escape the intended
// directory or land in system locations.
package pathguard

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

// MaxPathLength is the longest accepted path, in characters.
const MaxPathLength = 260

var sensitiveDirs = []string{"/etc", "/bin", "/usr", "/root", "/windows", "/system32"}

var devicePatterns = compilePatterns("/dev", "/dev/**", "/proc", "/proc/**")

var driveLetterPattern = regexp.MustCompile(`^[a-zA-Z]:`)

func compilePatterns(patterns ...string) []glob.Glob {
	out := make([]glob.Glob, len(patterns))
	for i, p := range patterns {
		out[i] = glob.MustCompile(p, '/')
	}
	return out
}

// Check validates path syntactically. It never touches the filesystem.
func Check(path string) error {
	if strings.TrimSpace(path) == "" {
		return skill.NewUnsafePathError(path, "path is empty")
	}
	if strings.ContainsRune(path, 0) {
		return skill.NewUnsafePathError(path, "path contains a NUL byte")
	}
	if len([]rune(path)) > MaxPathLength {
		return skill.NewUnsafePathError(path, "path is too long")
	}

	normalized := strings.ReplaceAll(path, `\`, "/")
	for _, seg := range strings.Split(normalized, "/") {
		if seg == ".." {
			return skill.NewUnsafePathError(path, "path traversal is not allowed")
		}
	}

	lower := strings.ToLower(driveLetterPattern.ReplaceAllString(normalized, ""))
	for _, dir := range sensitiveDirs {
		if lower == dir || strings.HasPrefix(lower, dir+"/") {
			return skill.NewUnsafePathError(path, "path points into a system directory")
		}
	}

	trimmed := strings.TrimRight(lower, "/")
	for _, g := range devicePatterns {
		if g.Match(trimmed) {
			return skill.NewUnsafePathError(path, "device and process paths are not allowed")
		}
	}
	return nil
}

// CheckRelative applies Check and additionally rejects absolute paths.
func CheckRelative(path string) error {
	if err := Check(path); err != nil {
		return err
	}
	normalized := strings.ReplaceAll(path, `\`, "/")
	if strings.HasPrefix(normalized, "/") || driveLetterPattern.MatchString(normalized) || filepath.IsAbs(path) {
		return skill.NewUnsafePathError(path, "path must be relative")
	}
	return nil
}

// Resolve checks path, expands a leading ~, makes it absolute and resolves
// symlinks of the nearest existing ancestor. The result is checked again
// only when symlinks moved it: a relative path that still resolves under
// the real working directory is accepted wherever that directory is.
func Resolve(path string) (string, error) {
	if err := Check(path); err != nil {
		return "", err
	}

	expanded, err := expandHome(path)
	if err != nil {
		return "", err
	}

	var base string
	if !filepath.IsAbs(expanded) {
		if base, err = os.Getwd(); err != nil {
			return "", errors.Wrap(err, "failed to get working directory")
		}
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve absolute path for %s", path)
	}

	existing := abs
	var rest []string
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}
		rest = append([]string{filepath.Base(existing)}, rest...)
		existing = parent
	}

	real, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve symlinks for %s", existing)
	}
	resolved := filepath.Join(append([]string{real}, rest...)...)

	if resolved == abs {
		return resolved, nil
	}
	if base != "" {
		if realBase, err := filepath.EvalSymlinks(base); err == nil && under(realBase, resolved) {
			return resolved, nil
		}
	}
	if err := Check(filepath.ToSlash(resolved)); err != nil {
		return "", err
	}
	return resolved, nil
}

func under(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home directory")
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
