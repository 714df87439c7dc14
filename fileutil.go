package bomsign

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadProjectFile reads a named manifest inside root, refusing to follow
// symlinks that resolve outside the project. Parsers must use this instead
// of reading joined paths directly.
func ReadProjectFile(root, name string) ([]byte, error) {
	resolvedRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, err
	}
	resolved, err := filepath.EvalSymlinks(filepath.Join(root, name))
	if err != nil {
		return nil, err
	}
	if resolved != resolvedRoot && !strings.HasPrefix(resolved, resolvedRoot+string(os.PathSeparator)) {
		return nil, fmt.Errorf("'%s' resolves outside the project root", name)
	}
	return os.ReadFile(resolved)
}

// ProjectFileExists reports whether a named manifest exists directly under
// root. Used by parsers to implement ecosystem detection.
func ProjectFileExists(root, name string) bool {
	info, err := os.Stat(filepath.Join(root, name))
	return err == nil && !info.IsDir()
}
