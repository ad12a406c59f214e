package scanner

import (
	"path/filepath"
	"strings"
)

// shouldExclude checks if a workspace-relative directory path matches any
// exclude pattern. Patterns can be:
//   - Directory prefixes: "archive/" matches "archive/old"
//   - Anywhere in path: "node_modules/" matches "web/node_modules"
//   - Suffixes: ".bak" matches "site.bak"
//
// Directory paths are matched with a trailing slash so that "vendor/" does not
// match "vendorized".
func shouldExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 || relPath == "." || relPath == "" {
		return false
	}
	p := filepath.ToSlash(relPath) + "/"

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		switch {
		case strings.HasPrefix(p, pattern):
			return true
		case strings.Contains(p, "/"+pattern):
			return true
		case strings.HasSuffix(strings.TrimSuffix(p, "/"), pattern):
			return true
		}
	}
	return false
}
