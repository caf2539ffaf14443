package slots

import "strings"

// Matches reports whether entry is active for currentPath.
//
// Both paths lose a single trailing "/" before comparison, except the root
// path itself. Exact entries require equality; all others also match any
// descendant that continues after a "/" segment boundary, so "/docs" covers
// "/docs/intro" but not "/docs-archive". Paths that are empty or lack a
// leading "/" never match.
func Matches(currentPath string, entry Entry) bool {
	current, ok := NormalizePath(currentPath)
	if !ok {
		return false
	}
	declared, ok := NormalizePath(entry.Path)
	if !ok {
		return false
	}

	if current == declared {
		return true
	}
	if entry.Exact {
		return false
	}
	if declared == "/" {
		return true
	}
	return strings.HasPrefix(current, declared+"/")
}

// NormalizePath strips one trailing "/" from path, keeping the root path
// intact. It reports false when path is not a rooted route path.
func NormalizePath(path string) (string, bool) {
	if path == "" || path[0] != '/' {
		return "", false
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path, true
}
