package blob

import (
	"path"
	"strings"
)

// CleanPath normalizes a slash-separated storage path and rejects anything
// that is absolute, empty, or climbs out of the root.
func CleanPath(p string) (string, error) {
	if p == "" || strings.ContainsAny(p, "\\\x00") {
		return "", ErrPathTraversal
	}
	if strings.HasPrefix(p, "/") {
		return "", ErrPathTraversal
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", ErrPathTraversal
		}
	}
	clean := path.Clean(p)
	if clean == "." || clean == "" {
		return "", ErrPathTraversal
	}
	return clean, nil
}
