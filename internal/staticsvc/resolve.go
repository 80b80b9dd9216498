// Package staticsvc implements the Static Responder of spec.md §4.2: path
// resolution under the configured root, MIME lookup, file serving, and the
// delegation-socket accept loop that receives client descriptors via
// SCM_RIGHTS.
package staticsvc

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrTraversal is returned by Resolve when target contains ".." as a literal
// substring (spec.md §3 invariant, §8 "never a path outside r").
var ErrTraversal = errors.New("staticsvc: path traversal rejected")

// ErrPrefixMismatch is returned by Resolve when target does not begin with
// the configured URL prefix.
var ErrPrefixMismatch = errors.New("staticsvc: target does not match static prefix")

// Resolve maps a request target to a filesystem path under root, stripping
// prefix first. Any ".." substring anywhere in the remaining path is
// rejected outright — this is deliberately coarser than filepath-aware
// traversal detection, matching spec.md §4.2's literal-substring rule.
func Resolve(target, prefix, root string) (string, error) {
	if !strings.HasPrefix(target, prefix) {
		return "", ErrPrefixMismatch
	}
	remainder := target[len(prefix):]
	if strings.Contains(remainder, "..") {
		return "", ErrTraversal
	}
	return filepath.Join(root, remainder), nil
}
