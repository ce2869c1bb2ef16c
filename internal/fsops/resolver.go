package fsops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// ResolvedPath is an absolute, canonicalized path proven to lie inside
// the allowed root. Values can only be produced by a Resolver; operations
// in this package accept nothing else.
type ResolvedPath struct {
	abs     string // canonical absolute path, handed to the OS
	display string // caller-supplied relative path, used in messages
}

// Abs returns the canonical absolute path.
func (p ResolvedPath) Abs() string { return p.abs }

// String returns the caller-supplied relative path.
func (p ResolvedPath) String() string { return p.display }

// Resolver validates untrusted relative paths against a fixed allowed
// root. It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	root string
}

// NewResolver canonicalizes root and verifies it is an existing
// directory. The root never changes afterwards.
func NewResolver(root string) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("allowed root %q: %w", root, err)
	}
	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("allowed root %q: %w", root, err)
	}
	info, err := os.Stat(canon)
	if err != nil {
		return nil, fmt.Errorf("allowed root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("allowed root %q is not a directory", root)
	}
	return &Resolver{root: canon}, nil
}

// Root returns the canonical allowed root.
func (r *Resolver) Root() string { return r.root }

// Resolve canonicalizes rel against the allowed root. It fails with
// KindPathEscape for any path whose real target lies outside the root,
// including escapes through "..", absolute paths, and symlinks. The
// returned error never contains the resolved absolute path.
func (r *Resolver) Resolve(rel string) (ResolvedPath, *Error) {
	// Whitespace is only inspected, never stripped: names with leading
	// or trailing spaces are legitimate on POSIX filesystems.
	if strings.TrimSpace(rel) == "" {
		return ResolvedPath{}, errf(KindInvalidArgument, "path must not be empty")
	}
	if strings.ContainsRune(rel, 0) {
		return ResolvedPath{}, errf(KindInvalidArgument, "path contains a NUL byte")
	}

	// Absolute input replaces the root entirely, matching the join
	// semantics the wire protocol inherited; it only survives the
	// containment check below if it already points into the root.
	var candidate string
	if filepath.IsAbs(rel) {
		candidate = filepath.Clean(rel)
	} else {
		candidate = filepath.Join(r.root, rel)
	}

	resolved, err := canonicalize(candidate)
	if err != nil {
		return ResolvedPath{}, wrapf(KindPathEscape, err, "path %q is outside allowed root directory", rel)
	}

	if !within(r.root, resolved) {
		return ResolvedPath{}, errf(KindPathEscape, "path %q is outside allowed root directory", rel)
	}
	return ResolvedPath{abs: resolved, display: rel}, nil
}

// maxLinkHops bounds symlink expansion across dangling links, where the
// OS cannot detect the loop for us.
const maxLinkHops = 40

// canonicalize resolves symlinks in path. When the full target does not
// exist, the deepest existing ancestor is resolved and every remaining
// component is inspected with Lstat: a component that exists as a
// symlink is expanded through its link text even when the link dangles,
// so containment is always checked against the link target, never the
// link path. Components that truly do not exist are kept as-is.
func canonicalize(path string) (string, error) {
	return expandLinks(path, 0)
}

func expandLinks(path string, hops int) (string, error) {
	if hops > maxLinkHops {
		return "", syscall.ELOOP
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	prefix := path
	var tail []string
	for {
		parent := filepath.Dir(prefix)
		if parent == prefix {
			return "", err
		}
		tail = append([]string{filepath.Base(prefix)}, tail...)
		prefix = parent

		resolved, rerr := filepath.EvalSymlinks(prefix)
		if rerr == nil {
			prefix = resolved
			break
		}
		if !errors.Is(rerr, fs.ErrNotExist) {
			return "", rerr
		}
	}

	for i, comp := range tail {
		candidate := filepath.Join(prefix, comp)
		info, lerr := os.Lstat(candidate)
		if lerr != nil || info.Mode()&fs.ModeSymlink == 0 {
			prefix = candidate
			continue
		}

		target, lerr := os.Readlink(candidate)
		if lerr != nil {
			return "", lerr
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(prefix, target)
		}
		rest := append([]string{filepath.Clean(target)}, tail[i+1:]...)
		return expandLinks(filepath.Join(rest...), hops+1)
	}
	return prefix, nil
}

// within reports whether target equals root or sits below it at a path
// segment boundary. A plain string prefix is not enough: /data-old must
// not satisfy root /data.
func within(root, target string) bool {
	if target == root {
		return true
	}
	return strings.HasPrefix(target, root+string(os.PathSeparator))
}
