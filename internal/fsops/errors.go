package fsops

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"github.com/fsgate/fsgate/internal/types"
)

// Kind classifies a filesystem failure. It is a superset of the
// caller-facing taxonomy: KindPathEscape exists only inside this package
// and is reported to callers as permission_denied.
type Kind string

const (
	KindInvalidArgument   Kind = "invalid_argument"
	KindPathEscape        Kind = "path_escape"
	KindPermissionDenied  Kind = "permission_denied"
	KindNotFound          Kind = "not_found"
	KindNotADirectory     Kind = "not_a_directory"
	KindIsADirectory      Kind = "is_a_directory"
	KindAlreadyExists     Kind = "already_exists"
	KindDirectoryNotEmpty Kind = "directory_not_empty"
	KindDecodeError       Kind = "decode_error"
	KindOSFailure         Kind = "os_failure"
)

// External returns the caller-facing error kind. Path escapes are
// indistinguishable from permission failures on the wire, so callers
// cannot probe for the existence of paths outside the root.
func (k Kind) External() types.ErrorKind {
	if k == KindPathEscape {
		return types.KindPermissionDenied
	}
	return types.ErrorKind(k)
}

// Error is a classified filesystem failure. Messages reference only the
// caller-supplied relative path, never the resolved absolute path.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapf(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// classify converts an OS-level error into a typed Error. The display
// path is the caller-supplied relative path used in the message.
func classify(err error, op, display string) *Error {
	kind := KindOSFailure
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = KindNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = KindPermissionDenied
	case errors.Is(err, fs.ErrExist):
		kind = KindAlreadyExists
	case errors.Is(err, syscall.ENOTDIR):
		kind = KindNotADirectory
	case errors.Is(err, syscall.EISDIR):
		kind = KindIsADirectory
	case errors.Is(err, syscall.ENOTEMPTY):
		kind = KindDirectoryNotEmpty
	}

	switch kind {
	case KindNotFound:
		return wrapf(kind, err, "%s failed: %q does not exist", op, display)
	case KindPermissionDenied:
		return wrapf(kind, err, "%s failed: permission denied for %q", op, display)
	case KindAlreadyExists:
		return wrapf(kind, err, "%s failed: %q already exists", op, display)
	case KindNotADirectory:
		return wrapf(kind, err, "%s failed: %q is not a directory", op, display)
	case KindIsADirectory:
		return wrapf(kind, err, "%s failed: %q is a directory", op, display)
	case KindDirectoryNotEmpty:
		return wrapf(kind, err, "%s failed: directory %q is not empty", op, display)
	default:
		return wrapf(kind, err, "%s failed for %q: filesystem error", op, display)
	}
}
