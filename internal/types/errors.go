package types

// ErrorKind is the closed set of caller-facing failure categories. Every
// error leaving the dispatcher carries exactly one of these; raw OS error
// strings never cross the transport boundary.
type ErrorKind string

const (
	KindInvalidArgument ErrorKind = "invalid_argument"
	// KindPermissionDenied covers both OS permission failures and path
	// escapes. The two are deliberately indistinguishable to callers.
	KindPermissionDenied  ErrorKind = "permission_denied"
	KindNotFound          ErrorKind = "not_found"
	KindNotADirectory     ErrorKind = "not_a_directory"
	KindIsADirectory      ErrorKind = "is_a_directory"
	KindAlreadyExists     ErrorKind = "already_exists"
	KindDirectoryNotEmpty ErrorKind = "directory_not_empty"
	KindDecodeError       ErrorKind = "decode_error"
	KindUnknownOperation  ErrorKind = "unknown_operation"
	KindOSFailure         ErrorKind = "os_failure"
)
