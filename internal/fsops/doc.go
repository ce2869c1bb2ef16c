// Package fsops implements the path-confined filesystem core of fsgate.
//
// The package is organized into focused modules:
//   - resolver: canonicalizes untrusted relative paths against the allowed
//     root and rejects anything that would resolve outside it
//   - ops: the fixed set of filesystem operations (read, write, list,
//     mkdir, delete, move, stat) over resolver-validated paths
//   - errors: the typed error taxonomy; OS errors never leave this package
//     unclassified
//   - format: deterministic text rendering of directory listings and
//     metadata records
//
// All operations:
//   - Accept only ResolvedPath values produced by a Resolver
//   - Are stateless and safe for concurrent use; synchronization is left
//     to the operating system
//   - Report failures as *Error values carrying a Kind from the closed
//     taxonomy
//
// Example Usage:
//
//	r, err := fsops.NewResolver("/srv/data")
//	p, ferr := r.Resolve("notes/todo.txt")
//	content, ferr := fsops.ReadFile(p)
package fsops
