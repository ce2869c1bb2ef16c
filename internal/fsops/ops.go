package fsops

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
)

// EntryKind identifies what a directory entry is.
type EntryKind string

const (
	EntryFile      EntryKind = "file"
	EntryDirectory EntryKind = "directory"
	EntryOther     EntryKind = "other"
)

// Entry describes one immediate child of a directory. Size is meaningful
// for files only.
type Entry struct {
	Name     string    `json:"name"`
	Kind     EntryKind `json:"kind"`
	Size     int64     `json:"size,omitempty"`
	Modified time.Time `json:"modified"`
}

// Record is the full metadata for a single path. Children counts the
// immediate entries of a directory, non-recursive.
type Record struct {
	Path     string    `json:"path"`
	Kind     EntryKind `json:"kind"`
	Size     int64     `json:"size"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	Perm     string    `json:"permissions"`
	Children int       `json:"children,omitempty"`
}

// ReadFile returns the file's content as text. Binary or non-UTF-8
// content fails with KindDecodeError.
func ReadFile(p ResolvedPath) (string, *Error) {
	info, err := os.Stat(p.Abs())
	if err != nil {
		return "", classify(err, "read", p.String())
	}
	if info.IsDir() {
		return "", errf(KindIsADirectory, "read failed: %q is a directory", p)
	}

	data, err := os.ReadFile(p.Abs())
	if err != nil {
		return "", classify(err, "read", p.String())
	}
	if ferr := checkText(data, p.String()); ferr != nil {
		return "", ferr
	}
	return string(data), nil
}

// checkText rejects content that cannot be returned as text. For
// non-UTF-8 text the message names the best charset guess to help the
// caller, without echoing any content.
func checkText(data []byte, display string) *Error {
	if utf8.Valid(data) {
		if bytes.IndexByte(data, 0) >= 0 {
			return errf(KindDecodeError, "read failed: %q contains binary data", display)
		}
		return nil
	}

	mtype := mimetype.Detect(data)
	if !isTextMIME(mtype.String()) {
		return errf(KindDecodeError, "read failed: %q is not a text file (%s)", display, mtype.String())
	}

	if best, err := chardet.NewTextDetector().DetectBest(data); err == nil && best.Charset != "" {
		return errf(KindDecodeError, "read failed: %q is not valid UTF-8 text (charset looks like %s)", display, best.Charset)
	}
	return errf(KindDecodeError, "read failed: %q is not valid UTF-8 text", display)
}

func isTextMIME(mime string) bool {
	return strings.HasPrefix(mime, "text/") ||
		mime == "application/json" ||
		mime == "application/xml" ||
		mime == "application/javascript"
}

// ListDirectory returns the immediate entries of a directory, sorted by
// name for deterministic output.
func ListDirectory(p ResolvedPath) ([]Entry, *Error) {
	info, err := os.Stat(p.Abs())
	if err != nil {
		return nil, classify(err, "list", p.String())
	}
	if !info.IsDir() {
		return nil, errf(KindNotADirectory, "list failed: %q is not a directory", p)
	}

	dirents, err := os.ReadDir(p.Abs())
	if err != nil {
		return nil, classify(err, "list", p.String())
	}

	entries := make([]Entry, 0, len(dirents))
	for _, de := range dirents {
		e := Entry{Name: de.Name(), Kind: entryKind(de.Type())}
		if fi, err := de.Info(); err == nil {
			e.Modified = fi.ModTime().UTC()
			if e.Kind == EntryFile {
				e.Size = fi.Size()
			}
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func entryKind(mode fs.FileMode) EntryKind {
	switch {
	case mode.IsDir():
		return EntryDirectory
	case mode.IsRegular():
		return EntryFile
	default:
		return EntryOther
	}
}

// WriteFile creates or truncates the target and writes content to it.
// Missing parent directories are not created; that is create_directory's
// job. Returns the number of bytes written.
func WriteFile(p ResolvedPath, content string) (int, *Error) {
	if info, err := os.Stat(p.Abs()); err == nil && info.IsDir() {
		return 0, errf(KindIsADirectory, "write failed: %q is a directory", p)
	}
	if err := os.WriteFile(p.Abs(), []byte(content), 0o644); err != nil {
		return 0, classify(err, "write", p.String())
	}
	return len(content), nil
}

// CreateDirectory creates the directory and any missing ancestors.
// Idempotent: an existing directory is a success. A non-directory in the
// way fails with KindNotADirectory.
func CreateDirectory(p ResolvedPath) *Error {
	if info, err := os.Stat(p.Abs()); err == nil && !info.IsDir() {
		return errf(KindNotADirectory, "create failed: %q exists and is not a directory", p)
	}
	if err := os.MkdirAll(p.Abs(), 0o755); err != nil {
		ferr := classify(err, "create", p.String())
		// MkdirAll reports a file in the way as EEXIST or ENOTDIR
		// depending on the position of the blocking component.
		if ferr.Kind == KindAlreadyExists {
			ferr.Kind = KindNotADirectory
		}
		return ferr
	}
	return nil
}

// DeleteFile removes a single file. Directories are rejected; use
// DeleteDirectory for those.
func DeleteFile(p ResolvedPath) *Error {
	info, err := os.Lstat(p.Abs())
	if err != nil {
		return classify(err, "delete", p.String())
	}
	if info.IsDir() {
		return errf(KindIsADirectory, "delete failed: %q is a directory (use delete_directory)", p)
	}
	if err := os.Remove(p.Abs()); err != nil {
		return classify(err, "delete", p.String())
	}
	return nil
}

// DeleteDirectory removes a directory. Without recursive, a non-empty
// directory fails with KindDirectoryNotEmpty and is left untouched.
func DeleteDirectory(p ResolvedPath, recursive bool) *Error {
	info, err := os.Lstat(p.Abs())
	if err != nil {
		return classify(err, "delete", p.String())
	}
	if !info.IsDir() {
		return errf(KindNotADirectory, "delete failed: %q is not a directory", p)
	}

	if recursive {
		if err := os.RemoveAll(p.Abs()); err != nil {
			return classify(err, "delete", p.String())
		}
		return nil
	}

	if err := os.Remove(p.Abs()); err != nil {
		ferr := classify(err, "delete", p.String())
		// Linux reports a populated directory as ENOTEMPTY, some
		// systems as EEXIST.
		if ferr.Kind == KindAlreadyExists {
			ferr.Kind = KindDirectoryNotEmpty
			ferr.Message = fmt.Sprintf("delete failed: directory %q is not empty", p)
		}
		return ferr
	}
	return nil
}

// MovePath renames src to dst. An occupied destination is rejected
// rather than overwritten.
func MovePath(src, dst ResolvedPath) *Error {
	if _, err := os.Lstat(src.Abs()); err != nil {
		return classify(err, "move", src.String())
	}
	if _, err := os.Lstat(dst.Abs()); err == nil {
		return errf(KindAlreadyExists, "move failed: destination %q already exists", dst)
	}
	if err := os.Rename(src.Abs(), dst.Abs()); err != nil {
		ferr := classify(err, "move", src.String())
		// Cross-device renames and other rename-specific failures fall
		// into the OS catch-all.
		if ferr.Kind == KindAlreadyExists {
			ferr.Kind = KindOSFailure
		}
		return ferr
	}
	return nil
}

// StatPath returns the full metadata record for a path. Directory
// records include the number of immediate children.
func StatPath(p ResolvedPath) (*Record, *Error) {
	info, err := os.Stat(p.Abs())
	if err != nil {
		return nil, classify(err, "stat", p.String())
	}

	rec := &Record{
		Path:     p.String(),
		Kind:     entryKind(info.Mode()),
		Size:     info.Size(),
		Created:  createdTime(info).UTC(),
		Modified: info.ModTime().UTC(),
		Perm:     info.Mode().Perm().String(),
	}
	if info.IsDir() {
		dirents, err := os.ReadDir(p.Abs())
		if err != nil {
			return nil, classify(err, "stat", p.String())
		}
		rec.Children = len(dirents)
	}
	return rec, nil
}
