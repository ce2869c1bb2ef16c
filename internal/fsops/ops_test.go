package fsops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustResolve(t *testing.T, r *Resolver, rel string) ResolvedPath {
	t.Helper()
	p, ferr := r.Resolve(rel)
	require.Nil(t, ferr)
	return p
}

func TestReadWriteRoundTrip(t *testing.T) {
	r, _ := newTestResolver(t)

	p := mustResolve(t, r, "note.txt")
	n, ferr := WriteFile(p, "hello world\n")
	require.Nil(t, ferr)
	assert.Equal(t, 12, n)

	content, ferr := ReadFile(p)
	require.Nil(t, ferr)
	assert.Equal(t, "hello world\n", content)
}

func TestWriteFile(t *testing.T) {
	r, root := newTestResolver(t)

	t.Run("overwrite truncates", func(t *testing.T) {
		p := mustResolve(t, r, "file.txt")
		_, ferr := WriteFile(p, "long original content")
		require.Nil(t, ferr)
		_, ferr = WriteFile(p, "short")
		require.Nil(t, ferr)

		content, ferr := ReadFile(p)
		require.Nil(t, ferr)
		assert.Equal(t, "short", content)
	})

	t.Run("missing parent directory", func(t *testing.T) {
		p := mustResolve(t, r, "nodir/file.txt")
		_, ferr := WriteFile(p, "x")
		require.NotNil(t, ferr)
		assert.Equal(t, KindNotFound, ferr.Kind)
	})

	t.Run("target is a directory", func(t *testing.T) {
		require.NoError(t, os.Mkdir(filepath.Join(root, "adir"), 0o755))
		p := mustResolve(t, r, "adir")
		_, ferr := WriteFile(p, "x")
		require.NotNil(t, ferr)
		assert.Equal(t, KindIsADirectory, ferr.Kind)
	})
}

func TestReadFile(t *testing.T) {
	r, root := newTestResolver(t)

	t.Run("missing file", func(t *testing.T) {
		_, ferr := ReadFile(mustResolve(t, r, "missing.txt"))
		require.NotNil(t, ferr)
		assert.Equal(t, KindNotFound, ferr.Kind)
	})

	t.Run("directory", func(t *testing.T) {
		require.NoError(t, os.Mkdir(filepath.Join(root, "d"), 0o755))
		_, ferr := ReadFile(mustResolve(t, r, "d"))
		require.NotNil(t, ferr)
		assert.Equal(t, KindIsADirectory, ferr.Kind)
	})

	t.Run("binary content", func(t *testing.T) {
		data := []byte{0x7f, 'E', 'L', 'F', 0x00, 0x01, 0x02, 0xff, 0xfe}
		require.NoError(t, os.WriteFile(filepath.Join(root, "bin"), data, 0o644))
		_, ferr := ReadFile(mustResolve(t, r, "bin"))
		require.NotNil(t, ferr)
		assert.Equal(t, KindDecodeError, ferr.Kind)
	})

	t.Run("utf8 with embedded NUL", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "nul.txt"), []byte("ab\x00cd"), 0o644))
		_, ferr := ReadFile(mustResolve(t, r, "nul.txt"))
		require.NotNil(t, ferr)
		assert.Equal(t, KindDecodeError, ferr.Kind)
	})
}

func TestListDirectory(t *testing.T) {
	r, root := newTestResolver(t)

	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("bb"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

	t.Run("sorted entries with kinds", func(t *testing.T) {
		entries, ferr := ListDirectory(mustResolve(t, r, "."))
		require.Nil(t, ferr)
		require.Len(t, entries, 3)

		assert.Equal(t, "a.txt", entries[0].Name)
		assert.Equal(t, EntryFile, entries[0].Kind)
		assert.Equal(t, int64(1), entries[0].Size)
		assert.Equal(t, "b.txt", entries[1].Name)
		assert.Equal(t, "sub", entries[2].Name)
		assert.Equal(t, EntryDirectory, entries[2].Kind)
	})

	t.Run("empty directory", func(t *testing.T) {
		entries, ferr := ListDirectory(mustResolve(t, r, "sub"))
		require.Nil(t, ferr)
		assert.Empty(t, entries)
	})

	t.Run("path is a file", func(t *testing.T) {
		_, ferr := ListDirectory(mustResolve(t, r, "a.txt"))
		require.NotNil(t, ferr)
		assert.Equal(t, KindNotADirectory, ferr.Kind)
	})

	t.Run("missing path", func(t *testing.T) {
		_, ferr := ListDirectory(mustResolve(t, r, "nope"))
		require.NotNil(t, ferr)
		assert.Equal(t, KindNotFound, ferr.Kind)
	})
}

func TestCreateDirectory(t *testing.T) {
	r, root := newTestResolver(t)

	t.Run("nested creation", func(t *testing.T) {
		ferr := CreateDirectory(mustResolve(t, r, "a/b/c"))
		require.Nil(t, ferr)
		info, err := os.Stat(filepath.Join(root, "a", "b", "c"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("idempotent", func(t *testing.T) {
		require.Nil(t, CreateDirectory(mustResolve(t, r, "a/b/c")))
	})

	t.Run("file in the way", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "blocker"), []byte("x"), 0o644))
		ferr := CreateDirectory(mustResolve(t, r, "blocker"))
		require.NotNil(t, ferr)
		assert.Equal(t, KindNotADirectory, ferr.Kind)
	})

	t.Run("file blocking an ancestor", func(t *testing.T) {
		ferr := CreateDirectory(mustResolve(t, r, "blocker/child"))
		require.NotNil(t, ferr)
		assert.Equal(t, KindNotADirectory, ferr.Kind)
	})
}

func TestDeleteFile(t *testing.T) {
	r, root := newTestResolver(t)

	t.Run("removes the file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "gone.txt"), []byte("x"), 0o644))
		require.Nil(t, DeleteFile(mustResolve(t, r, "gone.txt")))
		_, err := os.Lstat(filepath.Join(root, "gone.txt"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("missing file", func(t *testing.T) {
		ferr := DeleteFile(mustResolve(t, r, "missing.txt"))
		require.NotNil(t, ferr)
		assert.Equal(t, KindNotFound, ferr.Kind)
	})

	t.Run("directory is rejected", func(t *testing.T) {
		require.NoError(t, os.Mkdir(filepath.Join(root, "d"), 0o755))
		ferr := DeleteFile(mustResolve(t, r, "d"))
		require.NotNil(t, ferr)
		assert.Equal(t, KindIsADirectory, ferr.Kind)
	})
}

func TestDeleteDirectory(t *testing.T) {
	r, root := newTestResolver(t)

	t.Run("empty directory", func(t *testing.T) {
		require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0o755))
		require.Nil(t, DeleteDirectory(mustResolve(t, r, "empty"), false))
	})

	t.Run("non-empty without recursive leaves contents intact", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "full", "sub"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "full", "f.txt"), []byte("x"), 0o644))

		ferr := DeleteDirectory(mustResolve(t, r, "full"), false)
		require.NotNil(t, ferr)
		assert.Equal(t, KindDirectoryNotEmpty, ferr.Kind)

		_, err := os.Stat(filepath.Join(root, "full", "f.txt"))
		assert.NoError(t, err)
	})

	t.Run("recursive removes everything", func(t *testing.T) {
		require.Nil(t, DeleteDirectory(mustResolve(t, r, "full"), true))
		_, err := os.Stat(filepath.Join(root, "full"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("file is rejected", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "f.txt"), []byte("x"), 0o644))
		ferr := DeleteDirectory(mustResolve(t, r, "f.txt"), false)
		require.NotNil(t, ferr)
		assert.Equal(t, KindNotADirectory, ferr.Kind)
	})
}

func TestMovePath(t *testing.T) {
	r, root := newTestResolver(t)

	t.Run("renames a file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "old.txt"), []byte("x"), 0o644))
		ferr := MovePath(mustResolve(t, r, "old.txt"), mustResolve(t, r, "new.txt"))
		require.Nil(t, ferr)

		_, err := os.Lstat(filepath.Join(root, "old.txt"))
		assert.True(t, os.IsNotExist(err))
		_, err = os.Lstat(filepath.Join(root, "new.txt"))
		assert.NoError(t, err)
	})

	t.Run("moves a directory", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "dir", "inner"), 0o755))
		ferr := MovePath(mustResolve(t, r, "dir"), mustResolve(t, r, "moved"))
		require.Nil(t, ferr)
		_, err := os.Stat(filepath.Join(root, "moved", "inner"))
		assert.NoError(t, err)
	})

	t.Run("missing source", func(t *testing.T) {
		ferr := MovePath(mustResolve(t, r, "absent"), mustResolve(t, r, "dest"))
		require.NotNil(t, ferr)
		assert.Equal(t, KindNotFound, ferr.Kind)
	})

	t.Run("occupied destination leaves both intact", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "src.txt"), []byte("src"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "dst.txt"), []byte("dst"), 0o644))

		ferr := MovePath(mustResolve(t, r, "src.txt"), mustResolve(t, r, "dst.txt"))
		require.NotNil(t, ferr)
		assert.Equal(t, KindAlreadyExists, ferr.Kind)

		data, err := os.ReadFile(filepath.Join(root, "dst.txt"))
		require.NoError(t, err)
		assert.Equal(t, "dst", string(data))
		_, err = os.Lstat(filepath.Join(root, "src.txt"))
		assert.NoError(t, err)
	})
}

func TestStatPath(t *testing.T) {
	r, root := newTestResolver(t)

	t.Run("file record", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "info.txt"), []byte("0123456789ab"), 0o644))

		rec, ferr := StatPath(mustResolve(t, r, "info.txt"))
		require.Nil(t, ferr)
		assert.Equal(t, "info.txt", rec.Path)
		assert.Equal(t, EntryFile, rec.Kind)
		assert.Equal(t, int64(12), rec.Size)
		assert.False(t, rec.Modified.IsZero())
		assert.NotEmpty(t, rec.Perm)
		assert.Zero(t, rec.Children)
	})

	t.Run("directory record counts children", func(t *testing.T) {
		require.NoError(t, os.Mkdir(filepath.Join(root, "dir"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "dir", "a"), []byte("x"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "dir", "b"), []byte("x"), 0o644))

		rec, ferr := StatPath(mustResolve(t, r, "dir"))
		require.Nil(t, ferr)
		assert.Equal(t, EntryDirectory, rec.Kind)
		assert.Equal(t, 2, rec.Children)
	})

	t.Run("missing path", func(t *testing.T) {
		_, ferr := StatPath(mustResolve(t, r, "nope"))
		require.NotNil(t, ferr)
		assert.Equal(t, KindNotFound, ferr.Kind)
	})
}
