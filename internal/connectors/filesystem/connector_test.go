package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))
}

func TestConnector_List(t *testing.T) {
	t.Run("lists supported files in order", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "b.docx"))
		writeFile(t, filepath.Join(root, "a.pdf"))
		writeFile(t, filepath.Join(root, "nested", "c.docx"))
		writeFile(t, filepath.Join(root, "notes.xlsx"))

		files, err := New(domain.FormatDOCX, domain.FormatPDF).List(context.Background(), root)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "a.pdf"),
			filepath.Join(root, "b.docx"),
			filepath.Join(root, "nested", "c.docx"),
		}, files)
	})

	t.Run("skips hidden files and directories", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, ".draft.docx"))
		writeFile(t, filepath.Join(root, ".git", "x.docx"))
		writeFile(t, filepath.Join(root, "visible.docx"))

		files, err := New(domain.FormatDOCX).List(context.Background(), root)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "visible.docx")}, files)
	})

	t.Run("root inside hidden directory is allowed", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), ".procedures", "docs")
		writeFile(t, filepath.Join(root, "x.docx"))

		files, err := New(domain.FormatDOCX).List(context.Background(), root)
		require.NoError(t, err)
		assert.Len(t, files, 1)
	})

	t.Run("no formats accepts everything", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "notes.xlsx"))

		files, err := New().List(context.Background(), root)
		require.NoError(t, err)
		assert.Len(t, files, 1)
	})

	t.Run("empty directory", func(t *testing.T) {
		files, err := New().List(context.Background(), t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := New().List(context.Background(), filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrIO)
	})

	t.Run("root is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a.docx")
		writeFile(t, path)
		_, err := New().List(context.Background(), path)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("cancelled context", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "a.docx"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := New().List(ctx, root)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("accepts file URI", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "a.docx"))

		files, err := New().List(context.Background(), "file://"+root)
		require.NoError(t, err)
		assert.Len(t, files, 1)
	})
}

func TestConnector_Watch(t *testing.T) {
	t.Run("reports created files", func(t *testing.T) {
		root := t.TempDir()
		c := New(domain.FormatDOCX)
		defer c.Close()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := c.Watch(ctx, root)
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			_ = os.WriteFile(filepath.Join(root, "new.docx"), []byte("x"), 0o600)
		}()

		select {
		case change := <-changes:
			assert.Equal(t, domain.ChangeCreated, change.Type)
			assert.Equal(t, filepath.Join(root, "new.docx"), change.Path)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for file change")
		}
	})

	t.Run("returns error for missing directory", func(t *testing.T) {
		_, err := New().Watch(context.Background(), filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "root path error")
	})

	t.Run("closes channel when context is cancelled", func(t *testing.T) {
		c := New()
		defer c.Close()
		ctx, cancel := context.WithCancel(context.Background())

		changes, err := c.Watch(ctx, t.TempDir())
		require.NoError(t, err)
		cancel()

		select {
		case _, ok := <-changes:
			assert.False(t, ok)
		case <-time.After(2 * time.Second):
			t.Fatal("channel not closed")
		}
	})

	t.Run("returns error when connector is closed", func(t *testing.T) {
		c := New()
		require.NoError(t, c.Close())

		_, err := c.Watch(context.Background(), t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "closed")
	})
}

func TestConnector_Close(t *testing.T) {
	c := New()
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"file:///srv/docs", "/srv/docs"},
		{"/srv/docs/", "/srv/docs"},
		{"docs", "docs"},
		{"", "."},
		{"file://", "."},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePath(tt.in))
		})
	}
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{".hidden", true},
		{"path/to/.hidden", true},
		{"/path/.hidden/file.docx", true},
		{"dir/.git/config", true},
		{".config/.cache/data", true},

		{"file.docx", false},
		{"path/to/file.docx", false},
		{"file.hidden", false},
		{"directory.name/file", false},

		{".", false},
		{"..", false},
		{"path/./file", false},
		{"path/../file", false},
		{"", false},
		{"/", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHidden(tt.path))
		})
	}
}

func TestHandleFsEvent(t *testing.T) {
	tests := []struct {
		name         string
		file         string
		create       bool
		dir          bool
		op           fsnotify.Op
		expectChange bool
		expectType   domain.ChangeType
	}{
		{name: "create", file: "a.docx", create: true, op: fsnotify.Create, expectChange: true, expectType: domain.ChangeCreated},
		{name: "write", file: "a.docx", create: true, op: fsnotify.Write, expectChange: true, expectType: domain.ChangeUpdated},
		{name: "remove", file: "a.docx", op: fsnotify.Remove, expectChange: true, expectType: domain.ChangeDeleted},
		{name: "rename", file: "a.docx", op: fsnotify.Rename, expectChange: true, expectType: domain.ChangeDeleted},
		{name: "chmod ignored", file: "a.docx", create: true, op: fsnotify.Chmod},
		{name: "hidden ignored", file: ".a.docx", create: true, op: fsnotify.Create},
		{name: "unsupported ignored", file: "a.xlsx", create: true, op: fsnotify.Create},
		{name: "directory ignored", file: "sub.docx", dir: true, op: fsnotify.Create},
		{name: "vanished before stat", file: "gone.docx", op: fsnotify.Write},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			path := filepath.Join(root, tt.file)
			if tt.create {
				writeFile(t, path)
			}
			if tt.dir {
				require.NoError(t, os.Mkdir(path, 0o755))
			}

			change := New(domain.FormatDOCX).handleFsEvent(root, fsnotify.Event{Name: path, Op: tt.op})
			if !tt.expectChange {
				assert.Nil(t, change)
				return
			}
			require.NotNil(t, change)
			assert.Equal(t, tt.expectType, change.Type)
			assert.Equal(t, path, change.Path)
		})
	}
}
