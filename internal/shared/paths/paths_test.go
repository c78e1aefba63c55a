package paths

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportDir(t *testing.T) {
	dir, err := SupportDir("Brackets")
	require.NoError(t, err)
	assert.Equal(t, "Brackets", filepath.Base(dir))

	for _, bad := range []string{"", "..", "a/b"} {
		_, err := SupportDir(bad)
		assert.Error(t, err, bad)
	}
}

func TestXDGOverrides(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_DOCUMENTS_DIR", "/docs")

	trash, err := TrashDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", "Trash"), trash)

	docs, err := DocumentsDir()
	require.NoError(t, err)
	assert.Equal(t, "/docs", docs)
}

func TestFileURL(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}
	assert.Equal(t, "file:///home/me/my%20project", FileURL("/home/me/my project"))
	assert.Equal(t, "/home/me/100%25/a%23b", EscapePath("/home/me/100%/a#b"))
}
