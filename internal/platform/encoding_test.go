package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
)

func writeRaw(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReadFileBOM(t *testing.T) {
	n := newTestNative(t)
	path := writeRaw(t, append([]byte{0xEF, 0xBB, 0xBF}, "hello"...))

	res, code := n.ReadFile(path, "utf8")
	require.Equal(t, errcode.NoError, code)
	assert.Equal(t, "hello", res.Contents)
	assert.True(t, res.PreserveBOM)

	require.Equal(t, errcode.NoError, n.WriteFile(path, res.Contents, res.Encoding, res.PreserveBOM))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, append([]byte{0xEF, 0xBB, 0xBF}, "hello"...), raw)
}

func TestWriteFileStripsBOMUnlessPreserved(t *testing.T) {
	n := newTestNative(t)
	path := filepath.Join(t.TempDir(), "f.txt")

	require.Equal(t, errcode.NoError, n.WriteFile(path, "\uFEFFdata", "utf8", false))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data", string(raw))

	require.Equal(t, errcode.NoError, n.WriteFile(path, "\uFEFFdata", "utf8", true))
	res, code := n.ReadFile(path, "utf8")
	require.Equal(t, errcode.NoError, code)
	assert.Equal(t, "data", res.Contents)
	assert.True(t, res.PreserveBOM)
}

func TestReadFileUTF16(t *testing.T) {
	n := newTestNative(t)
	for name, bom := range map[string][]byte{
		"utf16le": {0xFF, 0xFE, 'h', 0},
		"utf16be": {0xFE, 0xFF, 0, 'h'},
		"utf32le": {0xFF, 0xFE, 0, 0, 'h', 0, 0, 0},
		"utf32be": {0, 0, 0xFE, 0xFF, 0, 0, 0, 'h'},
	} {
		t.Run(name, func(t *testing.T) {
			_, code := n.ReadFile(writeRaw(t, bom), "utf8")
			assert.Equal(t, errcode.ErrUnsupportedUTF16Encoding, code)
		})
	}

	_, code := n.ReadFile(writeRaw(t, []byte("plain")), "utf-16le")
	assert.Equal(t, errcode.ErrUnsupportedUTF16Encoding, code)
}

func TestReadFileErrors(t *testing.T) {
	n := newTestNative(t)

	_, code := n.ReadFile(filepath.Join(t.TempDir(), "missing"), "utf8")
	assert.Equal(t, errcode.ErrNotFound, code)

	_, code = n.ReadFile(t.TempDir(), "utf8")
	assert.Equal(t, errcode.ErrNotFile, code)

	_, code = n.ReadFile(writeRaw(t, []byte("x")), "klingon")
	assert.Equal(t, errcode.ErrUnsupportedEncoding, code)

	text := strings.Repeat("The caf\xe9 on the corner serves cr\xe8me br\xfbl\xe9e. ", 8)
	_, code = n.ReadFile(writeRaw(t, []byte(text)), "utf8")
	assert.Equal(t, errcode.ErrDecodeFileFailed, code)

	binary := []byte{0x00, 0x9F, 0x92, 0x96, 0x00, 0x01, 0x02, 0x03, 0xC3}
	_, code = n.ReadFile(writeRaw(t, binary), "utf8")
	assert.Equal(t, errcode.ErrUnsupportedEncoding, code)
	_, code = n.ReadFile(writeRaw(t, binary), "auto")
	assert.Equal(t, errcode.ErrUnsupportedEncoding, code)
}

func TestLegacyEncodings(t *testing.T) {
	n := newTestNative(t)
	path := filepath.Join(t.TempDir(), "latin1.txt")

	require.Equal(t, errcode.NoError, n.WriteFile(path, "café", "windows-1252", false))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("caf\xe9"), raw)

	res, code := n.ReadFile(path, "latin1")
	require.Equal(t, errcode.NoError, code)
	assert.Equal(t, "café", res.Contents)
	assert.Equal(t, "windows-1252", res.Encoding)

	assert.Equal(t, errcode.ErrEncodeFileFailed, n.WriteFile(path, "日本語", "windows-1252", false))
	assert.Equal(t, errcode.ErrUnsupportedEncoding, n.WriteFile(path, "x", "klingon", false))
	assert.Equal(t, errcode.ErrUnsupportedUTF16Encoding, n.WriteFile(path, "x", "utf-16be", false))
}

func TestReadFileDetectsEncoding(t *testing.T) {
	n := newTestNative(t)

	res, code := n.ReadFile(writeRaw(t, []byte("plain ascii")), "")
	require.Equal(t, errcode.NoError, code)
	assert.Equal(t, EncodingUTF8, res.Encoding)

	text := strings.Repeat("The caf\xe9 on the corner serves cr\xe8me br\xfbl\xe9e every morning. ", 10)
	res, code = n.ReadFile(writeRaw(t, []byte(text)), "auto")
	require.Equal(t, errcode.NoError, code)
	assert.Contains(t, res.Contents, "café")
}

func TestWriteFileErrors(t *testing.T) {
	n := newTestNative(t)
	dir := t.TempDir()

	assert.Equal(t, errcode.ErrNotFile, n.WriteFile(dir, "x", "utf8", false))
	assert.Equal(t, errcode.ErrNotFound, n.WriteFile(filepath.Join(dir, "no", "f"), "x", "utf8", false))
}
