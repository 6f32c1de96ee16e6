package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_IsText_TextFile(t *testing.T) {
	assert.True(t, IsText([]byte("Hello, this is a text file\nwith multiple lines\n")))
}

func Test_IsText_JSONIsText(t *testing.T) {
	assert.True(t, IsText([]byte(`{"key": "value", "list": [1, 2, 3]}`)))
}

func Test_IsText_BinaryFile(t *testing.T) {
	content := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00} // PNG header with null byte
	assert.False(t, IsText(content))
}

func Test_IsText_NullInMiddle(t *testing.T) {
	content := make([]byte, 100)
	for i := range content {
		content[i] = 'a'
	}
	content[50] = 0x00
	assert.False(t, IsText(content))
}

func Test_PlainText_Extract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("remember the milk\n"), 0644))

	text, err := PlainText{}.Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "remember the milk\n", text)
}

func Test_PlainText_Extract_BinaryRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.txt")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x01, 0x02, 0x00, 0xFF}, 0644))

	_, err := PlainText{}.Extract(path)
	assert.ErrorIs(t, err, ErrNotText)
}

func Test_PlainText_Extract_MissingFile(t *testing.T) {
	_, err := PlainText{}.Extract(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}
