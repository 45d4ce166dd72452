package download

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{ n int }

func (f *failingReader) Read(b []byte) (int, error) {
	if f.n > 0 {
		f.n--
		b[0] = 'x'
		return 1, nil
	}
	return 0, errors.New("read exploded")
}

func TestSaveWritesFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "parecer.pdf")

	require.NoError(t, Save(dest, strings.NewReader("%PDF-1.4 fake")))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(data))
}

func TestSaveCreatesParentDir(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nested", "out", "export.csv")
	require.NoError(t, Save(dest, strings.NewReader("a,b\n")))
	_, err := os.Stat(dest)
	assert.NoError(t, err)
}

func TestSaveFailureLeavesNothingBehind(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "broken.pdf")

	err := Save(dest, &failingReader{n: 3})
	require.Error(t, err)

	// Neither the destination nor a temp file may remain.
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}
