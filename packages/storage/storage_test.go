package storage

import (
	"os"
	"path/filepath"
	"testing"

	"scriptscraper/packages/domain"

	"github.com/stretchr/testify/require"
)

func TestWriteTranscriptRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	text := "Hello world\nIt's been 84 years... ñ 🚢"
	path, n, err := s.WriteTranscript("Titanic", text)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "Titanic.txt"), path)
	require.Equal(t, len(text), n)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte(text), raw)

	got, err := s.ReadTranscript("Titanic")
	require.NoError(t, err)
	require.Equal(t, text, got)
}

func TestWriteTranscriptOverwrites(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, _, err = s.WriteTranscript("Titanic", "a much longer first version")
	require.NoError(t, err)
	_, _, err = s.WriteTranscript("Titanic", "short")
	require.NoError(t, err)

	got, err := s.ReadTranscript("Titanic")
	require.NoError(t, err)
	require.Equal(t, "short", got)
}

func TestTitleKeptVerbatim(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	title := "  Titanic (1997) - full transcript "
	path, _, err := s.WriteTranscript(title, "x")
	require.NoError(t, err)
	require.Equal(t, title+".txt", filepath.Base(path))
}

func TestInvalidTitles(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	for _, title := range []string{"", "AC/DC", "nul\x00byte"} {
		_, _, err := s.WriteTranscript(title, "x")
		require.ErrorIs(t, err, domain.ErrInvalidFilename, "title %q", title)
		kind, _ := domain.KindOf(err)
		require.Equal(t, domain.FilesystemFault, kind)
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "scripts")
	s, err := New(dir)
	require.NoError(t, err)

	_, _, err = s.WriteTranscript("Titanic", "x")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "Titanic.txt"))
}

func TestWriteIntoMissingDirectoryIsFilesystemFault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gone")
	s, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	_, _, err = s.WriteTranscript("Titanic", "x")
	require.Error(t, err)
	kind, _ := domain.KindOf(err)
	require.Equal(t, domain.FilesystemFault, kind)
}
