package bvh

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	words := []uint32(threeLeafBvh2())
	dir := t.TempDir()

	for _, name := range []string{"tree.bin", "tree.json", "tree.zip", "TREE.JSON"} {
		file := filepath.Join(dir, name)
		require.NoError(t, Save(file, words), name)

		loaded, err := Load(file)
		require.NoError(t, err, name)
		require.Equal(t, words, loaded, name)
	}
}

func TestRawFormatIsLittleEndian(t *testing.T) {
	file := filepath.Join(t.TempDir(), "words.bin")
	require.NoError(t, Save(file, []uint32{1, 0xA1B2C3D4}))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 0, 0, 0, 0xD4, 0xC3, 0xB2, 0xA1}, data)
}

func TestReadWordsErrors(t *testing.T) {
	words, err := ReadWords(bytes.NewReader(nil))
	require.NoError(t, err)
	require.Empty(t, words)
	require.Equal(t, ErrEmptyBuffer, Bvh2(words).CheckSize())

	_, err = ReadWords(bytes.NewReader([]byte{1, 2, 3, 4, 5}))
	require.Equal(t, ErrSizeNotMultipleOf4, err)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.bin"))
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))

	odd := filepath.Join(dir, "odd.bin")
	require.NoError(t, os.WriteFile(odd, []byte{1, 2, 3}, 0644))
	_, err = Load(odd)
	require.ErrorIs(t, err, ErrSizeNotMultipleOf4)

	emptyJSON := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(emptyJSON, []byte("[]"), 0644))
	words, err := Load(emptyJSON)
	require.NoError(t, err)
	require.ErrorIs(t, Bvh4(words).CheckSize(), ErrEmptyBuffer)

	emptyBin := filepath.Join(dir, "empty.bin")
	require.NoError(t, os.WriteFile(emptyBin, nil, 0644))
	words, err = Load(emptyBin)
	require.NoError(t, err)
	require.ErrorIs(t, Bvh2(words).CheckSize(), ErrEmptyBuffer)

	badJSON := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badJSON, []byte("[1, -2]"), 0644))
	_, err = Load(badJSON)
	require.Error(t, err)
}

func TestLoadZipWithoutEntry(t *testing.T) {
	dir := t.TempDir()

	// A zip archive with a different entry name.
	file := filepath.Join(dir, "other.zip")
	require.NoError(t, Save(file, []uint32{1, 2}))
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	data = bytes.Replace(data, []byte(zipEntry), []byte("bvh.xyz"), -1)
	require.NoError(t, os.WriteFile(file, data, 0644))

	_, err = Load(file)
	require.ErrorIs(t, err, ErrMissingZipEntry)
}

func TestLoadRemote(t *testing.T) {
	words := []uint32(threeLeafBvh2())
	serverFn := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tree.bin" {
			http.NotFound(w, r)
			return
		}
		WriteWords(w, words)
	})
	server := httptest.NewServer(serverFn)
	defer server.Close()

	loaded, err := Load(server.URL + "/tree.bin")
	require.NoError(t, err)
	require.Equal(t, words, loaded)

	_, err = Load(server.URL + "/missing.bin")
	require.Error(t, err)
}
