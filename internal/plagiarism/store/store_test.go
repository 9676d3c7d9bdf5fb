package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	ok := map[string]string{
		"a.py":              "a.py",
		"dir/b.py":          "b.py",
		"evil/../../c.java": "c.java",
		`win\path\d.cpp`:    "d.cpp",
	}
	for in, want := range ok {
		got, err := SanitizeName(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", ".", "..", "a..b"} {
		_, err := SanitizeName(in)
		assert.Error(t, err, "%q should be rejected", in)
	}
}

func TestUploadRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.EnsureDirs())

	require.NoError(t, st.SaveUpload("sub/a.py", []byte("print(1)")))
	names, err := st.ListUploads()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py"}, names) // путь срезан до имени

	b, err := st.ReadUpload("a.py")
	require.NoError(t, err)
	assert.Equal(t, "print(1)", string(b))

	// перезапись одноимённого
	require.NoError(t, st.SaveUpload("a.py", []byte("print(2)")))
	b, _ = st.ReadUpload("a.py")
	assert.Equal(t, "print(2)", string(b))
}

func TestArtifactRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.EnsureDirs())

	require.NoError(t, st.WriteArtifact("a.py", "print(1)"))
	text, err := st.ReadArtifact("a.py")
	require.NoError(t, err)
	assert.Equal(t, "print(1)", text)

	// временных огрызков после записи не остаётся
	entries, err := os.ReadDir(st.PreprocDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = st.ReadArtifact("ghost.py")
	assert.True(t, os.IsNotExist(err))
}

func TestListUploadsMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	_, err := st.ListUploads()
	require.Error(t, err)
}

func TestClear(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.EnsureDirs())
	require.NoError(t, st.SaveUpload("a.py", []byte("x")))
	require.NoError(t, st.WriteArtifact("a.py", "x"))
	require.NoError(t, os.WriteFile(st.ResultsCSV, []byte("File 1,File 2,Similarity %\n"), 0o644))
	require.NoError(t, os.WriteFile(st.ProgressFile, []byte("{}"), 0o644))

	require.NoError(t, st.Clear())

	for _, d := range []string{st.UploadDir, st.PreprocDir, filepath.Dir(st.ResultsCSV)} {
		entries, err := os.ReadDir(d)
		require.NoError(t, err)
		assert.Empty(t, entries, d)
	}
	_, err := os.Stat(st.ProgressFile)
	assert.True(t, os.IsNotExist(err))

	// повторный clear по пустому — не ошибка
	require.NoError(t, st.Clear())
}
