package progress

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plagiarism-service/internal/plagiarism/model"
)

func TestReportAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	rep := NewReporter(path, zerolog.Nop())

	written := rep.Report("comparison", 3, 10)
	assert.Equal(t, "comparison", written.Stage)
	assert.Positive(t, written.CPUCores)

	got := Read(path)
	assert.Equal(t, "comparison", got.Stage)
	assert.Equal(t, 3, got.CompletedPairs)
	assert.Equal(t, 10, got.TotalPairs)
	assert.GreaterOrEqual(t, got.ElapsedSeconds, 0.0)

	// снапшот перезаписывается, истории нет
	rep.Report("saving_csv", 1, 1)
	got = Read(path)
	assert.Equal(t, "saving_csv", got.Stage)
	assert.Equal(t, 1, got.TotalPairs)
}

func TestReadMissing(t *testing.T) {
	got := Read(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, model.Progress{}, got)
}

func TestReadMalformed(t *testing.T) {
	// читатель мог застать недописанный файл — это «прогресса нет», не ошибка
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"stage":"comp`), 0o644))
	assert.Equal(t, model.Progress{}, Read(path))
}

func TestCPUSample(t *testing.T) {
	usage, cores := CPUSample()
	assert.Positive(t, cores)
	assert.GreaterOrEqual(t, usage, 0.0)
}
