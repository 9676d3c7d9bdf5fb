package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store — файловое хранилище одного прогона: загрузки, нормализованные
// артефакты, таблица результатов и снапшот прогресса. Всё под одним DATA_DIR.
type Store struct {
	UploadDir    string
	PreprocDir   string
	ResultsCSV   string
	ProgressFile string
}

func New(dataDir string) *Store {
	return &Store{
		UploadDir:    filepath.Join(dataDir, "uploads"),
		PreprocDir:   filepath.Join(dataDir, "preprocessed"),
		ResultsCSV:   filepath.Join(dataDir, "results", "similarity_results.csv"),
		ProgressFile: filepath.Join(dataDir, "progress.json"),
	}
}

// EnsureDirs — создать все рабочие каталоги.
func (s *Store) EnsureDirs() error {
	for _, d := range []string{s.UploadDir, s.PreprocDir, filepath.Dir(s.ResultsCSV)} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", d, err)
		}
	}
	return nil
}

// SanitizeName — только базовое имя, без попыток выхода из каталога.
func SanitizeName(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "" || base == "." || base == ".." || strings.Contains(base, "..") {
		return "", fmt.Errorf("invalid filename %q", name)
	}
	return base, nil
}

// SaveUpload — сохранить загруженный файл (перезаписывает одноимённый).
func (s *Store) SaveUpload(name string, data []byte) error {
	base, err := SanitizeName(name)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.UploadDir, base), data, 0o644)
}

// ListUploads — имена загруженных файлов, по алфавиту.
// Отсутствие каталога загрузок — ошибка (прогон без загрузок не имеет смысла).
func (s *Store) ListUploads() ([]string, error) {
	entries, err := os.ReadDir(s.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) ReadUpload(name string) ([]byte, error) {
	base, err := SanitizeName(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(s.UploadDir, base))
}

// WriteArtifact — нормализованный текст под исходным именем файла.
// Пишем во временный файл и переименовываем, чтобы читатель не увидел огрызок.
func (s *Store) WriteArtifact(name, text string) error {
	base, err := SanitizeName(name)
	if err != nil {
		return err
	}
	return atomicWrite(filepath.Join(s.PreprocDir, base), []byte(text))
}

// ReadArtifact — нормализованный текст по исходному имени.
func (s *Store) ReadArtifact(name string) (string, error) {
	base, err := SanitizeName(name)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(filepath.Join(s.PreprocDir, base))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Clear — снести загрузки, артефакты, результаты и прогресс.
func (s *Store) Clear() error {
	var errs []error
	for _, d := range []string{s.UploadDir, s.PreprocDir, filepath.Dir(s.ResultsCSV)} {
		errs = append(errs, clearDir(d))
	}
	if err := os.Remove(s.ProgressFile); err != nil && !os.IsNotExist(err) {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var errs []error
	for _, e := range entries {
		errs = append(errs, os.RemoveAll(filepath.Join(dir, e.Name())))
	}
	return errors.Join(errs...)
}

// atomicWrite: tmp в том же каталоге + rename.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
