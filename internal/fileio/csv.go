package fileio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"plagiarism-service/internal/plagiarism/model"
)

// Заголовок таблицы результатов. Порядок колонок фиксирован.
var ResultsHeader = []string{"File 1", "File 2", "Similarity %"}

// WriteResultsCSV — перезаписывает таблицу целиком. Пишем во временный файл
// и переименовываем: неудачная запись не оставляет файла, похожего на целый.
func WriteResultsCSV(path string, rows []model.Result) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".results.tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(ResultsHeader); err != nil {
		tmp.Close()
		return err
	}
	for _, r := range rows {
		rec := []string{r.File1, r.File2, strconv.FormatFloat(r.Score, 'f', 2, 64)}
		if err := w.Write(rec); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadResultsCSV — таблица обратно в строки.
func ReadResultsCSV(path string) ([]model.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readResults(f)
}

// readResults читает CSV с автоопределением кодировки (UTF-8 и
// windows-1251 из коробки) — таблицу могли пересохранить чем угодно.
func readResults(r io.Reader) ([]model.Result, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(2048)
	cs := "utf-8"
	if len(peek) > 0 {
		if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
			cs = strings.ToLower(det.Charset)
		}
	}

	var dec io.Reader = br
	switch cs {
	case "windows-1251", "cp1251":
		dec = transform.NewReader(br, charmap.Windows1251.NewDecoder())
	default:
		// считаем UTF-8
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1

	var rows []model.Result
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if first {
			first = false
			continue // строка заголовков
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("results row: want 3 columns, got %d", len(rec))
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("results row: bad score %q: %w", rec[2], err)
		}
		rows = append(rows, model.Result{File1: rec[0], File2: rec[1], Score: score})
	}
	return rows, nil
}
