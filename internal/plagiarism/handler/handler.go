package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"plagiarism-service/internal/config"
	"plagiarism-service/internal/fileio"
	"plagiarism-service/internal/plagiarism/model"
	"plagiarism-service/internal/plagiarism/service"
	"plagiarism-service/internal/plagiarism/store"
	"plagiarism-service/internal/progress"
)

// Check — приём пачки файлов и синхронный прогон пайплайна.
// Валидация «всё или ничего»: сначала проверяем всю пачку, любое нарушение —
// 400 со списком всех проблем, и ни один файл из пачки не сохраняется.
func Check(cfg config.Config, logger zerolog.Logger, svc *service.Service, st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := reqLogger(logger, r)

		defer r.Body.Close()
		if err := r.ParseMultipartForm(64 << 20); err != nil {
			http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}
		files := r.MultipartForm.File["files"]
		if len(files) == 0 {
			http.Error(w, `no files uploaded (multipart field "files")`, http.StatusBadRequest)
			return
		}

		maxBytes := int64(cfg.MaxFileMB) << 20
		var violations []string
		for _, fh := range files {
			name, err := store.SanitizeName(fh.Filename)
			if err != nil {
				violations = append(violations, fmt.Sprintf("%s: invalid filename", fh.Filename))
				continue
			}
			if !service.SupportedExt(name) {
				violations = append(violations, fmt.Sprintf("%s: unsupported extension (allowed: %s)",
					name, strings.Join(service.ValidExtensions(), ", ")))
			}
			if fh.Size > maxBytes {
				violations = append(violations, fmt.Sprintf("%s: exceeds %dMB size limit", name, cfg.MaxFileMB))
			}
		}
		if len(violations) > 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": violations})
			return
		}

		for _, fh := range files {
			f, err := fh.Open()
			if err != nil {
				http.Error(w, "read upload "+fh.Filename+": "+err.Error(), http.StatusInternalServerError)
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err == nil {
				err = st.SaveUpload(fh.Filename, data)
			}
			if err != nil {
				http.Error(w, "save upload "+fh.Filename+": "+err.Error(), http.StatusInternalServerError)
				return
			}
		}

		rep, err := svc.Run(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("pipeline run")
			status := http.StatusInternalServerError
			if errors.Is(err, service.ErrNoFiles) {
				status = http.StatusUnprocessableEntity
			}
			http.Error(w, "run failed: "+err.Error(), status)
			return
		}

		writeJSON(w, http.StatusOK, rep)
		log.Info().
			Int("files", rep.Files).
			Int("pairs", rep.Pairs).
			Dur("elapsed", time.Since(start)).
			Msg("check done")
	}
}

// Progress — текущий снапшот; отсутствие файла или мусор внутри = нулевой
// прогресс, опрашивающему всегда 200.
func Progress(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, progress.Read(st.ProgressFile))
	}
}

// Results — сохранённая таблица как JSON.
func Results(logger zerolog.Logger, st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, ok := loadResults(w, logger, st)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

// ResultsCSV — таблица как есть, файлом.
func ResultsCSV(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := os.Open(st.ResultsCSV)
		if err != nil {
			if os.IsNotExist(err) {
				http.Error(w, "no results yet", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer f.Close()
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="similarity_results.csv"`)
		_, _ = io.Copy(w, f)
	}
}

// ResultsXLSX — таблица в XLSX.
func ResultsXLSX(logger zerolog.Logger, st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, ok := loadResults(w, logger, st)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := fileio.WriteResultsXLSX(&buf, rows); err != nil {
			logger.Error().Err(err).Msg("xlsx export")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="similarity_results.xlsx"`)
		_, _ = buf.WriteTo(w)
	}
}

// Summary — сводка по таблице: файлы, пары, максимум, пары >= 80%.
func Summary(logger zerolog.Logger, st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, ok := loadResults(w, logger, st)
		if !ok {
			return
		}
		files := make(map[string]struct{})
		sum := model.Summary{TotalPairs: len(rows)}
		for _, row := range rows {
			files[row.File1] = struct{}{}
			files[row.File2] = struct{}{}
			if row.Score > sum.MaxSimilarity {
				sum.MaxSimilarity = row.Score
			}
			if row.Score >= 80 {
				sum.HighPairs++
			}
		}
		sum.TotalFiles = len(files)
		writeJSON(w, http.StatusOK, sum)
	}
}

// TopMatches — топ-N пар по убыванию похожести (?n=, по умолчанию 10).
func TopMatches(logger zerolog.Logger, st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, ok := loadResults(w, logger, st)
		if !ok {
			return
		}
		n := atoi(r.URL.Query().Get("n"), 10)
		if n < 1 {
			n = 10
		}
		sorted := make([]model.Result, len(rows))
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
		if n < len(sorted) {
			sorted = sorted[:n]
		}
		writeJSON(w, http.StatusOK, sorted)
	}
}

// BestMatches — для каждого файла его максимальное совпадение
// (таблица «highest plagiarism match» из дашборда).
func BestMatches(logger zerolog.Logger, st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, ok := loadResults(w, logger, st)
		if !ok {
			return
		}
		best := make(map[string]model.BestMatch)
		note := func(file, other string, score float64) {
			if b, seen := best[file]; !seen || score > b.Score {
				best[file] = model.BestMatch{File: file, MatchedWith: other, Score: score}
			}
		}
		for _, row := range rows {
			note(row.File1, row.File2, row.Score)
			note(row.File2, row.File1, row.Score)
		}
		out := make([]model.BestMatch, 0, len(best))
		for _, b := range best {
			out = append(out, b)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Score != out[j].Score {
				return out[i].Score > out[j].Score
			}
			return out[i].File < out[j].File
		})
		writeJSON(w, http.StatusOK, out)
	}
}

// Highlight — нормализованные тексты пары и блоки совпадений для подсветки.
func Highlight(logger zerolog.Logger, svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := r.URL.Query().Get("a")
		b := r.URL.Query().Get("b")
		if a == "" || b == "" {
			http.Error(w, "params a and b are required", http.StatusBadRequest)
			return
		}
		detail, err := svc.ComparePair(a, b)
		if err != nil {
			if os.IsNotExist(err) {
				http.Error(w, "no preprocessed artifact for pair", http.StatusNotFound)
				return
			}
			lg := reqLogger(logger, r)
			lg.Error().Err(err).Str("a", a).Str("b", b).Msg("highlight")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}

// Clear — снести загрузки, артефакты, результаты и прогресс.
func Clear(logger zerolog.Logger, st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Clear(); err != nil {
			lg := reqLogger(logger, r)
			lg.Error().Err(err).Msg("clear")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	}
}
