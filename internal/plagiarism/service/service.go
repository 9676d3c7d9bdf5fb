package service

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"plagiarism-service/internal/fileio"
	"plagiarism-service/internal/plagiarism/model"
	"plagiarism-service/internal/plagiarism/store"
	"plagiarism-service/internal/progress"
)

// Имена этапов в снапшоте прогресса.
const (
	StagePreprocess = "preprocessing"
	StageCompare    = "comparison"
	StageSave       = "saving_csv"
	StageError      = "error"
)

var ErrNoFiles = fmt.Errorf("no files preprocessed successfully")

// Service — пайплайн целиком: препроцессинг → пары → скоринг → таблица.
type Service struct {
	st      *store.Store
	log     zerolog.Logger
	workers int
}

func New(st *store.Store, log zerolog.Logger, workers int) *Service {
	return &Service{st: st, log: log, workers: workers}
}

func (s *Service) pool() int {
	if s.workers > 0 {
		return s.workers
	}
	return runtime.NumCPU()
}

// Run — один прогон по текущему содержимому каталога загрузок.
//
// Два пула работают строго последовательно: сначала по файлам, потом по
// парам. Ошибка нормализации одного файла даёт «дырку» и не валит этап;
// ошибка скоринга валит прогон целиком (политика единая для всех пар).
// Прогресс пишет только эта горутина, между пулами.
func (s *Service) Run(ctx context.Context) (model.RunReport, error) {
	rep := progress.NewReporter(s.st.ProgressFile, s.log)

	uploads, err := s.st.ListUploads()
	if err != nil {
		rep.Report(StageError, 0, 0)
		return model.RunReport{}, err
	}
	// файлы вне поддерживаемого набора молча не участвуют
	files := make([]string, 0, len(uploads))
	for _, n := range uploads {
		if SupportedExt(n) {
			files = append(files, n)
		}
	}

	var metrics []model.StageMetric

	// --- этап 1: нормализация, пул по файлам ---
	rep.Report(StagePreprocess, 0, len(files))
	stageStart := time.Now()

	ok := make([]bool, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.pool())
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			raw, err := s.st.ReadUpload(name)
			if err != nil {
				s.log.Error().Err(err).Str("file", name).Msg("preprocess: read")
				return nil
			}
			text := Normalize(raw, DialectFor(name))
			if err := s.st.WriteArtifact(name, text); err != nil {
				s.log.Error().Err(err).Str("file", name).Msg("preprocess: write artifact")
				return nil
			}
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait() // таски возвращают ошибку только при отмене контекста
	if err := ctx.Err(); err != nil {
		rep.Report(StageError, 0, 0)
		return model.RunReport{}, err
	}

	var survivors, failed []string
	for i, name := range files {
		if ok[i] {
			survivors = append(survivors, name)
		} else {
			failed = append(failed, name)
		}
	}
	p := rep.Report(StagePreprocess, len(survivors), len(files))
	metrics = append(metrics, model.StageMetric{
		Stage:          StagePreprocess,
		ElapsedSeconds: time.Since(stageStart).Seconds(),
		CPUPercent:     p.CPUPercent,
	})

	if len(survivors) == 0 {
		rep.Report(StageError, 0, 0)
		return model.RunReport{Failed: failed}, ErrNoFiles
	}

	// --- этап 2: скоринг, пул по парам ---
	// все C(n,2) пары в порядке сочетаний по отсортированному списку;
	// кто раньше в списке — тот File1
	n := len(survivors)
	pairs := make([][2]string, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, [2]string{survivors[i], survivors[j]})
		}
	}

	rep.Report(StageCompare, 0, len(pairs))
	stageStart = time.Now()

	rows := make([]model.Result, len(pairs))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(s.pool())
	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t1, err := s.st.ReadArtifact(pair[0])
			if err != nil {
				return fmt.Errorf("pair %s vs %s: %w", pair[0], pair[1], err)
			}
			t2, err := s.st.ReadArtifact(pair[1])
			if err != nil {
				return fmt.Errorf("pair %s vs %s: %w", pair[0], pair[1], err)
			}
			score, _ := Score(t1, t2)
			rows[i] = model.Result{File1: pair[0], File2: pair[1], Score: score}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		rep.Report(StageError, 0, 0)
		return model.RunReport{}, fmt.Errorf("comparison: %w", err)
	}
	p = rep.Report(StageCompare, len(pairs), len(pairs))
	metrics = append(metrics, model.StageMetric{
		Stage:          StageCompare,
		ElapsedSeconds: time.Since(stageStart).Seconds(),
		CPUPercent:     p.CPUPercent,
	})

	// --- этап 3: таблица результатов ---
	rep.Report(StageSave, 0, 1)
	stageStart = time.Now()
	if err := fileio.WriteResultsCSV(s.st.ResultsCSV, rows); err != nil {
		rep.Report(StageError, 0, 0)
		return model.RunReport{}, fmt.Errorf("save results: %w", err)
	}
	p = rep.Report(StageSave, 1, 1)
	metrics = append(metrics, model.StageMetric{
		Stage:          StageSave,
		ElapsedSeconds: time.Since(stageStart).Seconds(),
		CPUPercent:     p.CPUPercent,
	})

	s.log.Info().
		Int("files", len(survivors)).
		Int("failed", len(failed)).
		Int("pairs", len(pairs)).
		Msg("run done")

	return model.RunReport{
		Files:   len(survivors),
		Pairs:   len(pairs),
		Rows:    rows,
		Failed:  failed,
		Metrics: metrics,
	}, nil
}

// ComparePair — пара с блоками совпадений для подсветки. Читает уже
// нормализованные артефакты, скоринг такой же, как в прогоне.
func (s *Service) ComparePair(file1, file2 string) (model.PairDetail, error) {
	t1, err := s.st.ReadArtifact(file1)
	if err != nil {
		return model.PairDetail{}, err
	}
	t2, err := s.st.ReadArtifact(file2)
	if err != nil {
		return model.PairDetail{}, err
	}
	score, blocks := Score(t1, t2)
	return model.PairDetail{
		File1:  file1,
		File2:  file2,
		Score:  score,
		Text1:  t1,
		Text2:  t2,
		Blocks: blocks,
	}, nil
}
