// Пакетный запуск пайплайна без HTTP: берёт уже лежащие в DATA_DIR/uploads
// файлы, прогоняет сравнение и пишет таблицу. Ненулевой код выхода при
// отсутствии каталога загрузок, нуле пригодных файлов и ошибке сохранения.
package main

import (
	"context"
	"flag"
	"os"

	"plagiarism-service/internal/config"
	"plagiarism-service/internal/plagiarism/service"
	"plagiarism-service/internal/plagiarism/store"
)

func main() {
	cfg := config.Load()
	dataDir := flag.String("data", cfg.DataDir, "каталог с uploads/")
	workers := flag.Int("workers", cfg.Workers, "размер пула (0 = по числу ядер)")
	flag.Parse()

	logger := config.SetupLogger(cfg)

	st := store.New(*dataDir)
	if _, err := os.Stat(st.UploadDir); err != nil {
		logger.Error().Err(err).Str("dir", st.UploadDir).Msg("upload dir missing")
		os.Exit(1)
	}
	if err := st.EnsureDirs(); err != nil {
		logger.Error().Err(err).Msg("init data dirs")
		os.Exit(1)
	}

	svc := service.New(st, logger, *workers)
	rep, err := svc.Run(context.Background())
	if err != nil {
		logger.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}

	logger.Info().
		Int("files", rep.Files).
		Int("pairs", rep.Pairs).
		Str("results", st.ResultsCSV).
		Msg("batch done")
}
