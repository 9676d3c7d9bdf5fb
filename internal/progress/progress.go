package progress

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/cpu"

	"plagiarism-service/internal/plagiarism/model"
)

// Интервал замера загрузки CPU при записи снапшота.
const cpuSampleInterval = 200 * time.Millisecond

// Reporter — единственный писатель снапшота прогресса. Пишется только
// оркестратором между этапами, воркеры сюда не ходят.
type Reporter struct {
	path  string
	start time.Time
	log   zerolog.Logger
}

func NewReporter(path string, log zerolog.Logger) *Reporter {
	return &Reporter{path: path, start: time.Now(), log: log}
}

// Report — перезаписать снапшот целиком и вернуть записанное. Ошибка записи
// не валит прогон, прогресс — вспомогательная информация.
func (r *Reporter) Report(stage string, completed, total int) model.Progress {
	usage, cores := CPUSample()
	p := model.Progress{
		Stage:          stage,
		CompletedPairs: completed,
		TotalPairs:     total,
		ElapsedSeconds: time.Since(r.start).Seconds(),
		CPUPercent:     usage,
		CPUCores:       cores,
	}
	b, err := json.Marshal(p)
	if err == nil {
		err = atomicWrite(r.path, b)
	}
	if err != nil {
		r.log.Warn().Err(err).Str("stage", stage).Msg("write progress")
	}
	return p
}

// Read — текущий снапшот. Нет файла или в нём мусор (читатель мог застать
// старый формат) — отдаём нулевой прогресс, а не ошибку.
func Read(path string) model.Progress {
	var p model.Progress
	b, err := os.ReadFile(path)
	if err != nil {
		return model.Progress{}
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return model.Progress{}
	}
	return p
}

// CPUSample — загрузка CPU в процентах и число логических ядер.
func CPUSample() (float64, int) {
	cores, err := cpu.Counts(true)
	if err != nil || cores <= 0 {
		cores = runtime.NumCPU()
	}
	percs, err := cpu.Percent(cpuSampleInterval, false)
	if err != nil || len(percs) == 0 {
		return 0, cores
	}
	return percs[0], cores
}

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
