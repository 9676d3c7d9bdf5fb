package model

// Dialect — закрытый набор правил очистки исходника (по расширению файла).
type Dialect int

const (
	DialectGeneric Dialect = iota // без специфичных правил, только канонизация
	DialectPython
	DialectCpp
	DialectJava
)

func (d Dialect) String() string {
	switch d {
	case DialectPython:
		return "python"
	case DialectCpp:
		return "cpp"
	case DialectJava:
		return "java"
	default:
		return "generic"
	}
}

// Match — блок совпадения: смещение в A, смещение в B, длина.
type Match struct {
	A    int `json:"a"`
	B    int `json:"b"`
	Size int `json:"size"`
}

// Result — строка итоговой таблицы. Порядок колонок фиксирован:
// File1, File2, Similarity % (A/B — порядок генерации пар, не ранжирование).
type Result struct {
	File1 string  `json:"file1"`
	File2 string  `json:"file2"`
	Score float64 `json:"score"` // проценты, два знака
}

// PairDetail — пара с нормализованными текстами и блоками совпадений
// (для подсветки; в таблицу не сохраняется).
type PairDetail struct {
	File1  string  `json:"file1"`
	File2  string  `json:"file2"`
	Score  float64 `json:"score"`
	Text1  string  `json:"text1"`
	Text2  string  `json:"text2"`
	Blocks []Match `json:"blocks"`
}

// Progress — единственный снапшот прогресса, перезаписывается целиком.
type Progress struct {
	Stage          string  `json:"stage"`
	CompletedPairs int     `json:"completed_pairs"`
	TotalPairs     int     `json:"total_pairs"`
	ElapsedSeconds float64 `json:"elapsed_time_seconds"`
	CPUPercent     float64 `json:"cpu_usage_percent"`
	CPUCores       int     `json:"cpu_cores_used"`
}

// StageMetric — время и CPU по этапу (метрики из дашборда).
type StageMetric struct {
	Stage          string  `json:"stage"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	CPUPercent     float64 `json:"cpu_percent"`
}

// RunReport — итог одного прогона пайплайна.
type RunReport struct {
	Files   int           `json:"files"`   // успешно нормализовано
	Pairs   int           `json:"pairs"`   // C(n,2)
	Rows    []Result      `json:"rows"`
	Failed  []string      `json:"failed,omitempty"` // файлы, не прошедшие нормализацию
	Metrics []StageMetric `json:"metrics"`
}

// Summary — сводка по таблице результатов.
type Summary struct {
	TotalFiles    int     `json:"total_files"`
	TotalPairs    int     `json:"total_pairs"`
	MaxSimilarity float64 `json:"max_similarity"`
	HighPairs     int     `json:"high_similarity_pairs"` // >= 80%
}

// BestMatch — для каждого файла его максимальное совпадение.
type BestMatch struct {
	File        string  `json:"file"`
	MatchedWith string  `json:"matched_with"`
	Score       float64 `json:"score"`
}
