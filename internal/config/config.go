package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	LogFile      string
	DataDir      string // uploads/preprocessed/results/progress живут тут
	MaxUploadMB  int    // лимит тела запроса целиком
	MaxFileMB    int    // лимит одного загружаемого файла
	Workers      int    // размер пула; 0 = по числу ядер
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8082"))
	bodyMB, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "256"))
	fileMB, _ := strconv.Atoi(getenv("MAX_FILE_MB", "10"))
	workers, _ := strconv.Atoi(getenv("WORKERS", "0"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         port,
		AllowOrigins: origins,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFile:      getenv("LOG_FILE", "logs/plagiarism-service.log"),
		DataDir:      getenv("DATA_DIR", "data"),
		MaxUploadMB:  bodyMB,
		MaxFileMB:    fileMB,
		Workers:      workers,
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
