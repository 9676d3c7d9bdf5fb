package handler

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"plagiarism-service/internal/fileio"
	"plagiarism-service/internal/middleware"
	"plagiarism-service/internal/plagiarism/model"
	"plagiarism-service/internal/plagiarism/store"
)

// reqLogger — логгер с req_id из контекста, если middleware его проставил.
func reqLogger(logger zerolog.Logger, r *http.Request) zerolog.Logger {
	if rid := middleware.GetRequestID(r); rid != "" {
		return logger.With().Str("req_id", rid).Logger()
	}
	return logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// loadResults — таблица из CSV; нет таблицы — 404, битая — 500.
// false = ответ уже записан.
func loadResults(w http.ResponseWriter, logger zerolog.Logger, st *store.Store) ([]model.Result, bool) {
	rows, err := fileio.ReadResultsCSV(st.ResultsCSV)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "no results yet", http.StatusNotFound)
			return nil, false
		}
		logger.Error().Err(err).Msg("read results")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return rows, true
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
