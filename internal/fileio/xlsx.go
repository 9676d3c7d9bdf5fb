package fileio

import (
	"io"

	excelize "github.com/xuri/excelize/v2"

	"plagiarism-service/internal/plagiarism/model"
)

// WriteResultsXLSX — та же таблица результатов в XLSX (выгрузка для отчётов).
func WriteResultsXLSX(w io.Writer, rows []model.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]any, len(ResultsHeader))
	for i, h := range ResultsHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]any{r.File1, r.File2, r.Score}); err != nil {
			return err
		}
	}
	return f.Write(w)
}
