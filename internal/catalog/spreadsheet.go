package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"dazhangman/internal/models"
)

const exportSheet = "Sheet1"

// ImportResult is the outcome of splitting a master spreadsheet by level
type ImportResult struct {
	Rows    map[models.Level][]Row
	Total   int
	Skipped []string
}

// ImportSpreadsheet reads a workbook (or csv) whose rows carry
// word, type, category and level, and groups them by level.
func ImportSpreadsheet(path string) (*ImportResult, error) {
	var records [][]string
	var err error
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		records, err = spreadsheetRecords(path)
	} else {
		records, err = readCSVRowsRaw(path)
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Rows: make(map[models.Level][]Row)}
	for i, record := range records {
		if i == 0 && isHeader(record) {
			continue
		}
		result.Total++
		row := rowFromFields(record)
		if row.Word == "" {
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: empty word", i+1))
			continue
		}
		levelName := ""
		if len(record) > 3 {
			levelName = record[3]
		}
		level, ok := models.ParseLevel(levelName)
		if !ok {
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: unknown level %q", i+1, levelName))
			continue
		}
		result.Rows[level] = append(result.Rows[level], row)
	}
	return result, nil
}

// WriteText writes rows as <dir>/<level>.txt in the word;type;category format
func WriteText(dir string, level models.Level, rows []Row) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create catalog directory: %w", err)
	}
	path := filepath.Join(dir, string(level)+".txt")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# %s word list\n", level)
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join([]string{row.Word, row.Type, row.Category}, textSeparator))
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// WriteSpreadsheet writes all levels into one workbook with a level column,
// the same layout ImportSpreadsheet reads.
func WriteSpreadsheet(path string, rows map[models.Level][]Row) error {
	f := excelize.NewFile()
	defer f.Close()

	header := []interface{}{"word", "type", "category", "level"}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	line := 2
	for _, level := range models.Levels {
		for _, row := range rows[level] {
			cell, err := excelize.CoordinatesToCellName(1, line)
			if err != nil {
				return err
			}
			values := []interface{}{row.Word, row.Type, row.Category, string(level)}
			if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
				return fmt.Errorf("failed to write row %d: %w", line, err)
			}
			line++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save spreadsheet: %w", err)
	}
	return nil
}

// ReadLevelRows returns the raw rows of every level present in dir
func ReadLevelRows(src *FileSource) (map[models.Level][]Row, error) {
	out := make(map[models.Level][]Row)
	for _, level := range models.Levels {
		p, _, err := src.path(level)
		if errors.Is(err, ErrCatalogUnavailable) {
			continue
		}
		if err != nil {
			return nil, err
		}
		rows, err := ReadRows(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		out[level] = rows
	}
	return out, nil
}
