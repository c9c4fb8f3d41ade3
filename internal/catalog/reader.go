package catalog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const textSeparator = ";"

// ReadRows reads a word list in any supported format, chosen by extension
func ReadRows(path string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readSpreadsheetRows(path)
	case ".csv":
		return readCSVRows(path)
	default:
		return readTextRows(path)
	}
}

// readTextRows parses "word;type;category" lines. Blank lines and lines
// starting with # are ignored.
func readTextRows(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseText(f)
}

func parseText(r io.Reader) ([]Row, error) {
	var rows []Row
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rows = append(rows, rowFromFields(strings.Split(line, textSeparator)))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	return rows, nil
}

func readCSVRows(path string) ([]Row, error) {
	records, err := readCSVRowsRaw(path)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(records))
	for i, record := range records {
		if i == 0 && isHeader(record) {
			continue
		}
		rows = append(rows, rowFromFields(record))
	}
	return rows, nil
}

func readCSVRowsRaw(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var records [][]string
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func readSpreadsheetRows(path string) ([]Row, error) {
	records, err := spreadsheetRecords(path)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(records))
	for i, record := range records {
		if i == 0 && isHeader(record) {
			continue
		}
		rows = append(rows, rowFromFields(record))
	}
	return rows, nil
}

// spreadsheetRecords returns all rows of the first sheet
func spreadsheetRecords(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", path)
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return records, nil
}

func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return first == "word" || first == "wort"
}

func rowFromFields(fields []string) Row {
	get := func(i int) string {
		if i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}
	return Row{Word: get(0), Type: get(1), Category: get(2)}
}
