package ingest

// reader.go turns a file on disk into raw rows. CSV goes through
// encoding/csv with lenient settings; OOXML workbooks go through
// excelize and legacy BIFF workbooks through extrame/xls, first sheet
// only. Vendor exports are small enough to read whole.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/evidence-tools/phonedb/internal/core"
)

// ValidFileType reports whether the path has a supported extension.
func ValidFileType(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx", ".xls":
		return true
	}
	return false
}

// readRows reads the whole file as raw string rows. maxSize of zero
// disables the size check.
func readRows(path string, maxSize int64) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return readCSV(path, maxSize)
	case ".xlsx":
		return readExcel(path, maxSize)
	case ".xls":
		return readXLS(path, maxSize)
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedFileType, ext)
	}
}

func checkSize(path string, maxSize int64) error {
	if maxSize <= 0 {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if info.Size() > maxSize {
		return fmt.Errorf("file exceeds %d byte limit", maxSize)
	}
	return nil
}

func readCSV(path string, maxSize int64) ([][]string, error) {
	if err := checkSize(path, maxSize); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	data = sanitizeUTF8(data)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

func readExcel(path string, maxSize int64) ([][]string, error) {
	if err := checkSize(path, maxSize); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	iter, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	defer iter.Close()

	var rows [][]string
	for iter.Next() {
		row, err := iter.Columns()
		if err != nil {
			return nil, fmt.Errorf("read row in sheet %s: %w", sheets[0], err)
		}
		rows = append(rows, row)
	}
	return rows, iter.Error()
}

// readXLS reads a legacy BIFF workbook. Excelize only parses OOXML
// containers, so the old binary format gets its own reader.
func readXLS(path string, maxSize int64) ([][]string, error) {
	if err := checkSize(path, maxSize); err != nil {
		return nil, err
	}

	wb, closer, err := xls.OpenWithCloser(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls workbook: %w", err)
	}
	defer closer.Close()

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("workbook has no sheets")
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// sanitizeUTF8 replaces invalid byte sequences with the replacement rune
// so downstream string handling is safe.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}
	return buf.Bytes()
}
