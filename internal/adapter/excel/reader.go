// Package excel reads catalog words from spreadsheet workbooks.
package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Header names recognized in the first row of the sheet. Matching ignores
// case, spaces and underscores.
const (
	ColumnWord          = "word"
	ColumnDefinition    = "definition"
	ColumnImageURL      = "imageurl"
	ColumnDistractors   = "distractors"
	ColumnCorrectOption = "correctoption"
	ColumnUnit          = "unit"
	ColumnLesson        = "lesson"
)

// distractorPrefix matches numbered columns such as "distractor 1".
const distractorPrefix = "distractor"

// Row is one non-empty data row of the sheet.
type Row struct {
	Line          int
	Word          string
	Definition    string
	ImageURL      string
	Distractors   []string
	CorrectOption string
	Unit          string
	Lesson        string
}

// Config selects what to read from the workbook.
type Config struct {
	// SheetName defaults to the first sheet.
	SheetName string
	// DistractorSeparator splits a combined distractors cell. Default ";".
	DistractorSeparator string
}

// ReadRows parses the workbook in r. The first row must be a header naming
// at least the word and definition columns.
func ReadRows(r io.Reader, cfg Config) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	sep := cfg.DistractorSeparator
	if sep == "" {
		sep = ";"
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return []Row{}, nil
	}

	cols, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	out := make([]Row, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		row := Row{
			Line:          i + 2,
			Word:          cell(cells, cols.single[ColumnWord]),
			Definition:    cell(cells, cols.single[ColumnDefinition]),
			ImageURL:      cell(cells, cols.single[ColumnImageURL]),
			CorrectOption: cell(cells, cols.single[ColumnCorrectOption]),
			Unit:          cell(cells, cols.single[ColumnUnit]),
			Lesson:        cell(cells, cols.single[ColumnLesson]),
		}
		if combined := cell(cells, cols.single[ColumnDistractors]); combined != "" {
			for _, d := range strings.Split(combined, sep) {
				if d = strings.TrimSpace(d); d != "" {
					row.Distractors = append(row.Distractors, d)
				}
			}
		}
		for _, idx := range cols.distractors {
			if d := cell(cells, idx); d != "" {
				row.Distractors = append(row.Distractors, d)
			}
		}
		out = append(out, row)
	}
	return out, nil
}

type columns struct {
	single      map[string]int
	distractors []int
}

func mapHeader(header []string) (columns, error) {
	cols := columns{single: map[string]int{
		ColumnWord: -1, ColumnDefinition: -1, ColumnImageURL: -1, ColumnDistractors: -1,
		ColumnCorrectOption: -1, ColumnUnit: -1, ColumnLesson: -1,
	}}
	for i, h := range header {
		name := normalize(h)
		if _, ok := cols.single[name]; ok {
			cols.single[name] = i
			continue
		}
		if strings.HasPrefix(name, distractorPrefix) && name != ColumnDistractors {
			cols.distractors = append(cols.distractors, i)
		}
	}

	var missing []string
	for _, required := range []string{ColumnWord, ColumnDefinition} {
		if cols.single[required] < 0 {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return columns{}, fmt.Errorf("header is missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func normalize(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
