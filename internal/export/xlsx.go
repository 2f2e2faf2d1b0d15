// File path: internal/export/xlsx.go
package export

import (
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/nicodishanthj/xcgen/internal/testcase"
)

const (
	sheetName   = "Sheet1"
	headerColor = "FFFF00"
	// stepsColumn is the 1-based column of Execution Steps.
	stepsColumn = 6
)

// WriteXLSX renders a single sheet: a yellow header row and one row per case.
// Each column is as wide as its longest cell plus two.
func WriteXLSX(w io.Writer, cases []testcase.TestCase) error {
	f := excelize.NewFile()
	defer f.Close()

	rows := make([][]string, 0, len(cases)+1)
	rows = append(rows, testcase.ExportLabels)
	for _, tc := range cases {
		rows = append(rows, tc.ExportValues())
	}
	widths := make([]int, len(testcase.ExportLabels))
	for r, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(values))
		for i, v := range values {
			row[i] = v
			if n := utf8.RuneCountInString(v); n > widths[i] {
				widths[i] = n
			}
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", r+1, err)
		}
	}
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		// Excel rejects widths past 255 characters; wrapped cells carry the rest.
		if err := f.SetColWidth(sheetName, col, col, math.Min(float64(width+2), excelize.MaxColumnWidth)); err != nil {
			return fmt.Errorf("set width %s: %w", col, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerColor}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(testcase.ExportLabels), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	if len(cases) > 0 {
		stepsStyle, err := f.NewStyle(&excelize.Style{
			Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		})
		if err != nil {
			return fmt.Errorf("steps style: %w", err)
		}
		first, err := excelize.CoordinatesToCellName(stepsColumn, 2)
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(stepsColumn, len(cases)+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, first, last, stepsStyle); err != nil {
			return fmt.Errorf("apply steps style: %w", err)
		}
	}
	return f.Write(w)
}
