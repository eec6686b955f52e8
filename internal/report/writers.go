package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

func writeCSV(w io.Writer, t *table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.header); err != nil {
		return err
	}

	record := make([]string, len(t.header))
	for _, row := range t.rows {
		for i, cell := range row {
			record[i] = fmt.Sprint(cell)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, t *table) error {
	f := excelize.NewFile()
	defer f.Close()

	// rename the default sheet instead of adding a second one
	if err := f.SetSheetName("Sheet1", t.sheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	for i, name := range t.header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(t.sheet, cell, name); err != nil {
			return err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(t.sheet, col, col, 18); err != nil {
			return err
		}
	}

	last, _ := excelize.CoordinatesToCellName(len(t.header), 1)
	if err := f.SetCellStyle(t.sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for r, row := range t.rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}
