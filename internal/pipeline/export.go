package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"fabdesk/internal"
)

var exportHeaders = []string{"Customer", "ID", "Style", "W", "H", "FH", "Frame", "Glass", "Argon", "Grid", "Color"}

// ExportUnitsToXLSX writes selected units one row per unit with the
// fixed production-sheet column set.
func ExportUnitsToXLSX(customer string, units []internal.UnitRecord, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}

	for i, unit := range units {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, customer)
		set(2, unit.ID)
		set(3, unit.Name)
		set(4, unit.Width)
		set(5, unit.Height)
		set(6, unit.AdditionalDimension)
		set(7, unit.Frame)
		set(8, unit.GlassOption)
		set(9, argonCell(unit.Argon))
		set(10, unit.GridStyle)
		set(11, unit.Color)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

// argonCell renders "Argon" only for the exact stored value "YES"; the
// production sheet treats every other spelling as no argon.
func argonCell(value string) string {
	if value == "YES" {
		return "Argon"
	}
	return ""
}
