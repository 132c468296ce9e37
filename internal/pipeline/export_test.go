package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"fabdesk/internal"
)

func TestExportUnitsToXLSX(t *testing.T) {
	units := []internal.UnitRecord{
		{ID: 11, Name: "Slider Window", Width: "35.5", Height: "23.25", AdditionalDimension: "P", Frame: "Vinyl", GlassOption: "Tempered", Argon: "YES", GridStyle: "Colonial", Color: "White"},
		{ID: 12, Name: "Slider Window", Width: "35.5", Height: "23.25", Frame: "Vinyl", Argon: "yes", Color: "White"},
		{ID: 13, Name: "Entry Door", Width: "36", Height: "80", Frame: "Steel", Argon: "", Color: "Almond"},
	}

	path := filepath.Join(t.TempDir(), "units.xlsx")
	if err := ExportUnitsToXLSX("Acme Homes", units, path); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sheet := f.GetSheetName(0)

	header, _ := f.GetCellValue(sheet, "A1")
	if header != "Customer" {
		t.Fatalf("header = %q", header)
	}

	customer, _ := f.GetCellValue(sheet, "A2")
	style, _ := f.GetCellValue(sheet, "C2")
	if customer != "Acme Homes" || style != "Slider Window" {
		t.Fatalf("row: customer=%q style=%q", customer, style)
	}

	// Argon renders only for the exact stored value "YES".
	argon1, _ := f.GetCellValue(sheet, "I2")
	argon2, _ := f.GetCellValue(sheet, "I3")
	argon3, _ := f.GetCellValue(sheet, "I4")
	if argon1 != "Argon" {
		t.Fatalf("argon1 = %q", argon1)
	}
	if argon2 != "" || argon3 != "" {
		t.Fatalf("argon2=%q argon3=%q", argon2, argon3)
	}
}
