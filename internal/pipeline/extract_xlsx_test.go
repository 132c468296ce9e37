package pipeline

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func mkXLSX(rows [][]any) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)
	return buf.Bytes()
}

func TestExtractInvoicesFromXLSX(t *testing.T) {
	blob := mkXLSX([][]any{
		{"Window Depot — Weekly Orders"},
		{"Invoice #", "PO Number", "Customer", "Order Date", "Delivery Method", "Shipping Address", "Item", "Qty", "W", "H", "FH", "Color", "Argon", "Glass", "Grid", "Frame"},
		{"1001", "PO-7", "Acme Homes", "01/02/2026", "Pickup", "", "Slider Window", "3", "35.5", "23.25", "P", "White", "YES", "Tempered Low-E", "Colonial", "Vinyl"},
		{"", "", "", "", "", "", "Picture Window", "1", "40", "30", "", "White", "", "", "", "Vinyl"},
		{"1002", "", "Beta Builders", "01/03/2026", "Delivery", "12 Main St", "Entry Door", "1", "36", "80", "", "Almond", "", "", "", "Steel"},
	})

	invoices, err := ExtractInvoicesFromXLSX(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(invoices) != 2 {
		t.Fatalf("invoices=%d", len(invoices))
	}

	first := invoices[0]
	if first.OrderNo != "1001" || first.PONumber != "PO-7" || first.Customer.Name != "Acme Homes" {
		t.Fatalf("header fields: %+v", first)
	}
	if first.DeliveryMethod != "Pickup" {
		t.Fatalf("deliveryMethod = %q", first.DeliveryMethod)
	}
	// Blank invoice cell inherits the previous row's invoice.
	if len(first.Items) != 2 {
		t.Fatalf("first invoice items=%d", len(first.Items))
	}

	item := first.Items[0]
	if item.Name != "Slider Window" || item.Quantity != "3" || item.Width != "35.5" || item.Height != "23.25" {
		t.Fatalf("item fields: %+v", item)
	}
	if item.AdditionalDimension != "P" || item.Argon != "YES" || item.GlassOption != "Tempered Low-E" || item.GridStyle != "Colonial" || item.Frame != "Vinyl" {
		t.Fatalf("item fields: %+v", item)
	}

	second := invoices[1]
	if second.OrderNo != "1002" || second.ShippingAddress != "12 Main St" || len(second.Items) != 1 {
		t.Fatalf("second invoice: %+v", second)
	}
}

func TestExtractNoHeaderRow(t *testing.T) {
	blob := mkXLSX([][]any{
		{"just", "some", "cells"},
		{"no", "invoice", "columns"},
	})
	invoices, err := ExtractInvoicesFromXLSX(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(invoices) != 0 {
		t.Fatalf("invoices=%d", len(invoices))
	}
}

func TestExtractSkipsEmptyItemRows(t *testing.T) {
	blob := mkXLSX([][]any{
		{"Invoice #", "Item", "Qty"},
		{"1001", "Slider Window", "2"},
		{"", "", ""},
		{"", "Screen", "1"},
	})
	invoices, err := ExtractInvoicesFromXLSX(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(invoices) != 1 || len(invoices[0].Items) != 2 {
		t.Fatalf("invoices: %+v", invoices)
	}
}
