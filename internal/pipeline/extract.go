package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"fabdesk/internal"
	"fabdesk/internal/util"
)

// maxHeaderScan bounds how deep into a sheet the header row is searched.
// Fabricator exports sometimes carry a title/logo block above the grid.
const maxHeaderScan = 10

// columnMap holds resolved column indexes, -1 when absent.
type columnMap struct {
	orderNo             int
	poNumber            int
	customerName        int
	phone               int
	customerAddress     int
	orderDate           int
	dueDate             int
	deliveryDate        int
	deliveryMethod      int
	paidStatus          int
	shippingAddress     int
	name                int
	quantity            int
	width               int
	height              int
	additionalDimension int
	color               int
	argon               int
	glassOption         int
	gridStyle           int
	frame               int
}

// mapColumns resolves header cells to fields by substring match, most
// specific fields first so generic keywords ("address", "style") cannot
// steal a column already claimed by a specific one.
func mapColumns(headers []string) columnMap {
	claimed := map[int]bool{}
	find := func(keys ...string) int {
		idx := findHeaderIndex(headers, claimed, keys)
		if idx >= 0 {
			claimed[idx] = true
		}
		return idx
	}

	cols := columnMap{}
	cols.shippingAddress = find("shipping address", "ship to", "shipping")
	cols.deliveryDate = find("delivery date")
	cols.deliveryMethod = find("delivery method", "ship via", "delivery")
	cols.orderDate = find("order date")
	cols.dueDate = find("due")
	cols.paidStatus = find("paid")
	cols.orderNo = find("invoice", "order no", "order #", "order number")
	cols.poNumber = find("po number", "po #", "po")
	cols.customerName = find("customer")
	cols.phone = find("phone")
	cols.customerAddress = find("address")
	cols.quantity = find("qty", "quantity", "count")
	cols.width = find("width", "w")
	cols.height = find("height", "h")
	cols.additionalDimension = find("p/v", "fh", "additional")
	cols.color = find("color", "colour")
	cols.argon = find("argon")
	cols.gridStyle = find("grid")
	cols.glassOption = find("glass")
	cols.frame = find("frame")
	cols.name = find("item", "style", "product", "description")
	return cols
}

// findHeaderIndex mirrors the matching rule used across the import
// screens: substring for real words, exact match for one- and two-letter
// headers like "W" and "H".
func findHeaderIndex(headers []string, claimed map[int]bool, keys []string) int {
	for i, header := range headers {
		if claimed[i] {
			continue
		}
		for _, key := range keys {
			if len(key) <= 2 {
				if header == key {
					return i
				}
				continue
			}
			if strings.Contains(header, key) {
				return i
			}
		}
	}
	return -1
}

func foldCells(cells []string) []string {
	out := make([]string, 0, len(cells))
	for _, cell := range cells {
		out = append(out, util.FoldKey(util.NormalizeCell(cell)))
	}
	return out
}

func pickCell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return util.NormalizeCell(cells[idx])
}

func fillIfEmpty(dst *string, value string) {
	if *dst == "" && value != "" {
		*dst = value
	}
}

// invoicesFromGrid turns one cell grid into raw invoices: locate the
// header row, map columns, then group item rows by the invoice-number
// column. A blank invoice cell inherits the previous row's invoice, the
// usual merged-cell layout of these exports.
func invoicesFromGrid(source internal.InvoiceSource, rows [][]string) []internal.RawInvoice {
	headerIdx := -1
	var cols columnMap
	for i := 0; i < len(rows) && i < maxHeaderScan; i++ {
		candidate := mapColumns(foldCells(rows[i]))
		if candidate.orderNo >= 0 && (candidate.name >= 0 || candidate.quantity >= 0) {
			headerIdx = i
			cols = candidate
			break
		}
	}
	if headerIdx < 0 {
		return nil
	}

	out := []internal.RawInvoice{}
	byOrderNo := map[string]int{}
	currentNo := ""

	for _, row := range rows[headerIdx+1:] {
		orderNo := pickCell(row, cols.orderNo)
		if orderNo == "" {
			orderNo = currentNo
		}
		if orderNo == "" {
			continue
		}
		currentNo = orderNo

		idx, ok := byOrderNo[orderNo]
		if !ok {
			out = append(out, internal.RawInvoice{Source: source, OrderNo: orderNo, Items: []internal.RawItem{}})
			idx = len(out) - 1
			byOrderNo[orderNo] = idx
		}
		inv := &out[idx]

		fillIfEmpty(&inv.PONumber, pickCell(row, cols.poNumber))
		fillIfEmpty(&inv.Customer.Name, pickCell(row, cols.customerName))
		fillIfEmpty(&inv.Customer.Phone, pickCell(row, cols.phone))
		fillIfEmpty(&inv.Customer.Address, pickCell(row, cols.customerAddress))
		fillIfEmpty(&inv.OrderDate, pickCell(row, cols.orderDate))
		fillIfEmpty(&inv.DueDate, pickCell(row, cols.dueDate))
		fillIfEmpty(&inv.DeliveryDate, pickCell(row, cols.deliveryDate))
		fillIfEmpty(&inv.DeliveryMethod, pickCell(row, cols.deliveryMethod))
		fillIfEmpty(&inv.PaidStatus, pickCell(row, cols.paidStatus))
		fillIfEmpty(&inv.ShippingAddress, pickCell(row, cols.shippingAddress))

		item := internal.RawItem{
			Name:                pickCell(row, cols.name),
			Quantity:            pickCell(row, cols.quantity),
			Width:               pickCell(row, cols.width),
			Height:              pickCell(row, cols.height),
			AdditionalDimension: pickCell(row, cols.additionalDimension),
			Color:               pickCell(row, cols.color),
			Argon:               pickCell(row, cols.argon),
			GlassOption:         pickCell(row, cols.glassOption),
			GridStyle:           pickCell(row, cols.gridStyle),
			Frame:               pickCell(row, cols.frame),
		}
		if item.Name == "" && item.Quantity == "" {
			continue
		}
		inv.Items = append(inv.Items, item)
	}

	return out
}

// ExtractInvoicesFromXLSX reads every sheet of an invoice export.
func ExtractInvoicesFromXLSX(blob []byte) ([]internal.RawInvoice, error) {
	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := []internal.RawInvoice{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		out = append(out, invoicesFromGrid(internal.SourceXLSX, rows)...)
	}
	return out, nil
}

// ExtractInvoicesFromFile dispatches on extension: .xlsx/.xls sheets or
// .html/.htm portal exports.
func ExtractInvoicesFromFile(path string) ([]internal.RawInvoice, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return ExtractInvoicesFromXLSX(blob)
	case ".html", ".htm":
		return ExtractInvoicesFromHTML(string(blob))
	default:
		return nil, fmt.Errorf("unsupported input type: %s", path)
	}
}
