package pipeline

import "testing"

func TestExtractInvoicesFromHTML(t *testing.T) {
	html := `
<html><body>
<h1>Order Export</h1>
<table>
  <tr><th>Invoice #</th><th>Customer</th><th>Delivery Method</th><th>Item</th><th>Qty</th><th>Color</th></tr>
  <tr><td>2001</td><td>Acme Homes</td><td>Pickup</td><td>Slider Window</td><td>2</td><td>White</td></tr>
  <tr><td>2001</td><td></td><td></td><td>Entry Door</td><td>1</td><td>Almond</td></tr>
  <tr><td>2002</td><td>Beta Builders</td><td>Delivery</td><td>Picture Window</td><td>4</td><td>White</td></tr>
</table>
</body></html>`

	invoices, err := ExtractInvoicesFromHTML(html)
	if err != nil {
		t.Fatal(err)
	}
	if len(invoices) != 2 {
		t.Fatalf("invoices=%d", len(invoices))
	}
	if invoices[0].OrderNo != "2001" || len(invoices[0].Items) != 2 {
		t.Fatalf("first invoice: %+v", invoices[0])
	}
	if invoices[0].Customer.Name != "Acme Homes" || invoices[0].DeliveryMethod != "Pickup" {
		t.Fatalf("header fields: %+v", invoices[0])
	}
	if invoices[1].Items[0].Quantity != "4" {
		t.Fatalf("second invoice item: %+v", invoices[1].Items[0])
	}
}

func TestExtractHTMLNoTables(t *testing.T) {
	invoices, err := ExtractInvoicesFromHTML("<html><body><p>nothing here</p></body></html>")
	if err != nil {
		t.Fatal(err)
	}
	if len(invoices) != 0 {
		t.Fatalf("invoices=%d", len(invoices))
	}
}
