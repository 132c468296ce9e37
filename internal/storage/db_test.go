package storage

import (
	"context"
	"path/filepath"
	"testing"

	"fabdesk/internal"
	"fabdesk/internal/catalog"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestCatalogRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	seed := catalog.SeedData{
		Items:           []internal.CatalogItem{{Name: "Slider Window", Type: internal.ItemTypeWindow}},
		Colors:          []internal.CatalogColor{{ColorName: "White"}},
		FrameStyles:     []internal.CatalogFrameStyle{{StyleName: "Vinyl"}},
		GlassOptions:    []internal.CatalogGlassOption{{GlassType: "tempered", OrderNeeded: true}},
		DeliveryMethods: []internal.CatalogDeliveryMethod{{Name: "Pickup"}},
	}
	if err := db.ReplaceCatalogs(ctx, seed); err != nil {
		t.Fatal(err)
	}

	snap, err := db.LoadCatalogSnapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := snap.LookupItem("slider window"); !ok {
		t.Fatal("seeded item missing")
	}
	if !snap.HasDeliveryMethod("PICKUP") {
		t.Fatal("seeded delivery method missing")
	}
	if _, ok := snap.GlassSpecialMatch("Tempered Low-E"); !ok {
		t.Fatal("seeded glass option missing")
	}

	// Re-seeding replaces, never appends.
	if err := db.ReplaceCatalogs(ctx, catalog.SeedData{}); err != nil {
		t.Fatal(err)
	}
	snap, err = db.LoadCatalogSnapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Items) != 0 || len(snap.DeliveryMethods) != 0 {
		t.Fatal("replace should clear old rows")
	}
}

func testInvoice(orderNo string) *internal.Invoice {
	inv := &internal.Invoice{}
	inv.OrderNo = orderNo
	inv.Customer = internal.CustomerInfo{Name: "Acme Homes"}
	inv.DeliveryMethod = "Pickup"
	inv.WDGSPString = "3/0/0/0/0"
	inv.TotalQuantity = 3
	return inv
}

func testUnits(n int) []internal.UnitRecord {
	units := make([]internal.UnitRecord, 0, n)
	for i := 1; i <= n; i++ {
		units = append(units, internal.UnitRecord{
			Name:             "Slider Window",
			Quantity:         "1",
			Width:            "36",
			Height:           "24",
			Color:            "White",
			UnitIndex:        i,
			OriginalQuantity: n,
		})
	}
	return units
}

func TestImportInvoiceAndDuplicates(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.ImportInvoice(ctx, testInvoice("1001"), testUnits(3)); err != nil {
		t.Fatal(err)
	}

	existing, err := db.ExistingOrderNumbers(ctx, []string{"1001", "1002"})
	if err != nil {
		t.Fatal(err)
	}
	if !existing["1001"] || existing["1002"] {
		t.Fatalf("existing = %+v", existing)
	}

	// UNIQUE(order_no) makes a second import fail without partial rows.
	if _, err := db.ImportInvoice(ctx, testInvoice("1001"), testUnits(1)); err == nil {
		t.Fatal("duplicate order_no insert should fail")
	}

	inv, err := db.GetInvoiceByOrderNo(ctx, "1001")
	if err != nil {
		t.Fatal(err)
	}
	if inv == nil || inv.CustomerName != "Acme Homes" || inv.WDGSP != "3/0/0/0/0" {
		t.Fatalf("stored invoice: %+v", inv)
	}

	units, err := db.ListUnits(ctx, inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 3 {
		t.Fatalf("units=%d", len(units))
	}
	if units[0].ParentItemID != nil {
		t.Fatal("first unit is the parent, no backlink")
	}
	for _, unit := range units[1:] {
		if unit.ParentItemID == nil || *unit.ParentItemID != units[0].ID {
			t.Fatalf("sibling parent link: %+v", unit)
		}
	}
}

func TestAssignBatch(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.ImportInvoice(ctx, testInvoice("1001"), testUnits(3)); err != nil {
		t.Fatal(err)
	}
	inv, err := db.GetInvoiceByOrderNo(ctx, "1001")
	if err != nil || inv == nil {
		t.Fatalf("invoice lookup: %v", err)
	}
	units, err := db.ListUnits(ctx, inv.ID)
	if err != nil {
		t.Fatal(err)
	}

	affected, err := db.AssignBatch(ctx, inv.ID, []int64{units[0].ID, units[2].ID}, "B-12")
	if err != nil {
		t.Fatal(err)
	}
	if affected != 2 {
		t.Fatalf("affected=%d", affected)
	}

	units, err = db.ListUnits(ctx, inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if units[0].BatchAssigned != "B-12" || units[1].BatchAssigned != "" || units[2].BatchAssigned != "B-12" {
		t.Fatalf("assignments: %q %q %q", units[0].BatchAssigned, units[1].BatchAssigned, units[2].BatchAssigned)
	}

	// Empty id list targets the whole invoice.
	affected, err = db.AssignBatch(ctx, inv.ID, nil, "B-13")
	if err != nil {
		t.Fatal(err)
	}
	if affected != 3 {
		t.Fatalf("affected=%d", affected)
	}
}

func TestExistingOrderNumbersEmptyInput(t *testing.T) {
	db := openTestDB(t)
	existing, err := db.ExistingOrderNumbers(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(existing) != 0 {
		t.Fatalf("existing = %+v", existing)
	}
}
