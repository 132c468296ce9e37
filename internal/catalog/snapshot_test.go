package catalog

import (
	"testing"

	"fabdesk/internal"
)

func TestSnapshotLookups(t *testing.T) {
	snap := NewSnapshot(
		[]internal.CatalogItem{{Name: "Slider Window", Type: internal.ItemTypeWindow}},
		[]internal.CatalogColor{{ColorName: "White"}},
		[]internal.CatalogFrameStyle{{StyleName: "Vinyl"}},
		nil,
		[]internal.CatalogDeliveryMethod{{Name: "Pickup"}},
	)

	if _, ok := snap.LookupItem("SLIDER WINDOW"); !ok {
		t.Fatal("item lookup should be case-insensitive")
	}
	if _, ok := snap.LookupItem(" slider window "); !ok {
		t.Fatal("item lookup should trim")
	}
	if _, ok := snap.LookupItem("Casement"); ok {
		t.Fatal("unexpected match")
	}
	if !snap.HasColor("white") || !snap.HasFrameStyle("VINYL") || !snap.HasDeliveryMethod("pickup") {
		t.Fatal("name lookups should be case-insensitive")
	}
}

func TestGlassSpecialMatch(t *testing.T) {
	snap := NewSnapshot(nil, nil, nil, []internal.CatalogGlassOption{
		{GlassType: "obscure", OrderNeeded: false},
		{GlassType: "tempered", OrderNeeded: true},
	}, nil)

	if _, ok := snap.GlassSpecialMatch("Low-E Tempered"); !ok {
		t.Fatal("substring match on order_needed glass should hit")
	}
	// obscure matches by substring but is not order_needed
	if _, ok := snap.GlassSpecialMatch("Obscure"); ok {
		t.Fatal("non order_needed glass must not match")
	}
	if _, ok := snap.GlassSpecialMatch("clear"); ok {
		t.Fatal("unexpected match")
	}
}
