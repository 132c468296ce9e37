package pipeline

import (
	"testing"

	"fabdesk/internal"
)

func item(name, qty, color string) internal.CategorizedItem {
	return internal.CategorizedItem{RawItem: internal.RawItem{
		Name:     name,
		Quantity: qty,
		Width:    "36",
		Height:   "24",
		Color:    color,
		Frame:    "Vinyl",
	}}
}

func TestExpandUnits(t *testing.T) {
	units := ExpandUnits([]internal.CategorizedItem{item("Slider Window", "3", "White")})
	if len(units) != 3 {
		t.Fatalf("len=%d", len(units))
	}
	for i, unit := range units {
		if unit.Quantity != "1" {
			t.Fatalf("unit quantity = %q", unit.Quantity)
		}
		if unit.UnitIndex != i+1 {
			t.Fatalf("unit index = %d want %d", unit.UnitIndex, i+1)
		}
		if unit.OriginalQuantity != 3 {
			t.Fatalf("original quantity = %d", unit.OriginalQuantity)
		}
		if unit.ParentItemID != nil {
			t.Fatal("parent must stay nil before persistence")
		}
		if unit.BatchAssigned != "" {
			t.Fatal("fresh units start unassigned")
		}
	}
}

func TestExpandUnparseableQuantity(t *testing.T) {
	units := ExpandUnits([]internal.CategorizedItem{item("Slider Window", "tbd", "White")})
	if len(units) != 1 {
		t.Fatalf("len=%d", len(units))
	}
}

func TestExpandCollapseRoundTrip(t *testing.T) {
	items := []internal.CategorizedItem{
		item("Slider Window", "3", "White"),
		item("Slider Window", "2", "Beige"),
		item("Entry Door", "1", "White"),
	}

	collapsed := CollapseUnits(ExpandUnits(items))
	if len(collapsed) != 3 {
		t.Fatalf("groups=%d", len(collapsed))
	}

	wantQty := []int{3, 2, 1}
	for i, group := range collapsed {
		if group.Quantity != wantQty[i] {
			t.Fatalf("group %d quantity = %d want %d", i, group.Quantity, wantQty[i])
		}
		if group.Name != items[i].Name || group.Color != items[i].Color {
			t.Fatalf("group %d attributes drifted: %+v", i, group.UnitKey)
		}
		for _, batch := range group.BatchAssignments {
			if UnitAssigned(batch) {
				t.Fatal("freshly expanded units must be unassigned")
			}
		}
	}
}

func TestCollapseIgnoresUnitFields(t *testing.T) {
	units := ExpandUnits([]internal.CategorizedItem{item("Slider Window", "2", "White")})
	units[0].BatchAssigned = "B-1"
	units[1].BatchAssigned = "N/A"

	collapsed := CollapseUnits(units)
	if len(collapsed) != 1 {
		t.Fatalf("batch assignment must not split groups: %d", len(collapsed))
	}
	group := collapsed[0]
	if group.Quantity != 2 {
		t.Fatalf("quantity = %d", group.Quantity)
	}
	// Assignments stay raw, one per unit, so partial assignment is visible.
	if len(group.BatchAssignments) != 2 || group.BatchAssignments[0] != "B-1" || group.BatchAssignments[1] != "N/A" {
		t.Fatalf("batchAssignments = %+v", group.BatchAssignments)
	}
}

func TestUnitAssigned(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{value: "B-12", want: true},
		{value: "", want: false},
		{value: "   ", want: false},
		{value: "N/A", want: false},
		{value: " N/A ", want: false},
		{value: "n/a", want: true}, // the sentinel is exact
	}
	for _, tc := range cases {
		if got := UnitAssigned(tc.value); got != tc.want {
			t.Fatalf("UnitAssigned(%q) = %v want %v", tc.value, got, tc.want)
		}
	}
}

func TestComputeBatchStatus(t *testing.T) {
	units := ExpandUnits([]internal.CategorizedItem{item("Slider Window", "3", "White")})
	units[0].BatchAssigned = "B-1"
	units[1].BatchAssigned = "N/A"

	status := ComputeBatchStatus(units)
	if status.AssignedCount != 1 || status.TotalCount != 3 || status.AllAssigned {
		t.Fatalf("status = %+v", status)
	}

	units[1].BatchAssigned = "B-1"
	units[2].BatchAssigned = "B-2"
	status = ComputeBatchStatus(units)
	if !status.AllAssigned {
		t.Fatalf("status = %+v", status)
	}
}

func TestBatchStatusEmptyNotVacuouslyTrue(t *testing.T) {
	status := ComputeBatchStatus(nil)
	if status.AllAssigned {
		t.Fatal("zero units must not report allAssigned")
	}
	if status.TotalCount != 0 || status.AssignedCount != 0 {
		t.Fatalf("status = %+v", status)
	}
}
