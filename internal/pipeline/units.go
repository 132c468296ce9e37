package pipeline

import (
	"strings"

	"fabdesk/internal"
	"fabdesk/internal/util"
)

// ExpandUnits converts line items into one record per physical unit.
// Batch assignment downstream operates per unit, not per line. Quantity
// is forced to 1 on every unit; the original line quantity is kept for
// traceability. ParentItemID stays nil until the persistence layer knows
// the first unit's row id.
func ExpandUnits(items []internal.CategorizedItem) []internal.UnitRecord {
	out := make([]internal.UnitRecord, 0, len(items))
	for _, item := range items {
		count := util.UnitCount(item.Quantity)
		for index := 1; index <= count; index++ {
			out = append(out, internal.UnitRecord{
				Name:                item.Name,
				Quantity:            "1",
				Width:               item.Width,
				Height:              item.Height,
				AdditionalDimension: item.AdditionalDimension,
				Color:               item.Color,
				Argon:               item.Argon,
				GlassOption:         item.GlassOption,
				GridStyle:           item.GridStyle,
				Frame:               item.Frame,

				RequiresSpecialOrder: item.RequiresSpecialOrder,
				UnitIndex:            index,
				OriginalQuantity:     count,
				BatchAssigned:        "",
			})
		}
	}
	return out
}

// CollapseUnits groups units back into line items by their attribute
// tuple. Quantity, unit index, parent link and batch assignment never
// participate in the key. Group order is first-seen; per-unit batch
// assignments are kept raw so partial assignment stays visible.
func CollapseUnits(units []internal.UnitRecord) []internal.CollapsedItem {
	order := make([]internal.UnitKey, 0)
	groups := map[internal.UnitKey]*internal.CollapsedItem{}

	for _, unit := range units {
		key := internal.UnitKey{
			Name:                unit.Name,
			Width:               unit.Width,
			Height:              unit.Height,
			AdditionalDimension: unit.AdditionalDimension,
			Color:               unit.Color,
			Frame:               unit.Frame,
			GlassOption:         unit.GlassOption,
			GridStyle:           unit.GridStyle,
			Argon:               unit.Argon,
		}

		group, ok := groups[key]
		if !ok {
			group = &internal.CollapsedItem{UnitKey: key}
			groups[key] = group
			order = append(order, key)
		}
		group.Quantity++
		group.Units = append(group.Units, unit)
		group.BatchAssignments = append(group.BatchAssignments, unit.BatchAssigned)
	}

	out := make([]internal.CollapsedItem, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	return out
}

// UnitAssigned reports whether a unit's batch cell counts as assigned.
// Blank, whitespace and the "N/A" sentinel all mean unassigned.
func UnitAssigned(batchAssigned string) bool {
	value := strings.TrimSpace(batchAssigned)
	return value != "" && value != internal.BatchUnassignedSentinel
}

// ComputeBatchStatus summarizes assignment over a set of units. An empty
// set reports AllAssigned=false; there is no vacuous truth here because
// an invoice with no units is not ready for production.
func ComputeBatchStatus(units []internal.UnitRecord) internal.BatchStatus {
	status := internal.BatchStatus{TotalCount: len(units)}
	for _, unit := range units {
		if UnitAssigned(unit.BatchAssigned) {
			status.AssignedCount++
		}
	}
	status.AllAssigned = status.TotalCount > 0 && status.AssignedCount == status.TotalCount
	return status
}
