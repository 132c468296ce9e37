package pipeline

import (
	"fmt"
	"strings"

	"fabdesk/internal"
	"fabdesk/internal/catalog"
	"fabdesk/internal/util"
)

// Categorize reconciles one invoice's raw item lines and delivery method
// against a catalog snapshot. It is a pure function: re-run it in full
// after any item edit or catalog refresh, since the tally and the
// unknown lists are cross-item aggregates.
//
// unknownItems is an append-only list while the color, frame and
// delivery lists are de-duplicated. The asymmetry is deliberate: the
// item list mirrors the invoice line by line, the other three name
// catalog gaps.
func Categorize(items []internal.RawItem, deliveryMethod string, snap *catalog.Snapshot) internal.CategorizationResult {
	result := internal.CategorizationResult{
		ProcessedItems:         make([]internal.CategorizedItem, 0, len(items)),
		UnknownItems:           []string{},
		UnknownColors:          []string{},
		UnknownFrameStyles:     []string{},
		UnknownDeliveryMethods: []string{},
		SpecialOrderItems:      []internal.SpecialOrderItem{},
	}

	if util.Blank(deliveryMethod) {
		result.UnknownDeliveryMethods = append(result.UnknownDeliveryMethods, internal.UnknownDeliverySentinel)
	} else if !snap.HasDeliveryMethod(deliveryMethod) {
		result.UnknownDeliveryMethods = append(result.UnknownDeliveryMethods, deliveryMethod)
	}

	tally := map[internal.ItemType]int{}
	for _, item := range items {
		processed := internal.CategorizedItem{RawItem: item}

		if entry, ok := snap.LookupItem(item.Name); ok {
			if entry.Type != internal.ItemTypeOther {
				tally[entry.Type] += util.ParseIntDefault(item.Quantity, 1)
			}
			if entry.OrderNeeded {
				processed.RequiresSpecialOrder = true
				result.ItemOrderNeeded = true
				result.SpecialOrderItems = append(result.SpecialOrderItems, internal.SpecialOrderItem{
					Name:     item.Name,
					Quantity: item.Quantity,
					Trigger:  internal.TriggerItem,
				})
			}
		} else if !util.Blank(item.Name) {
			result.UnknownItems = append(result.UnknownItems, item.Name)
		}

		if !util.Blank(item.Color) && !snap.HasColor(item.Color) {
			result.UnknownColors = appendUnique(result.UnknownColors, item.Color)
		}
		if !util.Blank(item.Frame) && !snap.HasFrameStyle(item.Frame) {
			result.UnknownFrameStyles = appendUnique(result.UnknownFrameStyles, item.Frame)
		}

		if !util.Blank(item.GlassOption) {
			if _, ok := snap.GlassSpecialMatch(item.GlassOption); ok {
				// Independent of the item-match trigger above; the same
				// line can appear twice, once per trigger.
				processed.RequiresSpecialOrder = true
				result.GlassOrderNeeded = true
				result.SpecialOrderItems = append(result.SpecialOrderItems, internal.SpecialOrderItem{
					Name:        item.Name,
					Quantity:    item.Quantity,
					GlassOption: item.GlassOption,
					Trigger:     internal.TriggerGlass,
				})
			}
		}

		result.ProcessedItems = append(result.ProcessedItems, processed)
	}

	result.WDGSPString = formatTally(tally)
	result.HasSpecialOrder = result.GlassOrderNeeded || result.ItemOrderNeeded
	return result
}

// formatTally renders the five known buckets in fixed order. Item types
// outside the five (other than the Other skip sentinel) are in the map
// but never rendered, so they drop silently.
func formatTally(tally map[internal.ItemType]int) string {
	parts := make([]string, 0, len(internal.TallyOrder))
	for _, bucket := range internal.TallyOrder {
		parts = append(parts, fmt.Sprintf("%d", tally[bucket]))
	}
	return strings.Join(parts, "/")
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

// RawItemsOf strips categorization flags, recovering the raw lines. Used
// when a user edit forces a fresh pass over already-processed items.
func RawItemsOf(items []internal.CategorizedItem) []internal.RawItem {
	out := make([]internal.RawItem, 0, len(items))
	for _, item := range items {
		out = append(out, item.RawItem)
	}
	return out
}
