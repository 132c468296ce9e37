package pipeline

import (
	"context"
	"fmt"
	"strings"

	"fabdesk/internal"
	"fabdesk/internal/util"
)

// OrderStore is the persisted-order lookup the duplicate check needs.
type OrderStore interface {
	ExistingOrderNumbers(ctx context.Context, orderNos []string) (map[string]bool, error)
}

type BlockerSeverity string

const (
	SeverityWarning BlockerSeverity = "warning"
	SeverityError   BlockerSeverity = "error"
)

// ImportBlocker is one condition preventing an invoice from being
// persisted. Duplicates are error-class; catalog and missing-data
// conditions are warning-class. Either class blocks import.
type ImportBlocker struct {
	Severity BlockerSeverity
	Reason   string
}

// CheckDuplicates returns which of the proposed order numbers already
// exist in storage. A failed query fails open: the empty set comes back
// together with the error so callers report the failure instead of
// blocking (or silently importing over) the whole batch.
func CheckDuplicates(ctx context.Context, store OrderStore, orderNos []string) (map[string]bool, error) {
	existing, err := store.ExistingOrderNumbers(ctx, orderNos)
	if err != nil {
		return map[string]bool{}, fmt.Errorf("duplicate check: %w", err)
	}
	if existing == nil {
		existing = map[string]bool{}
	}
	return existing, nil
}

// TotalQuantity sums line quantities. Unparseable quantities contribute
// zero here, unlike the per-item tally default of one inside
// categorization.
func TotalQuantity(items []internal.CategorizedItem) int {
	total := 0
	for _, item := range items {
		total += util.ParseIntDefault(item.Quantity, 0)
	}
	return total
}

// MissingShippingAddress holds only for delivery orders with a blank
// shipping address. Pickup orders never need one.
func MissingShippingAddress(deliveryMethod, shippingAddress string) bool {
	return strings.EqualFold(strings.TrimSpace(deliveryMethod), "delivery") && util.Blank(shippingAddress)
}

// ReconcileBatch fills the batch-level derived fields on each invoice:
// duplicate flag, total quantity and the shipping-address check. The
// duplicate-check error, if any, is returned after every invoice has
// still been reconciled with the fail-open result.
func ReconcileBatch(ctx context.Context, store OrderStore, invoices []*internal.Invoice) error {
	orderNos := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		orderNos = append(orderNos, inv.OrderNo)
	}

	existing, dupErr := CheckDuplicates(ctx, store, orderNos)
	for _, inv := range invoices {
		inv.IsDuplicate = existing[inv.OrderNo]
		inv.TotalQuantity = TotalQuantity(inv.ProcessedItems)
		inv.MissingShippingAddress = MissingShippingAddress(inv.DeliveryMethod, inv.ShippingAddress)
	}
	return dupErr
}

// ImportBlockers lists everything preventing this invoice from being
// persisted. Empty means ready to import.
func ImportBlockers(inv *internal.Invoice) []ImportBlocker {
	blockers := []ImportBlocker{}

	if inv.IsDuplicate {
		blockers = append(blockers, ImportBlocker{
			Severity: SeverityError,
			Reason:   fmt.Sprintf("order %s already exists", inv.OrderNo),
		})
	}
	if len(inv.UnknownItems) > 0 {
		blockers = append(blockers, ImportBlocker{
			Severity: SeverityWarning,
			Reason:   "unknown items: " + strings.Join(inv.UnknownItems, ", "),
		})
	}
	if len(inv.UnknownColors) > 0 {
		blockers = append(blockers, ImportBlocker{
			Severity: SeverityWarning,
			Reason:   "unknown colors: " + strings.Join(inv.UnknownColors, ", "),
		})
	}
	if len(inv.UnknownFrameStyles) > 0 {
		blockers = append(blockers, ImportBlocker{
			Severity: SeverityWarning,
			Reason:   "unknown frame styles: " + strings.Join(inv.UnknownFrameStyles, ", "),
		})
	}
	if len(inv.UnknownDeliveryMethods) > 0 {
		blockers = append(blockers, ImportBlocker{
			Severity: SeverityWarning,
			Reason:   "unknown delivery method: " + strings.Join(inv.UnknownDeliveryMethods, ", "),
		})
	}
	if inv.MissingShippingAddress {
		blockers = append(blockers, ImportBlocker{
			Severity: SeverityWarning,
			Reason:   "delivery order has no shipping address",
		})
	}

	return blockers
}

// Importable reports whether nothing blocks persistence.
func Importable(inv *internal.Invoice) bool {
	return len(ImportBlockers(inv)) == 0
}
