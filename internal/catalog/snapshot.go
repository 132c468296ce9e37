package catalog

import (
	"strings"

	"fabdesk/internal"
	"fabdesk/internal/util"
)

// Snapshot is an immutable view of the five reference catalogs with
// case-insensitive lookup maps built once. The engine receives one per
// categorization pass and never reads catalog state from anywhere else.
type Snapshot struct {
	Items           []internal.CatalogItem
	Colors          []internal.CatalogColor
	FrameStyles     []internal.CatalogFrameStyle
	GlassOptions    []internal.CatalogGlassOption
	DeliveryMethods []internal.CatalogDeliveryMethod

	itemsByName   map[string]internal.CatalogItem
	colorNames    map[string]struct{}
	frameNames    map[string]struct{}
	deliveryNames map[string]struct{}
}

func NewSnapshot(
	items []internal.CatalogItem,
	colors []internal.CatalogColor,
	frameStyles []internal.CatalogFrameStyle,
	glassOptions []internal.CatalogGlassOption,
	deliveryMethods []internal.CatalogDeliveryMethod,
) *Snapshot {
	snap := &Snapshot{
		Items:           items,
		Colors:          colors,
		FrameStyles:     frameStyles,
		GlassOptions:    glassOptions,
		DeliveryMethods: deliveryMethods,

		itemsByName:   map[string]internal.CatalogItem{},
		colorNames:    map[string]struct{}{},
		frameNames:    map[string]struct{}{},
		deliveryNames: map[string]struct{}{},
	}

	for _, item := range items {
		snap.itemsByName[util.FoldKey(item.Name)] = item
	}
	for _, color := range colors {
		snap.colorNames[util.FoldKey(color.ColorName)] = struct{}{}
	}
	for _, frame := range frameStyles {
		snap.frameNames[util.FoldKey(frame.StyleName)] = struct{}{}
	}
	for _, method := range deliveryMethods {
		snap.deliveryNames[util.FoldKey(method.Name)] = struct{}{}
	}

	return snap
}

// Empty returns a snapshot with no entries. Categorizing against it is
// the degraded mode used when the catalog read fails: everything comes
// back unknown, nothing crashes.
func Empty() *Snapshot {
	return NewSnapshot(nil, nil, nil, nil, nil)
}

func (s *Snapshot) LookupItem(name string) (internal.CatalogItem, bool) {
	item, ok := s.itemsByName[util.FoldKey(name)]
	return item, ok
}

func (s *Snapshot) HasColor(name string) bool {
	_, ok := s.colorNames[util.FoldKey(name)]
	return ok
}

func (s *Snapshot) HasFrameStyle(name string) bool {
	_, ok := s.frameNames[util.FoldKey(name)]
	return ok
}

func (s *Snapshot) HasDeliveryMethod(name string) bool {
	_, ok := s.deliveryNames[util.FoldKey(name)]
	return ok
}

// GlassSpecialMatch scans for a glass option whose type occurs as a
// case-insensitive substring of the free-text glass cell and is flagged
// order_needed. Entries without the flag never match.
func (s *Snapshot) GlassSpecialMatch(glassOption string) (internal.CatalogGlassOption, bool) {
	text := strings.ToLower(glassOption)
	for _, glass := range s.GlassOptions {
		if !glass.OrderNeeded {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(glass.GlassType))
		if key == "" {
			continue
		}
		if strings.Contains(text, key) {
			return glass, true
		}
	}
	return internal.CatalogGlassOption{}, false
}
