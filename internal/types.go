package internal

type InvoiceSource string

const (
	SourceXLSX      InvoiceSource = "xlsx"
	SourceHTMLTable InvoiceSource = "html_table"
	SourceMail      InvoiceSource = "mail"
)

// ItemType is the catalog vocabulary for item categories. Only the five
// tally types contribute to the W/D/G/S/P string; Other is an explicit
// skip sentinel and anything else is silently not tallied.
type ItemType string

const (
	ItemTypeWindow ItemType = "Window"
	ItemTypeDoor   ItemType = "Door"
	ItemTypeGlass  ItemType = "Glass"
	ItemTypeScreen ItemType = "Screen"
	ItemTypePart   ItemType = "Part"
	ItemTypeOther  ItemType = "Other"
)

// TallyOrder fixes the bucket order of the W/D/G/S/P aggregate string.
var TallyOrder = [...]ItemType{ItemTypeWindow, ItemTypeDoor, ItemTypeGlass, ItemTypeScreen, ItemTypePart}

type SpecialOrderTrigger string

const (
	TriggerItem  SpecialOrderTrigger = "item"
	TriggerGlass SpecialOrderTrigger = "glass"
)

const (
	// UnknownDeliverySentinel is recorded when an invoice carries no
	// delivery method at all, as opposed to an unmatched one.
	UnknownDeliverySentinel = "Empty/Missing"

	// BatchUnassignedSentinel marks a unit whose batch cell was exported
	// as "N/A"; it counts as unassigned alongside blank values.
	BatchUnassignedSentinel = "N/A"
)

// RawItem is one spreadsheet line before reconciliation. All fields are
// kept as the extractor produced them; quantity stays a string and is
// parsed lazily at each use site.
type RawItem struct {
	Name                string `json:"name"`
	Quantity            string `json:"quantity"`
	Width               string `json:"width"`
	Height              string `json:"height"`
	AdditionalDimension string `json:"additionalDimension"`
	Color               string `json:"color"`
	Argon               string `json:"argon"`
	GlassOption         string `json:"glassOption"`
	GridStyle           string `json:"gridStyle"`
	Frame               string `json:"frame"`
}

// CategorizedItem is a RawItem after a categorization pass.
type CategorizedItem struct {
	RawItem
	RequiresSpecialOrder bool `json:"requiresSpecialOrder"`
}

type SpecialOrderItem struct {
	Name        string              `json:"name"`
	Quantity    string              `json:"quantity"`
	GlassOption string              `json:"glassOption,omitempty"`
	Trigger     SpecialOrderTrigger `json:"type"`
}

// CategorizationResult is the full output of one categorization pass.
// Every slice is non-nil so consumers can render without nil checks.
type CategorizationResult struct {
	ProcessedItems         []CategorizedItem  `json:"processedItems"`
	WDGSPString            string             `json:"wdgspString"`
	UnknownItems           []string           `json:"unknownItems"`
	UnknownColors          []string           `json:"unknownColors"`
	UnknownFrameStyles     []string           `json:"unknownFrameStyles"`
	UnknownDeliveryMethods []string           `json:"unknownDeliveryMethods"`
	SpecialOrderItems      []SpecialOrderItem `json:"specialOrderItems"`
	ItemOrderNeeded        bool               `json:"itemOrderNeeded"`
	GlassOrderNeeded       bool               `json:"glassOrderNeeded"`
	HasSpecialOrder        bool               `json:"hasSpecialOrder"`
}

type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// RawInvoice is the extractor's output for one invoice: header fields
// plus its raw item lines, before any catalog reconciliation.
type RawInvoice struct {
	Source          InvoiceSource `json:"source"`
	OrderNo         string        `json:"orderNo"`
	PONumber        string        `json:"poNumber"`
	Customer        CustomerInfo  `json:"customerInfo"`
	OrderDate       string        `json:"orderDate"`
	DueDate         string        `json:"dueDate"`
	DeliveryDate    string        `json:"deliveryDate"`
	DeliveryMethod  string        `json:"deliveryMethod"`
	PaidStatus      string        `json:"paidStatus"`
	ShippingAddress string        `json:"shippingAddress"`
	Items           []RawItem     `json:"items"`
}

// Invoice is the in-flight record between extraction and persistence:
// the raw invoice plus every derived field a categorization and
// reconciliation pass computes.
type Invoice struct {
	RawInvoice
	CategorizationResult
	TotalQuantity          int  `json:"totalQuantity"`
	MissingShippingAddress bool `json:"missingShippingAddress"`
	IsDuplicate            bool `json:"isDuplicate"`
}

// UnitRecord is one physical unit. A CategorizedItem with quantity N
// expands to N of these; batch assignment is tracked per unit.
type UnitRecord struct {
	ID        int64
	InvoiceID int64

	Name                string
	Quantity            string
	Width               string
	Height              string
	AdditionalDimension string
	Color               string
	Argon               string
	GlassOption         string
	GridStyle           string
	Frame               string

	RequiresSpecialOrder bool
	UnitIndex            int
	OriginalQuantity     int
	ParentItemID         *int64
	BatchAssigned        string
}

// UnitKey is the composite grouping key for collapsing units back into
// line items. Quantity, unit index, parent link and batch assignment are
// deliberately excluded.
type UnitKey struct {
	Name                string
	Width               string
	Height              string
	AdditionalDimension string
	Color               string
	Frame               string
	GlassOption         string
	GridStyle           string
	Argon               string
}

type CollapsedItem struct {
	UnitKey
	Quantity         int
	Units            []UnitRecord
	BatchAssignments []string
}

type BatchStatus struct {
	AllAssigned   bool
	AssignedCount int
	TotalCount    int
}

// Catalog rows. Matching is always case-insensitive exact on the name
// field, except glass options which match by substring containment of
// GlassType inside an item's free-text glass option.

type CatalogItem struct {
	Name        string   `yaml:"name"`
	Type        ItemType `yaml:"item_type"`
	OrderNeeded bool     `yaml:"order_needed"`
}

type CatalogColor struct {
	ColorName string `yaml:"color_name"`
}

type CatalogFrameStyle struct {
	StyleName string `yaml:"style_name"`
}

type CatalogGlassOption struct {
	GlassType   string `yaml:"glass_type"`
	OrderNeeded bool   `yaml:"order_needed"`
}

type CatalogDeliveryMethod struct {
	Name string `yaml:"name"`
}

type MailRow struct {
	ID         int
	MessageID  string
	Subject    string
	Sender     string
	ReceivedAt string
	Hash       string
	Status     string
	RawRef     string
}

type FetchedMailMessage struct {
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}
