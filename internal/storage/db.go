package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"fabdesk/internal"
	"fabdesk/internal/catalog"
)

var sb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS catalog_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  item_type TEXT NOT NULL,
  order_needed INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS catalog_colors (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  color_name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS catalog_frame_styles (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  style_name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS catalog_glass_options (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  glass_type TEXT NOT NULL UNIQUE,
  order_needed INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS catalog_delivery_methods (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS invoices (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_no TEXT NOT NULL UNIQUE,
  po_number TEXT,
  customer_name TEXT,
  customer_phone TEXT,
  customer_address TEXT,
  order_date TEXT,
  due_date TEXT,
  delivery_date TEXT,
  delivery_method TEXT,
  paid_status TEXT,
  shipping_address TEXT,
  wdgsp TEXT NOT NULL,
  total_quantity INTEGER NOT NULL DEFAULT 0,
  has_special_order INTEGER NOT NULL DEFAULT 0,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_invoices_order_no ON invoices(order_no);

CREATE TABLE IF NOT EXISTS order_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  invoice_id INTEGER NOT NULL,
  item_name TEXT NOT NULL,
  quantity TEXT NOT NULL DEFAULT '1',
  width TEXT,
  height TEXT,
  additional_dimension TEXT,
  color TEXT,
  argon TEXT,
  glass_option TEXT,
  grid_style TEXT,
  frame TEXT,
  requires_special_order INTEGER NOT NULL DEFAULT 0,
  unit_index INTEGER NOT NULL,
  original_quantity INTEGER NOT NULL,
  parent_item_id INTEGER,
  batch_assigned TEXT NOT NULL DEFAULT '',
  FOREIGN KEY(invoice_id) REFERENCES invoices(id)
);
CREATE INDEX IF NOT EXISTS idx_order_items_invoice ON order_items(invoice_id);

CREATE TABLE IF NOT EXISTS mail_messages (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  messageId TEXT NOT NULL UNIQUE,
  subject TEXT,
  sender TEXT,
  receivedAt TEXT,
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'fetched',
  rawRef TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  source TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// ReplaceCatalogs swaps the reference data wholesale inside one
// transaction. Catalogs are small; a full replace keeps seeding
// idempotent.
func (d *DB) ReplaceCatalogs(ctx context.Context, seed catalog.SeedData) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	tables := []string{"catalog_items", "catalog_colors", "catalog_frame_styles", "catalog_glass_options", "catalog_delivery_methods"}
	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	for _, item := range seed.Items {
		query, args, err := sb.Insert("catalog_items").
			Columns("name", "item_type", "order_needed").
			Values(item.Name, string(item.Type), item.OrderNeeded).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	for _, color := range seed.Colors {
		query, args, err := sb.Insert("catalog_colors").Columns("color_name").Values(color.ColorName).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	for _, frame := range seed.FrameStyles {
		query, args, err := sb.Insert("catalog_frame_styles").Columns("style_name").Values(frame.StyleName).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	for _, glass := range seed.GlassOptions {
		query, args, err := sb.Insert("catalog_glass_options").
			Columns("glass_type", "order_needed").
			Values(glass.GlassType, glass.OrderNeeded).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	for _, method := range seed.DeliveryMethods {
		query, args, err := sb.Insert("catalog_delivery_methods").Columns("name").Values(method.Name).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadCatalogSnapshot reads all five catalogs in one pass.
func (d *DB) LoadCatalogSnapshot(ctx context.Context) (*catalog.Snapshot, error) {
	var items []internal.CatalogItem
	rows, err := d.conn.QueryContext(ctx, `SELECT name, item_type, order_needed FROM catalog_items ORDER BY name`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var item internal.CatalogItem
		var itemType string
		if err := rows.Scan(&item.Name, &itemType, &item.OrderNeeded); err != nil {
			_ = rows.Close()
			return nil, err
		}
		item.Type = internal.ItemType(itemType)
		items = append(items, item)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	colors, err := d.listStrings(ctx, "catalog_colors", "color_name")
	if err != nil {
		return nil, err
	}
	frames, err := d.listStrings(ctx, "catalog_frame_styles", "style_name")
	if err != nil {
		return nil, err
	}
	methods, err := d.listStrings(ctx, "catalog_delivery_methods", "name")
	if err != nil {
		return nil, err
	}

	var glass []internal.CatalogGlassOption
	rows, err = d.conn.QueryContext(ctx, `SELECT glass_type, order_needed FROM catalog_glass_options ORDER BY glass_type`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var option internal.CatalogGlassOption
		if err := rows.Scan(&option.GlassType, &option.OrderNeeded); err != nil {
			_ = rows.Close()
			return nil, err
		}
		glass = append(glass, option)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	colorRows := make([]internal.CatalogColor, 0, len(colors))
	for _, name := range colors {
		colorRows = append(colorRows, internal.CatalogColor{ColorName: name})
	}
	frameRows := make([]internal.CatalogFrameStyle, 0, len(frames))
	for _, name := range frames {
		frameRows = append(frameRows, internal.CatalogFrameStyle{StyleName: name})
	}
	methodRows := make([]internal.CatalogDeliveryMethod, 0, len(methods))
	for _, name := range methods {
		methodRows = append(methodRows, internal.CatalogDeliveryMethod{Name: name})
	}

	return catalog.NewSnapshot(items, colorRows, frameRows, glass, methodRows), nil
}

func (d *DB) listStrings(ctx context.Context, table, column string) ([]string, error) {
	query, args, err := sb.Select(column).From(table).OrderBy(column).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var out []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			_ = rows.Close()
			return nil, err
		}
		out = append(out, value)
	}
	return out, closeRows(rows)
}

// ExistingOrderNumbers returns the subset of candidates that are already
// persisted. The empty candidate list short-circuits without a query.
func (d *DB) ExistingOrderNumbers(ctx context.Context, orderNos []string) (map[string]bool, error) {
	out := map[string]bool{}
	if len(orderNos) == 0 {
		return out, nil
	}

	query, args, err := sb.Select("order_no").From("invoices").Where(sq.Eq{"order_no": orderNos}).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query existing orders: %w", err)
	}
	for rows.Next() {
		var orderNo string
		if err := rows.Scan(&orderNo); err != nil {
			_ = rows.Close()
			return nil, err
		}
		out[orderNo] = true
	}
	return out, closeRows(rows)
}

// ImportInvoice persists one invoice and its expanded units as a single
// transaction. Units arrive in expansion order; the first unit of each
// line becomes the parent its siblings point at once its row id exists.
func (d *DB) ImportInvoice(ctx context.Context, inv *internal.Invoice, units []internal.UnitRecord) (int64, error) {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := sb.Insert("invoices").
		Columns("order_no", "po_number", "customer_name", "customer_phone", "customer_address",
			"order_date", "due_date", "delivery_date", "delivery_method", "paid_status",
			"shipping_address", "wdgsp", "total_quantity", "has_special_order").
		Values(inv.OrderNo, inv.PONumber, inv.Customer.Name, inv.Customer.Phone, inv.Customer.Address,
			inv.OrderDate, inv.DueDate, inv.DeliveryDate, inv.DeliveryMethod, inv.PaidStatus,
			inv.ShippingAddress, inv.WDGSPString, inv.TotalQuantity, inv.HasSpecialOrder).ToSql()
	if err != nil {
		return 0, err
	}
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert invoice %s: %w", inv.OrderNo, err)
	}
	invoiceID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO order_items (
  invoice_id, item_name, quantity, width, height, additional_dimension,
  color, argon, glass_option, grid_style, frame,
  requires_special_order, unit_index, original_quantity, parent_item_id, batch_assigned
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var parentID *int64
	for _, unit := range units {
		if unit.UnitIndex == 1 {
			parentID = nil
		}
		result, err := stmt.ExecContext(ctx,
			invoiceID, unit.Name, unit.Quantity, unit.Width, unit.Height, unit.AdditionalDimension,
			unit.Color, unit.Argon, unit.GlassOption, unit.GridStyle, unit.Frame,
			unit.RequiresSpecialOrder, unit.UnitIndex, unit.OriginalQuantity, parentID, unit.BatchAssigned,
		)
		if err != nil {
			return 0, fmt.Errorf("insert unit for invoice %s: %w", inv.OrderNo, err)
		}
		if unit.UnitIndex == 1 {
			firstID, err := result.LastInsertId()
			if err != nil {
				return 0, err
			}
			parentID = &firstID
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return invoiceID, nil
}

// StoredInvoice is the header slice of a persisted invoice needed by the
// unit screens and the export.
type StoredInvoice struct {
	ID           int64
	OrderNo      string
	CustomerName string
	WDGSP        string
}

func (d *DB) GetInvoiceByOrderNo(ctx context.Context, orderNo string) (*StoredInvoice, error) {
	var inv StoredInvoice
	err := d.conn.QueryRowContext(ctx,
		`SELECT id, order_no, customer_name, wdgsp FROM invoices WHERE order_no = ?`, orderNo).
		Scan(&inv.ID, &inv.OrderNo, &inv.CustomerName, &inv.WDGSP)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListUnits returns a persisted invoice's units in storage order.
func (d *DB) ListUnits(ctx context.Context, invoiceID int64) ([]internal.UnitRecord, error) {
	query, args, err := sb.Select(
		"id", "invoice_id", "item_name", "quantity", "width", "height", "additional_dimension",
		"color", "argon", "glass_option", "grid_style", "frame",
		"requires_special_order", "unit_index", "original_quantity", "parent_item_id", "batch_assigned").
		From("order_items").
		Where(sq.Eq{"invoice_id": invoiceID}).
		OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var out []internal.UnitRecord
	for rows.Next() {
		var unit internal.UnitRecord
		if err := rows.Scan(
			&unit.ID, &unit.InvoiceID, &unit.Name, &unit.Quantity, &unit.Width, &unit.Height, &unit.AdditionalDimension,
			&unit.Color, &unit.Argon, &unit.GlassOption, &unit.GridStyle, &unit.Frame,
			&unit.RequiresSpecialOrder, &unit.UnitIndex, &unit.OriginalQuantity, &unit.ParentItemID, &unit.BatchAssigned,
		); err != nil {
			_ = rows.Close()
			return nil, err
		}
		out = append(out, unit)
	}
	return out, closeRows(rows)
}

// AssignBatch writes a batch label onto units of one invoice. An empty
// unitIDs slice targets every unit of the invoice.
func (d *DB) AssignBatch(ctx context.Context, invoiceID int64, unitIDs []int64, batch string) (int64, error) {
	builder := sb.Update("order_items").
		Set("batch_assigned", batch).
		Where(sq.Eq{"invoice_id": invoiceID})
	if len(unitIDs) > 0 {
		builder = builder.Where(sq.Eq{"id": unitIDs})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	result, err := d.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (d *DB) UpsertMail(msg internal.FetchedMailMessage, hash, rawRef string) (internal.MailRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO mail_messages (messageId, subject, sender, receivedAt, hash, status, rawRef)
VALUES (?, ?, ?, ?, ?, 'fetched', ?)
ON CONFLICT(messageId) DO UPDATE SET
  subject=excluded.subject,
  sender=excluded.sender,
  receivedAt=excluded.receivedAt,
  hash=excluded.hash,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, msg.MessageID, msg.Subject, msg.From, msg.ReceivedAt, hash, rawRef)
	if err != nil {
		return internal.MailRow{}, err
	}

	row, err := d.GetMailByMessageID(msg.MessageID)
	if err != nil {
		return internal.MailRow{}, err
	}
	if row == nil {
		return internal.MailRow{}, errors.New("failed to upsert mail message")
	}
	return *row, nil
}

func (d *DB) GetMailByMessageID(messageID string) (*internal.MailRow, error) {
	var row internal.MailRow
	err := d.conn.QueryRow(`
SELECT id, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM mail_messages WHERE messageId = ?
`, messageID).Scan(&row.ID, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListMailByStatus(status string, limit int) ([]internal.MailRow, error) {
	rows, err := d.conn.Query(`
SELECT id, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM mail_messages WHERE status = ? ORDER BY receivedAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}

	var out []internal.MailRow
	for rows.Next() {
		var row internal.MailRow
		if err := rows.Scan(&row.ID, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef); err != nil {
			_ = rows.Close()
			return nil, err
		}
		out = append(out, row)
	}
	return out, closeRows(rows)
}

func (d *DB) UpdateMailStatus(id int, status string) error {
	_, err := d.conn.Exec(`UPDATE mail_messages SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	return err
}

func (d *DB) InsertRun(traceID, source string, counts map[string]int) error {
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, source, countsJson) VALUES (?, ?, ?)`, traceID, source, string(countsJSON))
	return err
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	return rows.Close()
}
