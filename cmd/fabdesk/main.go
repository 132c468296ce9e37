package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fabdesk/internal"
	"fabdesk/internal/catalog"
	"fabdesk/internal/config"
	"fabdesk/internal/intake"
	"fabdesk/internal/listener"
	"fabdesk/internal/pipeline"
	"fabdesk/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ctx := context.Background()
	cmd := os.Args[1]
	switch cmd {
	case "catalog:seed":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "catalog seed yaml")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}
		seed, err := catalog.LoadSeedFile(*file)
		must(err)
		must(db.ReplaceCatalogs(ctx, seed))
		fmt.Printf("catalogs seeded: items=%d colors=%d frames=%d glass=%d delivery=%d\n",
			len(seed.Items), len(seed.Colors), len(seed.FrameStyles), len(seed.GlassOptions), len(seed.DeliveryMethods))
	case "catalog:list":
		snap, err := db.LoadCatalogSnapshot(ctx)
		must(err)
		fmt.Printf("items (%d):\n", len(snap.Items))
		for _, item := range snap.Items {
			fmt.Printf("  %s type=%s order_needed=%v\n", item.Name, item.Type, item.OrderNeeded)
		}
		fmt.Printf("colors (%d):\n", len(snap.Colors))
		for _, color := range snap.Colors {
			fmt.Printf("  %s\n", color.ColorName)
		}
		fmt.Printf("frame styles (%d):\n", len(snap.FrameStyles))
		for _, frame := range snap.FrameStyles {
			fmt.Printf("  %s\n", frame.StyleName)
		}
		fmt.Printf("glass options (%d):\n", len(snap.GlassOptions))
		for _, glass := range snap.GlassOptions {
			fmt.Printf("  %s order_needed=%v\n", glass.GlassType, glass.OrderNeeded)
		}
		fmt.Printf("delivery methods (%d):\n", len(snap.DeliveryMethods))
		for _, method := range snap.DeliveryMethods {
			fmt.Printf("  %s\n", method.Name)
		}
	case "invoice:parse":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "invoice export (.xlsx or .html)")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		processor := pipeline.NewProcessingService(db)
		report, err := processor.ParseFile(ctx, *input)
		must(err)
		printBatchReport(report, false)
	case "invoice:import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "invoice export (.xlsx or .html)")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		processor := pipeline.NewProcessingService(db)
		report, err := processor.ImportFile(ctx, *input)
		must(err)
		printBatchReport(report, true)
	case "units:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		order := fs.String("order", "", "order number")
		_ = fs.Parse(os.Args[2:])
		inv, units := mustUnits(ctx, db, *order)
		status := pipeline.ComputeBatchStatus(units)
		fmt.Printf("order %s customer=%s wdgsp=%s units=%d assigned=%d/%d\n",
			inv.OrderNo, inv.CustomerName, inv.WDGSP, len(units), status.AssignedCount, status.TotalCount)
		for _, unit := range units {
			batch := unit.BatchAssigned
			if !pipeline.UnitAssigned(batch) {
				batch = "-"
			}
			fmt.Printf("  id=%d %s %sx%s unit %d/%d batch=%s\n",
				unit.ID, unit.Name, unit.Width, unit.Height, unit.UnitIndex, unit.OriginalQuantity, batch)
		}
	case "units:export":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		order := fs.String("order", "", "order number")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		inv, units := mustUnits(ctx, db, *order)
		path := *out
		if strings.TrimSpace(path) == "" {
			path = filepath.Join(cfg.OutputDir, fmt.Sprintf("units_%s.xlsx", inv.OrderNo))
		}
		must(pipeline.ExportUnitsToXLSX(inv.CustomerName, units, path))
		fmt.Printf("exported %d units to %s\n", len(units), path)
	case "batch:assign":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		order := fs.String("order", "", "order number")
		ids := fs.String("units", "", "comma-separated unit ids (empty = all)")
		batch := fs.String("batch", "", "batch label")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*batch) == "" {
			must(fmt.Errorf("--batch is required"))
		}
		inv, _ := mustUnits(ctx, db, *order)
		unitIDs, err := parseIDList(*ids)
		must(err)
		affected, err := db.AssignBatch(ctx, inv.ID, unitIDs, *batch)
		must(err)
		fmt.Printf("assigned batch %s to %d units of order %s\n", *batch, affected, inv.OrderNo)
	case "batch:status":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		order := fs.String("order", "", "order number")
		_ = fs.Parse(os.Args[2:])
		inv, units := mustUnits(ctx, db, *order)
		status := pipeline.ComputeBatchStatus(units)
		fmt.Printf("order %s assigned=%d/%d allAssigned=%v\n", inv.OrderNo, status.AssignedCount, status.TotalCount, status.AllAssigned)
	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		label := fs.String("label", cfg.MailLabel, "mailbox")
		max := fs.Int("max", cfg.MailFetchMax, "max messages")
		_ = fs.Parse(os.Args[2:])
		connector, err := intake.NewIMAPConnector(cfg)
		must(err)
		fetch := intake.NewFetchService(db, cfg.RawMailDir, connector)
		result, err := fetch.FetchAndStore(*label, *max)
		must(err)
		fmt.Printf("mail fetch done fetched=%d stored=%d\n", result.Fetched, result.Stored)
	case "mail:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		batch := fs.Int("batch", cfg.MailBatch, "batch size")
		doImport := fs.Bool("import", cfg.MailAutoImport, "persist unblocked invoices")
		_ = fs.Parse(os.Args[2:])
		processor := pipeline.NewProcessingService(db)
		processed, reports, err := processor.ProcessMailPending(ctx, *batch, *doImport)
		must(err)
		fmt.Printf("processed %d messages\n", processed)
		for _, report := range reports {
			printBatchReport(report, *doImport)
		}
	case "mail:listen":
		svc := listener.NewService(db, cfg)
		must(svc.Run(ctx))
	default:
		usage()
		os.Exit(1)
	}
}

func mustUnits(ctx context.Context, db *storage.DB, orderNo string) (*storage.StoredInvoice, []internal.UnitRecord) {
	if strings.TrimSpace(orderNo) == "" {
		must(fmt.Errorf("--order is required"))
	}
	inv, err := db.GetInvoiceByOrderNo(ctx, orderNo)
	must(err)
	if inv == nil {
		must(fmt.Errorf("order not found: %s", orderNo))
	}
	units, err := db.ListUnits(ctx, inv.ID)
	must(err)
	return inv, units
}

func parseIDList(input string) ([]int64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, nil
	}
	parts := strings.Split(trimmed, ",")
	out := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad unit id %q", part)
		}
		out = append(out, id)
	}
	return out, nil
}

func printBatchReport(report pipeline.BatchReport, imported bool) {
	if report.CatalogErr != nil {
		fmt.Printf("warning: %v (everything will report unknown)\n", report.CatalogErr)
	}
	if report.DuplicateCheckErr != nil {
		fmt.Printf("warning: %v (invoices assumed non-duplicate)\n", report.DuplicateCheckErr)
	}

	for _, entry := range report.Reports {
		inv := entry.Invoice
		fmt.Printf("invoice %s items=%d qty=%d wdgsp=%s specialOrder=%v\n",
			inv.OrderNo, len(inv.ProcessedItems), inv.TotalQuantity, inv.WDGSPString, inv.HasSpecialOrder)
		for _, so := range inv.SpecialOrderItems {
			if so.GlassOption != "" {
				fmt.Printf("  special order (%s): %s x%s glass=%s\n", so.Trigger, so.Name, so.Quantity, so.GlassOption)
			} else {
				fmt.Printf("  special order (%s): %s x%s\n", so.Trigger, so.Name, so.Quantity)
			}
		}
		for _, blocker := range entry.Blockers {
			fmt.Printf("  %s: %s\n", blocker.Severity, blocker.Reason)
		}
		if entry.ImportErr != nil {
			fmt.Printf("  import failed: %v\n", entry.ImportErr)
		} else if entry.Imported {
			fmt.Printf("  imported\n")
		}
	}

	if imported {
		fmt.Printf("batch done run=%s invoices=%d imported=%d blocked=%d failed=%d\n",
			report.RunID, len(report.Reports), report.Imported, report.Blocked, report.Failed)
	} else {
		fmt.Printf("batch parsed run=%s invoices=%d blocked=%d\n", report.RunID, len(report.Reports), report.Blocked)
	}
}

func usage() {
	fmt.Println("usage: fabdesk <command>")
	fmt.Println("commands:")
	fmt.Println("  catalog:seed --file=./catalogs.yaml")
	fmt.Println("  catalog:list")
	fmt.Println("  invoice:parse --input=./orders.xlsx")
	fmt.Println("  invoice:import --input=./orders.xlsx")
	fmt.Println("  units:list --order=1001")
	fmt.Println("  units:export --order=1001 [--out=./out/units.xlsx]")
	fmt.Println("  batch:assign --order=1001 --batch=B-12 [--units=3,4]")
	fmt.Println("  batch:status --order=1001")
	fmt.Println("  mail:fetch [--label=INBOX] [--max=20]")
	fmt.Println("  mail:process [--batch=20] [--import]")
	fmt.Println("  mail:listen")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
