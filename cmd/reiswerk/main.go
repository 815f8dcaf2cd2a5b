package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"reiswerk/internal/config"
	"reiswerk/internal/importer"
	"reiswerk/internal/pipeline"
	"reiswerk/internal/storage"
	"reiswerk/internal/watcher"
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

	cmd := os.Args[1]
	switch cmd {
	case "tc:import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		ref := fs.String("ref", "", "TC booking reference")
		out := fs.String("out", "", "optional roadbook xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*ref) == "" {
			must(fmt.Errorf("--ref is required"))
		}
		must(cfg.Require("TC_API_TOKEN", cfg.TCAPIToken))
		svc := importer.NewService(db, cfg)
		summary, err := svc.ImportBooking(context.Background(), *ref)
		must(err)
		fmt.Printf("import done ref=%s offerte=%s items=%d total=%.2f datesResolved=%t\n",
			summary.BookingRef, summary.OfferteID, summary.Items, summary.TotalPrice, summary.DatesResolved)
		if strings.TrimSpace(*out) != "" {
			must(exportRoadbook(db, summary.OfferteID, *out))
			fmt.Printf("roadbook written to %s\n", *out)
		}
	case "tc:import-batch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		refs := fs.String("refs", "", "comma separated booking references")
		concurrency := fs.Int("concurrency", 3, "parallel fetches")
		_ = fs.Parse(os.Args[2:])
		list := splitRefs(*refs)
		if len(list) == 0 {
			must(fmt.Errorf("--refs is required"))
		}
		must(cfg.Require("TC_API_TOKEN", cfg.TCAPIToken))
		svc := importer.NewService(db, cfg)
		summaries, err := svc.ImportBatch(context.Background(), list, *concurrency)
		must(err)
		for _, summary := range summaries {
			fmt.Printf("imported ref=%s offerte=%s items=%d\n", summary.BookingRef, summary.OfferteID, summary.Items)
		}
	case "import:file":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "payload json path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		svc := importer.NewService(db, cfg)
		summary, err := svc.ImportFile(*input)
		must(err)
		fmt.Printf("import done ref=%s offerte=%s items=%d datesResolved=%t\n",
			summary.BookingRef, summary.OfferteID, summary.Items, summary.DatesResolved)
	case "export:roadbook":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		offerteID := fs.String("offerte", "", "offerte id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*offerteID) == "" || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--offerte and --out are required"))
		}
		must(exportRoadbook(db, *offerteID, *out))
		fmt.Printf("roadbook written to %s\n", *out)
	case "offerte:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 50, "max rows")
		_ = fs.Parse(os.Args[2:])
		rows, err := db.ListOffertes(*limit)
		must(err)
		for _, row := range rows {
			fmt.Printf("%s  %-16s  %-40s  %8.2f %s  reizigers=%d\n",
				row.ID, row.BookingRef, row.Title, row.TotalPrice, row.Currency, row.NumberOfTravelers)
		}
	case "watch":
		svc := watcher.NewService(db, cfg)
		must(svc.Run(context.Background()))
	default:
		usage()
		os.Exit(1)
	}
}

func exportRoadbook(db *storage.DB, offerteID, out string) error {
	if _, err := db.MustOfferte(offerteID); err != nil {
		return err
	}
	rows, err := db.GetRoadbookRows(offerteID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no items for offerte %s", offerteID)
	}
	return pipeline.ExportRoadbookXLSX(rows, out)
}

func splitRefs(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func usage() {
	fmt.Println("usage: reiswerk <command>")
	fmt.Println("commands:")
	fmt.Println("  tc:import --ref=BOOK123 [--out=./out/roadbook.xlsx]")
	fmt.Println("  tc:import-batch --refs=BOOK1,BOOK2 [--concurrency=3]")
	fmt.Println("  import:file --input=./payload.json")
	fmt.Println("  export:roadbook --offerte=<id> --out=./out/roadbook.xlsx")
	fmt.Println("  offerte:list [--limit=50]")
	fmt.Println("  watch")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
