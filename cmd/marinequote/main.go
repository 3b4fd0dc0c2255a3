package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"marinequote/internal/catalog"
	"marinequote/internal/config"
	"marinequote/internal/pipeline"
	"marinequote/internal/session"
	"marinequote/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	if cmd == "admin:hash" {
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		password := fs.String("password", "", "plaintext admin password")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*password) == "" {
			must(fmt.Errorf("--password is required"))
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		must(err)
		fmt.Println(string(hash))
		return
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ws, err := session.New(db, cfg)
	must(err)

	switch cmd {
	case "catalog:import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "parts list xlsx")
		replace := fs.Bool("replace", false, "replace existing catalog")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}
		blob, err := os.ReadFile(*file)
		must(err)
		parts, err := catalog.ImportWorkbook(blob)
		must(err)
		must(ws.ImportCatalog(parts, *replace))
		fmt.Printf("catalog import done parts=%d replace=%v\n", len(parts), *replace)
	case "catalog:clear":
		must(ws.ClearCatalog())
		fmt.Println("catalog cleared")
	case "catalog:list":
		for _, p := range ws.Catalog() {
			fmt.Printf("%s\t%s\t%s\t%.0f\n", p.ID, p.DrawingNumber, p.Name, p.Prices.ServiceTaxed)
		}
		n, err := db.CountParts()
		must(err)
		fmt.Printf("total %d\n", n)
	case "reconcile":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "source file path, or raw content for text/html")
		inType := fs.String("type", "", "xlsx|pdf|word|eml|text|html")
		output := fs.String("output", "", "quotation xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *inType == "" {
			must(fmt.Errorf("--input and --type are required"))
		}

		candidates, err := pipeline.ExtractFromInput(*inType, *input)
		must(err)
		result, err := ws.Reconcile(context.Background(), candidates, func(processed, total int) {
			fmt.Printf("reconcile progress %d/%d\n", processed, total)
		})
		must(err)
		fmt.Printf("reconcile done entries=%d matched=%d new=%d skipped=%d\n",
			len(result.Entries), result.MatchedCount, result.NewCount, result.SkippedCount)

		if *output == "" {
			*output = filepath.Join(cfg.OutputDir, "quotation.xlsx")
		}
		must(ws.ExportXLSX(*output))
		fmt.Printf("exported %s\n", *output)
	case "inquiry:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		eml := fs.String("eml", "", "raw inquiry email file")
		output := fs.String("output", "", "quotation xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*eml) == "" {
			must(fmt.Errorf("--eml is required"))
		}
		blob, err := os.ReadFile(*eml)
		must(err)
		candidates, subject, err := pipeline.ExtractFromEmailRaw(blob)
		must(err)
		result, err := ws.Reconcile(context.Background(), candidates, nil)
		must(err)
		fmt.Printf("inquiry %q reconciled entries=%d matched=%d new=%d\n",
			subject, len(result.Entries), result.MatchedCount, result.NewCount)

		if *output == "" {
			*output = filepath.Join(cfg.OutputDir, "inquiry.xlsx")
		}
		must(ws.ExportXLSX(*output))
		fmt.Printf("exported %s\n", *output)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: marinequote <command>")
	fmt.Println("commands:")
	fmt.Println("  catalog:import --file=parts.xlsx [--replace]")
	fmt.Println("  catalog:clear")
	fmt.Println("  catalog:list")
	fmt.Println("  reconcile --input=... --type=xlsx|pdf|word|eml|text|html [--output=...xlsx]")
	fmt.Println("  inquiry:process --eml=inquiry.eml [--output=...xlsx]")
	fmt.Println("  admin:hash --password=...")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
