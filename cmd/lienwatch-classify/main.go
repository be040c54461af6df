package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bluegrassdata/lienwatch/internal/classify"
	"github.com/bluegrassdata/lienwatch/internal/config"
	"github.com/bluegrassdata/lienwatch/internal/docparse"
	"github.com/bluegrassdata/lienwatch/internal/pdftext"
	"github.com/bluegrassdata/lienwatch/internal/propertydata"
	"github.com/bluegrassdata/lienwatch/internal/report"
)

func main() {
	inputPath := flag.String("input", "", "path to a lis pendens filing (PDF or plain text)")
	outputPath := flag.String("output", "", "path to write the lead sheet (defaults to stdout)")
	format := flag.String("format", "markdown", "output format: markdown, html, or pdf")
	lookup := flag.Bool("lookup", false, "fetch purchase date and property facts from the PVA site")
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	doc, err := loadDocument(ctx, *inputPath)
	if err != nil {
		log.Fatalf("load document: %v", err)
	}

	parsed := docparse.Parse(ctx, doc.text, cfg.ParseConfig())

	var facts classify.Facts
	if *lookup && parsed.PropertyAddress != nil {
		source := propertydata.NewCachedSource(propertydata.NewPVASource(cfg.PVABaseURL))
		got, err := source.Lookup(ctx, parsed.PropertyAddress.Cleaned)
		if err != nil {
			log.Printf("property lookup failed: %v", err)
		} else {
			facts = got
		}
	}

	lead := classify.NewLead(doc.id, pdftext.ExtractCaseNumber(doc.text), parsed, facts)
	markdown := report.BuildMarkdown(lead)

	out, err := renderOutput(ctx, markdown, *format)
	if err != nil {
		log.Fatalf("render %s: %v", *format, err)
	}
	if err := writeOutput(*outputPath, out); err != nil {
		log.Fatalf("write output: %v", err)
	}
}

type document struct {
	id   string
	text string
}

func loadDocument(ctx context.Context, path string) (document, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		extracted, err := pdftext.ExtractFile(ctx, path)
		if err != nil {
			return document{}, err
		}
		return document{id: path, text: extracted.Text}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return document{}, err
	}
	return document{id: path, text: string(raw)}, nil
}

func renderOutput(ctx context.Context, markdown, format string) ([]byte, error) {
	switch format {
	case "markdown":
		return []byte(markdown), nil
	case "html":
		htmlDoc, err := report.RenderHTML(markdown)
		if err != nil {
			return nil, err
		}
		return []byte(htmlDoc), nil
	case "pdf":
		return report.NewPDFRenderer().Render(ctx, markdown)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func writeOutput(path string, out []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
