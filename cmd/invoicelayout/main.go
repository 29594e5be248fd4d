package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gompdf/invoicelayout/pkg/api"
	"github.com/gompdf/invoicelayout/pkg/logger"
)

// input is the JSON document read by the command
type input struct {
	Company        api.Company      `json:"company"`
	VATRatePercent *decimal.Decimal `json:"vat_rate_percent,omitempty"`
	Margins        *api.Margins     `json:"margins_mm,omitempty"`
	Invoices       []*api.Invoice   `json:"invoices"`
}

func main() {
	var (
		inputFile   string
		outputFile  string
		format      string
		locale      string
		resources   string
		noSeal      bool
		noSignature bool
		concurrency int
		verbose     bool
	)

	flag.StringVar(&inputFile, "input", "", "Input JSON file with company and invoices")
	flag.StringVar(&outputFile, "output", "", "Output file path")
	flag.StringVar(&format, "format", "pdf", "Output format: pdf or html")
	flag.StringVar(&locale, "locale", "en", "Locale for number formatting")
	flag.StringVar(&resources, "resources", "", "Comma separated directories searched for logo, seal and signature")
	flag.BoolVar(&noSeal, "no-seal", false, "Leave the company seal box empty")
	flag.BoolVar(&noSignature, "no-signature", false, "Leave the signature box empty")
	flag.IntVar(&concurrency, "concurrency", 4, "Invoices processed at once")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	if inputFile == "" {
		fmt.Println("Error: input file is required")
		flag.Usage()
		os.Exit(1)
	}

	if outputFile == "" {
		ext := filepath.Ext(inputFile)
		outputFile = inputFile[:len(inputFile)-len(ext)] + "." + format
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Level: level, Development: verbose, OutputPaths: []string{"stderr"}})
	if err != nil {
		fmt.Printf("Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	in, err := readInput(inputFile)
	if err != nil {
		fmt.Printf("Error reading input: %v\n", err)
		os.Exit(1)
	}

	opts := []api.Option{
		api.WithFormat(api.Format(format)),
		api.WithLocale(locale),
		api.WithCompany(in.Company),
		api.WithSeal(!noSeal),
		api.WithSignature(!noSignature),
		api.WithConcurrencyLimit(concurrency),
		// relative artifact references resolve next to the input file
		api.WithResourcePath(filepath.Dir(inputFile)),
	}
	for _, dir := range strings.Split(resources, ",") {
		if dir = strings.TrimSpace(dir); dir != "" {
			opts = append(opts, api.WithResourcePath(dir))
		}
	}
	if in.VATRatePercent != nil {
		opts = append(opts, api.WithVATRate(*in.VATRatePercent))
	}
	if m := in.Margins; m != nil {
		opts = append(opts, api.WithMargins(m.Top, m.Right, m.Bottom, m.Left))
	}

	generator := api.New(opts...)
	generator.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	doc, err := generator.Render(ctx, in.Invoices)
	if err != nil {
		fmt.Printf("Error generating document: %v\n", err)
		os.Exit(1)
	}
	for _, s := range doc.Result.Skipped {
		fmt.Printf("Skipped invoice %s: %v\n", s.InvoiceID, s.Err)
	}

	if err := writeOutput(outputFile, doc.Output.Data); err != nil {
		fmt.Printf("Error writing output: %v\n", err)
		os.Exit(1)
	}

	log.Infow("document written",
		"batch_id", doc.Result.BatchID,
		"output", outputFile,
		"invoices", doc.Result.Invoices,
		"pages", doc.Output.Pages)
}

func readInput(path string) (*input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	var in input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse input file: %w", err)
	}
	return &in, nil
}

func writeOutput(path string, data []byte) error {
	outputDir := filepath.Dir(path)
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}
