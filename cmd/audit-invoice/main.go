package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/zombor/freight-audit/internal/audit"
	"github.com/zombor/freight-audit/internal/charge"
	"github.com/zombor/freight-audit/internal/export"
	"github.com/zombor/freight-audit/internal/scanning"
)

var errUsage = errors.New("usage: audit-invoice [flags] <invoice file>")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := ff.NewFlagSet("audit-invoice")
	var (
		outDir      = fs.StringLong("out", "", "Directory to write the CSV exports to (optional)")
		ocrType     = fs.StringLong("ocr", "none", "OCR backend for scanned invoices: 'none', 'gemini' or 'ollama'")
		geminiKey   = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL   = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel = fs.StringLong("ollama-model", "llava", "Ollama vision model name")
	)

	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("FREIGHT_AUDIT")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		return err
	}
	if len(fs.GetArgs()) != 1 {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		return errUsage
	}
	path := fs.GetArgs()[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading invoice: %w", err)
	}

	transcriber, err := scanning.NewTranscriber(scanning.TranscriberConfig{
		Kind:        *ocrType,
		GeminiKey:   *geminiKey,
		GeminiModel: *geminiModel,
		OllamaURL:   *ollamaURL,
		OllamaModel: *ollamaModel,
	})
	if err != nil {
		return err
	}
	if transcriber != nil {
		defer transcriber.Close()
	}

	doc, err := audit.NewLoader(transcriber).Extract(filepath.Base(path), data, "")
	if err != nil {
		return err
	}

	bundle := charge.Aggregate(charge.NewPipeline(charge.DefaultRules()).Run(doc.Lines))
	printSummary(stdout, doc, bundle)

	if *outDir == "" {
		return nil
	}
	return writeExports(*outDir, bundle)
}

func printSummary(w io.Writer, doc *scanning.Document, bundle charge.Bundle) {
	if doc.FreightBillNumber != "" {
		fmt.Fprintf(w, "freight bill    %s\n", doc.FreightBillNumber)
	}
	fmt.Fprintf(w, "rows            %d (%d excluded)\n", len(bundle.All), len(bundle.Excluded))
	fmt.Fprintf(w, "base            %s\n", bundle.Totals.Base.StringFixed(2))
	fmt.Fprintf(w, "fuel            %s\n", bundle.Totals.Fuel.StringFixed(2))
	fmt.Fprintf(w, "accessorials    %s\n", bundle.Totals.Accessorials.StringFixed(2))
	fmt.Fprintf(w, "adjustments     %s\n", bundle.Totals.Adjustments.StringFixed(2))
	fmt.Fprintf(w, "grand_included  %s\n", bundle.Totals.GrandIncluded.StringFixed(2))
	if doc.TotalAmountDue.Valid {
		variance := doc.TotalAmountDue.Decimal.Sub(bundle.Totals.GrandIncluded)
		fmt.Fprintf(w, "stated due      %s (variance %s)\n", doc.TotalAmountDue.Decimal.StringFixed(2), variance.StringFixed(2))
	}
	for _, row := range bundle.Excluded {
		fmt.Fprintf(w, "  excluded  %-32s %10s  %s\n", row.Description, row.Amount.StringFixed(2), row.ExclusionReason)
	}
}

func writeExports(dir string, bundle charge.Bundle) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, name := range export.Subsets {
		rows, err := export.Subset(bundle, name)
		if err != nil {
			return err
		}
		if err := writeExport(filepath.Join(dir, export.Filename(name)), rows); err != nil {
			return err
		}
		slog.Info("Wrote export", "subset", name, "rows", len(rows))
	}
	return nil
}

func writeExport(path string, rows []charge.ChargeRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.WriteCSV(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
