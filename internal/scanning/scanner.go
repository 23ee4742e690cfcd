package scanning

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/zombor/freight-audit/internal/charge"
)

// ErrNoTranscriber is returned when a scanned page or image needs OCR but no
// transcriber is configured
var ErrNoTranscriber = errors.New("no OCR transcriber configured")

// Document is the text-derived content of an invoice
type Document struct {
	FreightBillNumber string              `json:"freight_bill_number,omitempty"`
	TotalAmountDue    decimal.NullDecimal `json:"total_amount_due"`
	Lines             []charge.Line       `json:"lines"`
}

// Transcriber defines the interface for OCR of scanned invoice pages
type Transcriber interface {
	// Transcribe reads all text in an image and returns it line by line
	Transcribe(imageData []byte, contentType string) (string, error)
	// Close closes the transcriber and releases resources
	Close() error
}
