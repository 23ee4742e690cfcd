package scanning

import (
	"fmt"
	"log/slog"
	"strings"
)

// PDFExtractor reads invoice text from PDFs, falling back to OCR for pages
// without a text layer
type PDFExtractor struct {
	transcriber Transcriber
}

// NewPDFExtractor creates a PDFExtractor. transcriber may be nil, in which
// case scanned pages are skipped.
func NewPDFExtractor(transcriber Transcriber) *PDFExtractor {
	return &PDFExtractor{transcriber: transcriber}
}

// Extract returns the charge lines and header fields found in a PDF
func (p *PDFExtractor) Extract(pdfData []byte) (*Document, error) {
	pages, err := pdfPages(pdfData)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	skipped := 0
	for i, pageText := range pages {
		if strings.TrimSpace(pageText) == "" {
			if p.transcriber == nil {
				slog.Warn("Skipping scanned page, no OCR configured", "page", i+1)
				skipped++
				continue
			}
			pageText, err = p.ocrPage(pdfData, i)
			if err != nil {
				return nil, err
			}
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	if skipped > 0 && skipped == len(pages) {
		return nil, fmt.Errorf("reading scanned PDF: %w", ErrNoTranscriber)
	}

	return ParseText(text.String()), nil
}

func (p *PDFExtractor) ocrPage(pdfData []byte, page int) (string, error) {
	pngData, err := pdfPageToImage(pdfData, page)
	if err != nil {
		return "", err
	}
	text, err := p.transcriber.Transcribe(pngData, "image/png")
	if err != nil {
		slog.Error("Failed to transcribe page", "page", page+1, "error", err)
		return "", fmt.Errorf("transcribing page %d: %w", page+1, err)
	}
	return text, nil
}

// ImageExtractor reads invoice text from photographed or scanned images
type ImageExtractor struct {
	transcriber Transcriber
}

// NewImageExtractor creates an ImageExtractor
func NewImageExtractor(transcriber Transcriber) *ImageExtractor {
	return &ImageExtractor{transcriber: transcriber}
}

// Extract returns the charge lines and header fields found in an image
func (e *ImageExtractor) Extract(imageData []byte, contentType string) (*Document, error) {
	if e.transcriber == nil {
		return nil, fmt.Errorf("reading invoice image: %w", ErrNoTranscriber)
	}
	text, err := e.transcriber.Transcribe(imageData, contentType)
	if err != nil {
		return nil, fmt.Errorf("transcribing image: %w", err)
	}
	return ParseText(text), nil
}
