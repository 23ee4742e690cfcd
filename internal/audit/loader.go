package audit

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zombor/freight-audit/internal/scanning"
	"github.com/zombor/freight-audit/internal/tabular"
)

// ErrUnsupportedFormat is returned for files the loader cannot read
var ErrUnsupportedFormat = errors.New("unsupported file format, upload CSV, XLSX, PDF or an image")

// Extractor turns an uploaded invoice file into charge lines
type Extractor interface {
	Extract(filename string, data []byte, contentType string) (*scanning.Document, error)
}

type format int

const (
	formatUnknown format = iota
	formatCSV
	formatXLSX
	formatPDF
	formatImage
)

var extensionFormats = map[string]format{
	".csv":  formatCSV,
	".xlsx": formatXLSX,
	".pdf":  formatPDF,
	".png":  formatImage,
	".jpg":  formatImage,
	".jpeg": formatImage,
	".gif":  formatImage,
	".heic": formatImage,
	".heif": formatImage,
}

var extensionContentTypes = map[string]string{
	".csv":  "text/csv",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".heic": "image/heic",
	".heif": "image/heif",
}

// detectFormat decides how to read a file. The extension wins when there is
// one; files without an extension fall back to the content type.
func detectFormat(filename string, contentType string) format {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		return extensionFormats[ext]
	}

	contentType = strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(contentType, "text/csv"):
		return formatCSV
	case strings.HasPrefix(contentType, extensionContentTypes[".xlsx"]):
		return formatXLSX
	case strings.HasPrefix(contentType, "application/pdf"):
		return formatPDF
	case strings.HasPrefix(contentType, "image/"):
		return formatImage
	}
	return formatUnknown
}

// contentTypeFor fills in a content type from the file extension when the
// client did not send one
func contentTypeFor(filename string, contentType string) string {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	if ct, ok := extensionContentTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Loader reads invoices of every supported format
type Loader struct {
	pdf    *scanning.PDFExtractor
	images *scanning.ImageExtractor
}

// NewLoader creates a Loader. transcriber provides OCR for scanned pages and
// images and may be nil.
func NewLoader(transcriber scanning.Transcriber) *Loader {
	return &Loader{
		pdf:    scanning.NewPDFExtractor(transcriber),
		images: scanning.NewImageExtractor(transcriber),
	}
}

// Extract reads an invoice file into a Document
func (l *Loader) Extract(filename string, data []byte, contentType string) (*scanning.Document, error) {
	switch detectFormat(filename, contentType) {
	case formatCSV:
		header, records, err := tabular.ReadCSV(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return tabularDocument(header, records)
	case formatXLSX:
		header, records, err := tabular.ReadXLSX(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return tabularDocument(header, records)
	case formatPDF:
		return l.pdf.Extract(data)
	case formatImage:
		return l.images.Extract(data, contentTypeFor(filename, contentType))
	default:
		return nil, fmt.Errorf("%w (got %q)", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func tabularDocument(header []string, records [][]string) (*scanning.Document, error) {
	lines, err := tabular.Lines(header, records)
	if err != nil {
		return nil, err
	}
	return &scanning.Document{Lines: lines}, nil
}
