package audit

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zombor/freight-audit/internal/charge"
	"github.com/zombor/freight-audit/internal/export"
	"github.com/zombor/freight-audit/internal/scanning"
)

// IDGenerator generates unique IDs for runs
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

// ErrNoStoredFile is returned when a run's original upload was not kept
var ErrNoStoredFile = errors.New("invoice file not stored")

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now().UTC()
}

// Service loads invoices, runs the charge pipeline and keeps the audit log
type Service struct {
	db          DB
	extractor   Extractor
	storage     Storage
	pipeline    *charge.Pipeline
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service reading every supported format.
// transcriber may be nil when OCR is not configured, and storage may be nil
// to keep nothing but the run log.
func NewService(db DB, transcriber scanning.Transcriber, storage Storage) *Service {
	return NewServiceWithDeps(db, NewLoader(transcriber), storage, &uuidGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, extractor Extractor, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		extractor:   extractor,
		storage:     storage,
		pipeline:    charge.NewPipeline(charge.DefaultRules()),
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	repeatedSpaces      = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	base = unsafeFilenameChars.ReplaceAllString(base, "")
	base = repeatedSpaces.ReplaceAllString(strings.TrimSpace(base), "_")

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "invoice"
	}

	return base + ext
}

// ProcessInvoice classifies an uploaded invoice's lines and records the run.
// The upload itself is only kept when the service has storage.
func (s *Service) ProcessInvoice(filename string, data []byte, contentType string) (*Result, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	doc, err := s.extractor.Extract(filename, data, contentType)
	if err != nil {
		slog.Error("Failed to extract invoice",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, fmt.Errorf("extracting invoice: %w", err)
	}

	var savedPath string
	if s.storage != nil {
		savedPath, err = s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
		if err != nil {
			return nil, fmt.Errorf("saving file: %w", err)
		}
	}

	bundle := charge.Aggregate(s.pipeline.Run(doc.Lines))

	run := &Run{
		ID:                id,
		Filename:          filename,
		StoredPath:        savedPath,
		ContentType:       contentType,
		FreightBillNumber: doc.FreightBillNumber,
		StatedTotalDue:    doc.TotalAmountDue,
		Variance:          variance(doc.TotalAmountDue, bundle.Totals),
		Totals:            bundle.Totals,
		Counts:            countRows(bundle),
		Rows:              bundle.All,
		CreatedAt:         now,
	}

	if err := s.db.AppendRun(run); err != nil {
		if savedPath != "" {
			s.storage.Delete(savedPath)
		}
		return nil, fmt.Errorf("recording run: %w", err)
	}

	slog.Info("Processed invoice",
		"run_id", run.ID,
		"filename", filename,
		"lines", run.Counts.Total,
		"excluded", run.Counts.Excluded,
		"grand_included", run.Totals.GrandIncluded.StringFixed(2),
	)
	if run.Variance.Valid && !run.Variance.Decimal.IsZero() {
		slog.Warn("Invoice total does not match included charges",
			"run_id", run.ID,
			"stated_total_due", run.StatedTotalDue.Decimal.StringFixed(2),
			"variance", run.Variance.Decimal.StringFixed(2),
		)
	}

	return &Result{Run: run, Bundle: bundle}, nil
}

// GetResult returns a logged run with the bundle rebuilt from its recorded rows
func (s *Service) GetResult(id string) (*Result, error) {
	run, err := s.db.GetRun(id)
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}
	return &Result{Run: run, Bundle: charge.Aggregate(run.Rows)}, nil
}

// ExportRun writes one subset of a run's rows as CSV
func (s *Service) ExportRun(id string, subset string, w io.Writer) error {
	result, err := s.GetResult(id)
	if err != nil {
		return err
	}
	rows, err := export.Subset(result.Bundle, subset)
	if err != nil {
		return err
	}
	return export.WriteCSV(w, rows)
}

// GetRun retrieves a run by ID
func (s *Service) GetRun(id string) (*Run, error) {
	run, err := s.db.GetRun(id)
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}
	return run, nil
}

// ListRuns returns all logged runs
func (s *Service) ListRuns() ([]*Run, error) {
	runs, err := s.db.ListRuns()
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// GetInvoiceFile retrieves the original uploaded file for a run
func (s *Service) GetInvoiceFile(id string) ([]byte, string, error) {
	run, err := s.db.GetRun(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting run: %w", err)
	}
	if s.storage == nil || run.StoredPath == "" {
		return nil, "", fmt.Errorf("%w: %s", ErrNoStoredFile, id)
	}

	data, err := s.storage.Get(run.StoredPath)
	if err != nil {
		return nil, "", fmt.Errorf("getting invoice file: %w", err)
	}

	return data, contentTypeFor(run.Filename, run.ContentType), nil
}
