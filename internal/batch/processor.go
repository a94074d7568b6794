// Package batch extracts every statement in a directory and exports each one
// to its own files. Files are independent: one failure never stops the others.
package batch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fjacquet/statement-parser/internal/dateutils"
	"fjacquet/statement-parser/internal/export"
	"fjacquet/statement-parser/internal/fileutils"
	"fjacquet/statement-parser/internal/logging"
	"fjacquet/statement-parser/internal/models"
	"fjacquet/statement-parser/internal/pipelineerror"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of statements extracted at once.
const DefaultConcurrency = 2

// Extractor turns one document into a validated ledger.
type Extractor interface {
	Extract(ctx context.Context, document []byte, mimeType string) (models.ExtractionResult, error)
}

// Options configures a Processor.
type Options struct {
	OutputDir   string
	Concurrency int
	// Formats lists the export formats written per file; empty means CSV and JSON.
	Formats []string
	// Now stamps output file names. Defaults to time.Now.
	Now func() time.Time
}

// DateRange is the span of transaction dates found in one ledger.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the range as "YYYY-MM-DD_YYYY-MM-DD", or "" when unknown.
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s", dateutils.ToISODate(dr.Start), dateutils.ToISODate(dr.End))
}

// Merge combines two ranges into the smallest range covering both.
func (dr DateRange) Merge(other DateRange) DateRange {
	start, end := dr.Start, dr.End
	if start.IsZero() || (!other.Start.IsZero() && other.Start.Before(start)) {
		start = other.Start
	}
	if end.IsZero() || (!other.End.IsZero() && other.End.After(end)) {
		end = other.End
	}
	return DateRange{Start: start, End: end}
}

// LedgerDateRange computes the range of the parseable dates in a ledger.
// Rows whose date cannot be parsed are ignored.
func LedgerDateRange(transactions []models.Transaction) DateRange {
	var dr DateRange
	for _, tx := range transactions {
		t, _, err := dateutils.ParseDate(tx.Date)
		if err != nil {
			continue
		}
		dr = dr.Merge(DateRange{Start: t, End: t})
	}
	return dr
}

// FileResult records the outcome for one statement file.
type FileResult struct {
	File      string
	MIMEType  string
	Count     int
	DateRange DateRange
	Outputs   []string
	// Skipped is set when the statement held no transactions: nothing was
	// written, and the file does not count as failed.
	Skipped bool
	Err     error
}

// Report is the outcome of a batch run, in input file order.
type Report struct {
	Results []FileResult
}

// Succeeded counts the files that were extracted and exported.
func (r Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil && !res.Skipped {
			n++
		}
	}
	return n
}

// Skipped returns the results of statements without transactions.
func (r Report) Skipped() []FileResult {
	var skipped []FileResult
	for _, res := range r.Results {
		if res.Skipped {
			skipped = append(skipped, res)
		}
	}
	return skipped
}

// Failed returns the results that carry an error.
func (r Report) Failed() []FileResult {
	var failed []FileResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Processor runs extraction and export over a directory of statements.
type Processor struct {
	extractor Extractor
	logger    logging.Logger
	opts      Options
}

// NewProcessor creates a Processor. A concurrency below one falls back to
// DefaultConcurrency and an empty output directory means the current one.
func NewProcessor(extractor Extractor, logger logging.Logger, opts Options) *Processor {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = DefaultConcurrency
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{export.FormatCSV, export.FormatJSON}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Processor{extractor: extractor, logger: logger, opts: opts}
}

// Run processes every statement in inputDir. The returned error is reserved
// for problems with the run itself: an unreadable input directory or a
// cancelled context. Per-file failures are in the report.
func (p *Processor) Run(ctx context.Context, inputDir string) (Report, error) {
	files, err := fileutils.ListStatementFiles(inputDir)
	if err != nil {
		return Report{}, err
	}
	if err := fileutils.EnsureDirectoryExists(p.opts.OutputDir); err != nil {
		return Report{}, err
	}

	p.logger.Info("Starting batch run",
		logging.Field{Key: logging.FieldCount, Value: len(files)},
		logging.Field{Key: "concurrency", Value: p.opts.Concurrency})

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = FileResult{File: file, Err: err}
				return err
			}
			results[i] = p.processFile(gctx, file)
			return nil
		})
	}

	report := Report{Results: results}
	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return report, fmt.Errorf("batch run interrupted: %w", err)
	}

	p.logger.Info("Batch run finished",
		logging.Field{Key: logging.FieldCount, Value: report.Succeeded()},
		logging.Field{Key: "skipped", Value: len(report.Skipped())},
		logging.Field{Key: "failed", Value: len(report.Failed())})
	return report, nil
}

func (p *Processor) processFile(ctx context.Context, file string) FileResult {
	res := FileResult{File: file}
	log := p.logger.WithField(logging.FieldFile, file)

	data, err := fileutils.ReadFile(file)
	if err != nil {
		res.Err = err
		log.WithError(err).Warn("Skipping unreadable statement")
		return res
	}
	res.MIMEType = fileutils.DetectMIMEType(file, data)

	result, err := p.extractor.Extract(ctx, data, res.MIMEType)
	if err != nil {
		res.Err = err
		log.WithError(err).Warn("Statement extraction failed")
		return res
	}
	res.Count = len(result.Transactions)
	res.DateRange = LedgerDateRange(result.Transactions)

	base := fileutils.BaseName(file)
	now := p.opts.Now()
	for _, format := range p.opts.Formats {
		content, err := render(format, result.Transactions)
		if pipelineerror.KindOf(err) == pipelineerror.KindEmptyLedger {
			res.Skipped = true
			log.Warn("Nothing to export: the statement has no transactions")
			return res
		}
		if err != nil {
			res.Err = err
			log.WithError(err).Warn("Statement export failed")
			return res
		}
		path, err := export.WriteFile(p.opts.OutputDir, export.FileName(base, export.Extension(format), now), content)
		if err != nil {
			res.Err = err
			log.WithError(err).Warn("Could not write export file")
			return res
		}
		res.Outputs = append(res.Outputs, path)
	}

	log.Info("Statement processed",
		logging.Field{Key: logging.FieldCount, Value: res.Count},
		logging.Field{Key: "date_range", Value: res.DateRange.String()})
	return res
}

func render(format string, transactions []models.Transaction) (string, error) {
	switch strings.ToUpper(format) {
	case export.FormatCSV:
		return export.ToCSV(transactions)
	case export.FormatJSON:
		return export.ToJSON(transactions)
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}

// WithOutputDir returns a copy of the processor writing to dir. An empty dir
// keeps the current output directory.
func (p *Processor) WithOutputDir(dir string) *Processor {
	cp := *p
	if dir != "" {
		cp.opts.OutputDir = dir
	}
	return &cp
}
