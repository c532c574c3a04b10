// Package ingest orchestrates statement processing: delimiter sniffing,
// header or column-mapping resolution, and row-by-row normalization with
// per-row fault isolation for width mismatches.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tabnorm/tabnorm/pkg/classify"
	"github.com/tabnorm/tabnorm/pkg/models"
	"github.com/tabnorm/tabnorm/pkg/normalize"
	"github.com/tabnorm/tabnorm/pkg/sniff"
)

// Options control how a single statement is interpreted.
type Options struct {
	// HasHeader declares that the first line names its columns.
	HasHeader bool
	// Mapping overrides column inference for headerless statements.
	Mapping models.ColumnMapping
}

// SkippedRow records a data row dropped because its column count did not
// match the header. Width mismatch is the only recoverable per-row defect;
// callers get the full diagnostic rather than a console side effect.
type SkippedRow struct {
	Line   int // 1-based record number within the statement
	Want   int
	Got    int
	Record []string
}

// Result is the normalized output of one statement. Rows keep the input
// order; Fields keep the physical column order.
type Result struct {
	Fields  []models.Field
	Rows    []models.Row
	Skipped []SkippedRow
}

type Ingestor struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Ingestor {
	return &Ingestor{logger: logger}
}

// ProcessFile reads and normalizes one statement file.
func (g *Ingestor) ProcessFile(path string, opts Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return g.ProcessBytes(data, filepath.Base(path), opts)
}

// ProcessBytes normalizes a statement held in memory. The filename is used
// to route .xls workbooks past delimiter sniffing; everything else is
// treated as delimited text.
func (g *Ingestor) ProcessBytes(data []byte, filename string, opts Options) (*Result, error) {
	records, err := g.readRecords(data, filename)
	if err != nil {
		return nil, err
	}
	return g.processRecords(records, filename, opts)
}

// processRecords runs the header/mapping branch and per-row normalization
// over an already-extracted record grid. Text and workbook input converge
// here.
func (g *Ingestor) processRecords(records [][]string, filename string, opts Options) (*Result, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("statement %s is empty", filename)
	}

	result := &Result{}
	var fields []models.Field

	if opts.HasHeader {
		fields = classify.NormalizeHeaders(records[0])
	} else {
		first := records[0]
		mapping := opts.Mapping
		if mapping == nil {
			inferred, err := classify.Infer(first)
			if err != nil {
				return nil, err
			}
			mapping = inferred
		} else if err := mapping.Validate(len(first)); err != nil {
			return nil, err
		}
		ordered, err := mapping.Fields(len(first))
		if err != nil {
			return nil, err
		}
		fields = ordered
		// The first row is data, not a header: it is consumed here.
		row, err := normalize.Row(fields, first)
		if err != nil {
			return nil, fmt.Errorf("record 1: %w", err)
		}
		result.Rows = append(result.Rows, row)
	}
	result.Fields = fields

	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) == 0 {
			continue
		}
		line := i + 1
		if len(rec) != len(fields) {
			g.logger.Warn("column count mismatch, skipping row",
				"file", filename, "record", line, "want", len(fields), "got", len(rec))
			result.Skipped = append(result.Skipped, SkippedRow{
				Line:   line,
				Want:   len(fields),
				Got:    len(rec),
				Record: rec,
			})
			continue
		}
		row, err := normalize.Row(fields, rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", line, err)
		}
		result.Rows = append(result.Rows, row)
	}

	g.logger.Debug("statement processed",
		"file", filename, "rows", len(result.Rows), "skipped", len(result.Skipped))
	return result, nil
}

func (g *Ingestor) readRecords(data []byte, filename string) ([][]string, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".xls") {
		return readWorkbookRows(data)
	}

	sample := data
	if len(sample) > sniff.SampleSize {
		sample = sample[:sniff.SampleSize]
	}
	delimiter := sniff.Detect(sample)
	g.logger.Debug("detected delimiter", "file", filename, "delimiter", string(delimiter))

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delimiter
	r.FieldsPerRecord = -1 // widths are validated per row above
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return records, nil
}
