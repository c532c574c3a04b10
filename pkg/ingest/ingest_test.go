package ingest

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/tabnorm/tabnorm/pkg/classify"
	"github.com/tabnorm/tabnorm/pkg/models"
)

func newTestIngestor() *Ingestor {
	return New(log.New(io.Discard))
}

func TestProcessBytesWithHeader(t *testing.T) {
	content := []byte(`TransactionDate,Amount,Currency,Status,Description
2023-01-05,"1,234.56",USD,Completed,Coffee shop
2023-01-06,25.50,EUR,pending,Lunch`)

	res, err := newTestIngestor().ProcessBytes(content, "test1.csv", Options{HasHeader: true})
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}

	wantFields := []models.Field{"transaction_date", "amount", "currency", "status", "description"}
	if len(res.Fields) != len(wantFields) {
		t.Fatalf("expected %d fields, got %d", len(wantFields), len(res.Fields))
	}
	for i, f := range wantFields {
		if res.Fields[i] != f {
			t.Errorf("field %d: got %q, want %q", i, res.Fields[i], f)
		}
	}

	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}
	if a, ok := res.Rows[0][models.FieldAmount].Decimal(); !ok || !a.Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("row 0 amount = %v", res.Rows[0][models.FieldAmount])
	}
	if s, _ := res.Rows[0][models.FieldStatus].Text(); s != "completed" {
		t.Errorf("row 0 status = %q, want completed", s)
	}
}

func TestProcessBytesHeaderless(t *testing.T) {
	content := []byte(`2023-01-05,USD,completed,Coffee shop,$12.50
2023-01-06,EUR,pending,Lunch,"1.234,56"`)

	res, err := newTestIngestor().ProcessBytes(content, "no_header.csv", Options{})
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}

	// First row is consumed as data, not discarded.
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}
	if res.Fields[0] != models.FieldTransactionDate || res.Fields[4] != models.FieldAmount {
		t.Errorf("inferred fields wrong: %v", res.Fields)
	}
	if a, ok := res.Rows[0][models.FieldAmount].Decimal(); !ok || !a.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("row 0 amount = %v", res.Rows[0][models.FieldAmount])
	}
	if a, ok := res.Rows[1][models.FieldAmount].Decimal(); !ok || !a.Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("row 1 amount = %v", res.Rows[1][models.FieldAmount])
	}
}

func TestProcessBytesSuppliedMapping(t *testing.T) {
	content := []byte(`Coffee shop,2023-01-05,12.50,USD,completed`)
	mapping := models.ColumnMapping{
		0: models.FieldDescription,
		1: models.FieldTransactionDate,
		2: models.FieldAmount,
		3: models.FieldCurrency,
		4: models.FieldStatus,
	}

	res, err := newTestIngestor().ProcessBytes(content, "mapped.csv", Options{Mapping: mapping})
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}
	if d, _ := res.Rows[0][models.FieldDescription].Text(); d != "Coffee shop" {
		t.Errorf("description = %q", d)
	}
}

func TestProcessBytesInvalidMapping(t *testing.T) {
	cases := []struct {
		name    string
		content string
		mapping models.ColumnMapping
	}{
		{
			name:    "sparse mapping",
			content: "Coffee shop,2023-01-05,12.50",
			mapping: models.ColumnMapping{0: models.FieldDescription},
		},
		{
			name:    "no description column",
			content: "2023-01-05,12.50,USD,completed",
			mapping: models.ColumnMapping{
				0: models.FieldTransactionDate,
				1: models.FieldAmount,
				2: models.FieldCurrency,
				3: models.FieldStatus,
			},
		},
	}

	for _, c := range cases {
		_, err := newTestIngestor().ProcessBytes([]byte(c.content), "bad.csv", Options{Mapping: c.mapping})
		if err == nil {
			t.Errorf("%s: expected mapping validation error, got none", c.name)
		}
	}
}

func TestProcessBytesWidthMismatch(t *testing.T) {
	content := []byte(`TransactionDate,Amount,Currency,Status,Description
2023-01-05,10.00,USD,completed,Coffee
2023-01-06,20.00,EUR
2023-01-07,30.00,GBP,failed,Tea`)

	res, err := newTestIngestor().ProcessBytes(content, "test2.csv", Options{HasHeader: true})
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}

	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}
	if len(res.Skipped) != 1 {
		t.Fatalf("expected 1 skipped row, got %d", len(res.Skipped))
	}
	sk := res.Skipped[0]
	if sk.Line != 3 || sk.Want != 5 || sk.Got != 3 {
		t.Errorf("skipped diagnostic = %+v", sk)
	}
	// Rows after the skipped one are unaffected.
	if s, _ := res.Rows[1][models.FieldStatus].Text(); s != "failed" {
		t.Errorf("row after skip: status = %q, want failed", s)
	}
}

func TestProcessBytesFatalOnBadData(t *testing.T) {
	content := []byte(`TransactionDate,Amount,Currency,Status,Description
2023-01-05,not-a-number,USD,completed,Coffee`)

	_, err := newTestIngestor().ProcessBytes(content, "test3.csv", Options{HasHeader: true})
	if err == nil {
		t.Fatal("expected fatal normalization error, got none")
	}
	if !strings.Contains(err.Error(), "record 2") {
		t.Errorf("error should name the failing record: %v", err)
	}
}

func TestProcessBytesInferenceFailure(t *testing.T) {
	content := []byte(`2023-01-05,USD,completed,Coffee shop`)

	_, err := newTestIngestor().ProcessBytes(content, "no_header.csv", Options{})
	if err == nil {
		t.Fatal("expected inference error, got none")
	}
	var infErr *classify.InferenceError
	if !errors.As(err, &infErr) {
		t.Errorf("error is %T, want *InferenceError", err)
	}
}

func TestProcessBytesSemicolon(t *testing.T) {
	content := []byte(`TransactionDate;Amount;Currency;Status;Description
2023-01-05;1.234,56;EUR;completed;Groceries
2023-01-06;25,50;EUR;pending;Lunch`)

	res, err := newTestIngestor().ProcessBytes(content, "euro.csv", Options{HasHeader: true})
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}
	if a, ok := res.Rows[0][models.FieldAmount].Decimal(); !ok || !a.Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("row 0 amount = %v", res.Rows[0][models.FieldAmount])
	}
}

func TestProcessBytesEmpty(t *testing.T) {
	if _, err := newTestIngestor().ProcessBytes(nil, "empty.csv", Options{HasHeader: true}); err == nil {
		t.Error("expected error for empty statement, got none")
	}
}

func TestProcessFile(t *testing.T) {
	content := `TransactionDate,Amount,Currency,Status,Description
2023-01-05,10.00,USD,completed,Coffee`

	tmpFile := filepath.Join(t.TempDir(), "statement.csv")
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	res, err := newTestIngestor().ProcessFile(tmpFile, Options{HasHeader: true})
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(res.Rows))
	}
}

func TestProcessFileMissing(t *testing.T) {
	_, err := newTestIngestor().ProcessFile(filepath.Join(t.TempDir(), "nope.csv"), Options{})
	if err == nil {
		t.Error("expected error for missing file, got none")
	}
}
