// Package extract reads the cleaned flat tables produced by the extraction
// jobs: one CSV file per input table, named after the table.
//
// Cells are coerced to the types of the table's field specs. Text is kept as
// is, numbers become int, flags become bool and dates become [day, month,
// year] triples. Empty cells are null.
package extract

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/cohort/internal/logging"
	"github.com/JonMunkholm/cohort/internal/schema"
	"github.com/JonMunkholm/cohort/internal/table"
)

// MaxConcurrentReads bounds how many input files are read at once.
const MaxConcurrentReads = 4

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CellError locates a cell that cannot be coerced to its field type.
type CellError struct {
	Source string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("%s line %d column %q: invalid value %q: %v", e.Source, e.Line, e.Column, e.Value, e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }

// ReadTable reads one CSV stream into a table shaped by in. Columns of the
// file that in does not declare are ignored; optional columns missing from
// the file read as null. source names the stream in errors.
func ReadTable(r io.Reader, in schema.Input, source string) (*table.Table, error) {
	records, err := parseCSV(r)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid csv: %w", source, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", source)
	}

	headerRow := findHeader(records, in.Fields)
	if headerRow < 0 {
		err := ValidateHeaders(MakeHeaderIndex(records[0]), in.Fields)
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	idx := MakeHeaderIndex(records[headerRow])

	t := &table.Table{Name: in.Name, Columns: in.Columns()}
	for i := headerRow + 1; i < len(records); i++ {
		row := records[i]
		if isEmptyRow(row) {
			continue
		}

		rec := make(table.Record, len(in.Fields))
		for _, f := range in.Fields {
			pos, ok := idx[strings.ToLower(f.Name)]
			if !ok || pos >= len(row) {
				rec[f.Name] = nil
				continue
			}
			raw := CleanCell(strings.ToValidUTF8(row[pos], "\uFFFD"))
			v, err := ParseCell(raw, f.Type)
			if err != nil {
				return nil, &CellError{Source: source, Line: i + 1, Column: f.Name, Value: raw, Err: err}
			}
			rec[f.Name] = v
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// ReadFile reads the CSV file at path into a table shaped by in.
func ReadFile(path string, in schema.Input) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("input file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return ReadTable(f, in, filepath.Base(path))
}

// ReadDir reads "<name>.csv" from dir for every input of the catalog.
// Files are read concurrently; the first failure cancels the rest.
func ReadDir(ctx context.Context, dir string, catalog *schema.Catalog) (map[string]*table.Table, error) {
	logger := logging.FromContext(ctx)

	var mu sync.Mutex
	tables := make(map[string]*table.Table)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentReads)

	for _, in := range catalog.Inputs() {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, in.Name+".csv")
			t, err := ReadFile(path, in)
			if err != nil {
				return err
			}
			logger.Debug("input read", "table", in.Name, "rows", t.Len())

			mu.Lock()
			tables[in.Name] = t
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Info("inputs read", "dir", dir, "tables", len(tables))
	return tables, nil
}

// parseCSV reads all records, skipping a leading UTF-8 byte order mark.
func parseCSV(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.ReadAll()
}
