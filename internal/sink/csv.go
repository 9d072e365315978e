// Package sink implements table persistence for the pipeline's output
// layers. Two sinks exist: CSV files on disk and PostgreSQL.
package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/martbuild/martbuild/internal/logging"
	"github.com/martbuild/martbuild/internal/model"
)

// CSVSink writes each table to <dir>/<layer>/<name>.csv.
type CSVSink struct {
	dir string
}

// NewCSVSink creates a sink rooted at dir.
func NewCSVSink(dir string) *CSVSink {
	return &CSVSink{dir: dir}
}

// WriteTable persists one table as a CSV file, creating the layer
// directory if needed.
func (s *CSVSink) WriteTable(ctx context.Context, table model.Table) error {
	dir := filepath.Join(s.dir, filepath.FromSlash(table.Layer))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	path := filepath.Join(dir, table.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c.Name
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, v := range row {
			record[i] = formatValue(table.Columns[i].Type, v)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	logging.Info().
		Str("table", table.Name).
		Str("path", path).
		Int("rows", len(table.Rows)).
		Msg("Wrote table")
	return nil
}

// formatValue renders one value loss-lessly for its declared column type.
func formatValue(ct model.ColumnType, v any) string {
	switch ct {
	case model.TypeNumeric:
		return strconv.FormatFloat(v.(float64), 'f', -1, 64)
	case model.TypeInteger:
		return strconv.Itoa(v.(int))
	case model.TypeDate:
		return v.(time.Time).Format(model.DateFormat)
	case model.TypeTimestamp:
		return v.(time.Time).Format(time.RFC3339)
	case model.TypeBool:
		return strconv.FormatBool(v.(bool))
	default:
		return v.(string)
	}
}
