package sink

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/martbuild/martbuild/internal/logging"
	"github.com/martbuild/martbuild/internal/model"
)

// batchSize is the number of rows per INSERT statement.
const batchSize = 1000

// PostgresSink persists tables into a PostgreSQL database. Each layer
// becomes a schema (bronze, silver, gold) and each table is dropped and
// recreated on every run, matching the overwrite semantics of the CSV
// sink.
type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgresSink creates a sink writing through the given pool.
func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

// WriteTable persists one table, replacing any previous version.
func (s *PostgresSink) WriteTable(ctx context.Context, table model.Table) error {
	schema := table.Layer
	if i := strings.IndexByte(schema, '/'); i >= 0 {
		schema = schema[:i]
	}
	qualified := fmt.Sprintf("%s.%s", schema, table.Name)

	if _, err := s.pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)); err != nil {
		return fmt.Errorf("creating schema %s: %w", schema, err)
	}
	if _, err := s.pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", qualified)); err != nil {
		return fmt.Errorf("dropping %s: %w", qualified, err)
	}
	if _, err := s.pool.Exec(ctx, createTableSQL(qualified, table.Columns)); err != nil {
		return fmt.Errorf("creating %s: %w", qualified, err)
	}

	columns := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		columns[i] = quoteIdent(c.Name)
	}
	columnList := "(" + strings.Join(columns, ", ") + ")"

	batch := make([]string, 0, batchSize)
	for _, row := range table.Rows {
		values := make([]string, len(row))
		for i, v := range row {
			values[i] = sqlLiteral(table.Columns[i].Type, v)
		}
		batch = append(batch, "("+strings.Join(values, ", ")+")")

		if len(batch) >= batchSize {
			if err := s.insertBatch(ctx, qualified, columnList, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := s.insertBatch(ctx, qualified, columnList, batch); err != nil {
			return err
		}
	}

	logging.Info().
		Str("table", qualified).
		Int("rows", len(table.Rows)).
		Msg("Wrote table")
	return nil
}

func (s *PostgresSink) insertBatch(ctx context.Context, table, columns string, values []string) error {
	sql := fmt.Sprintf("INSERT INTO %s %s VALUES %s", table, columns, strings.Join(values, ", "))
	if _, err := s.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("inserting into %s: %w", table, err)
	}
	return nil
}

func createTableSQL(qualified string, columns []model.Column) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(c.Name), sqlType(c.Type))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", qualified, strings.Join(defs, ", "))
}

func sqlType(ct model.ColumnType) string {
	switch ct {
	case model.TypeNumeric:
		return "DOUBLE PRECISION"
	case model.TypeInteger:
		return "INTEGER"
	case model.TypeDate:
		return "DATE"
	case model.TypeTimestamp:
		return "TIMESTAMPTZ"
	case model.TypeBool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

// quoteIdent quotes a column name. The provenance columns start with an
// underscore and several names shadow SQL keywords.
func quoteIdent(name string) string {
	return `"` + name + `"`
}

func sqlLiteral(ct model.ColumnType, v any) string {
	switch ct {
	case model.TypeNumeric:
		return strconv.FormatFloat(v.(float64), 'f', -1, 64)
	case model.TypeInteger:
		return strconv.Itoa(v.(int))
	case model.TypeDate:
		return "'" + v.(time.Time).Format(model.DateFormat) + "'"
	case model.TypeTimestamp:
		return "'" + v.(time.Time).UTC().Format(time.RFC3339) + "'"
	case model.TypeBool:
		if v.(bool) {
			return "TRUE"
		}
		return "FALSE"
	default:
		return "'" + escapeSingleQuote(v.(string)) + "'"
	}
}

func escapeSingleQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
