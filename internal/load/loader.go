// Package load writes the normalized tables into Postgres.
//
// A load runs in a single transaction: optionally drop the schema's tables,
// create them in catalog order, copy the rows, then add the foreign key
// constraints once every table holds its data. Any failure rolls the whole
// load back.
package load

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/cohort/internal/logging"
	"github.com/JonMunkholm/cohort/internal/schema"
	"github.com/JonMunkholm/cohort/internal/table"
)

// DB is the subset of a pgx pool the loader needs.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Options tunes how rows are written.
type Options struct {
	DropExisting bool          // drop the schema's tables first
	UseCopy      bool          // COPY rows instead of batched INSERTs
	BatchSize    int           // rows per INSERT statement
	Timeout      time.Duration // bound for the whole load; zero means none
}

// TableSummary reports one loaded table.
type TableSummary struct {
	Table string
	Rows  int64
}

// Summary reports a finished load.
type Summary struct {
	Tables      []TableSummary
	Rows        int64
	ForeignKeys int
}

// Loader writes catalog outputs to a database.
type Loader struct {
	db   DB
	opts Options
}

// New creates a loader.
func New(db DB, opts Options) *Loader {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 500
	}
	return &Loader{db: db, opts: opts}
}

type prepared struct {
	out  schema.Output
	rows [][]any
}

// Load writes every output of catalog from tables. Each table is reduced to
// the catalog's columns; a table missing from tables is an error.
func (l *Loader) Load(ctx context.Context, catalog *schema.Catalog, tables map[string]*table.Table) (*Summary, error) {
	outputs := catalog.Outputs()

	batch := make([]prepared, 0, len(outputs))
	for _, out := range outputs {
		t, ok := tables[out.Name]
		if !ok {
			return nil, fmt.Errorf("table not found: %s", out.Name)
		}
		projected, err := t.Project(out.ColumnNames()...)
		if err != nil {
			return nil, err
		}
		rows, err := buildRows(projected.Rows, out)
		if err != nil {
			return nil, err
		}
		batch = append(batch, prepared{out: out, rows: rows})
	}

	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}

	logger := logging.FromContext(ctx)
	start := time.Now()
	summary := &Summary{}

	err := l.withTransaction(ctx, func(tx pgx.Tx) error {
		if l.opts.DropExisting {
			for _, p := range slices.Backward(batch) {
				if _, err := tx.Exec(ctx, dropTableSQL(p.out)); err != nil {
					return fmt.Errorf("dropping %s: %w", p.out.Name, describe(err))
				}
			}
		}

		for _, p := range batch {
			if _, err := tx.Exec(ctx, createTableSQL(p.out)); err != nil {
				return fmt.Errorf("creating %s: %w", p.out.Name, describe(err))
			}
			n, err := l.writeRows(ctx, tx, p)
			if err != nil {
				return fmt.Errorf("loading %s: %w", p.out.Name, describe(err))
			}
			summary.Tables = append(summary.Tables, TableSummary{Table: p.out.Name, Rows: n})
			summary.Rows += n
			logger.Debug("table loaded", "table", p.out.Name, "rows", n)
		}

		for _, p := range batch {
			for _, fk := range p.out.ForeignKeys {
				if _, err := tx.Exec(ctx, foreignKeySQL(p.out, fk)); err != nil {
					return fmt.Errorf("adding %s: %w", constraintName(p.out, fk), describe(err))
				}
				summary.ForeignKeys++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("load complete",
		"tables", len(summary.Tables),
		"rows", summary.Rows,
		"foreign_keys", summary.ForeignKeys,
		"duration", time.Since(start),
	)
	return summary, nil
}

func (l *Loader) withTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := l.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", describe(err))
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				logging.FromContext(ctx).Warn("transaction rollback failed", "error", rbErr)
			}
		} else if err = tx.Commit(ctx); err != nil {
			err = fmt.Errorf("committing load: %w", describe(err))
		}
	}()
	err = fn(tx)
	return err
}

func (l *Loader) writeRows(ctx context.Context, tx pgx.Tx, p prepared) (int64, error) {
	if len(p.rows) == 0 {
		return 0, nil
	}
	cols := p.out.ColumnNames()

	if l.opts.UseCopy {
		return tx.CopyFrom(ctx, pgx.Identifier{p.out.Name}, cols, pgx.CopyFromRows(p.rows))
	}

	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}

	var total int64
	for chunk := range slices.Chunk(p.rows, l.opts.BatchSize) {
		q := squirrel.Insert(pgx.Identifier{p.out.Name}.Sanitize()).
			Columns(quoted...).
			PlaceholderFormat(squirrel.Dollar)
		for _, row := range chunk {
			q = q.Values(row...)
		}
		query, args, err := q.ToSql()
		if err != nil {
			return total, fmt.Errorf("building insert query: %w", err)
		}
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return total, err
		}
		total += tag.RowsAffected()
	}
	return total, nil
}

func dropTableSQL(out schema.Output) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", pgx.Identifier{out.Name}.Sanitize())
}

// createTableSQL declares the output's columns. Junction tables get no
// primary key: a subject may list the same attribute twice.
func createTableSQL(out schema.Output) string {
	defs := make([]string, 0, len(out.Columns)+1)
	for _, c := range out.Columns {
		defs = append(defs, pgx.Identifier{c.Name}.Sanitize()+" "+c.Type.SQLType())
	}
	if !out.Junction {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", pgx.Identifier{table.KeyColumn}.Sanitize()))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", pgx.Identifier{out.Name}.Sanitize(), strings.Join(defs, ", "))
}

func constraintName(out schema.Output, fk schema.ForeignKey) string {
	return "fk_" + out.Name + "_" + fk.References
}

func foreignKeySQL(out schema.Output, fk schema.ForeignKey) string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
		pgx.Identifier{out.Name}.Sanitize(),
		pgx.Identifier{constraintName(out, fk)}.Sanitize(),
		pgx.Identifier{fk.Column}.Sanitize(),
		pgx.Identifier{fk.References}.Sanitize(),
		pgx.Identifier{table.KeyColumn}.Sanitize(),
	)
}

// describe adds the server's detail and constraint to Postgres errors.
func describe(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	msg := pgErr.Message
	if pgErr.ConstraintName != "" {
		msg += " (constraint " + pgErr.ConstraintName + ")"
	}
	if pgErr.Detail != "" {
		msg += ": " + pgErr.Detail
	}
	return fmt.Errorf("%s [%s]: %w", msg, pgErr.Code, err)
}
