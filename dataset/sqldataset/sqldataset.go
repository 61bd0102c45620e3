package sqldataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/arbolado/chitree/dataset"
	"github.com/arbolado/chitree/feature"
)

// DefaultTable is the name of the table samples are read from when none is given
const DefaultTable = "samples"

/*
Adapter is an interface providing the database specifics needed to read and
write samples.

Its DB method returns the database connection.

Its QuoteIdentifier method returns the given table or column name quoted to
be used in a statement.

Its Placeholder method returns the placeholder for the i-th (starting on 1)
parameter of a statement.

Its ColumnType method returns the type of the column holding values for the
given feature.
*/
type Adapter interface {
	DB() *sql.DB
	QuoteIdentifier(string) string
	Placeholder(int) string
	ColumnType(feature.Feature) string
	Close() error
}

/*
ReadSamples takes a context, an adapter, a table name and a schema and
returns the samples stored on the table, with a value for every feature of
the schema read from the column with the feature's name.
*/
func ReadSamples(ctx context.Context, a Adapter, table string, schema *dataset.Schema) ([]dataset.Sample, error) {
	features := schema.Features()
	columns := make([]string, len(features))
	for i, f := range features {
		columns[i] = a.QuoteIdentifier(f.Name())
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns, ", "), a.QuoteIdentifier(table))
	rows, err := a.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying samples from %s: %w", table, err)
	}
	defer rows.Close()
	raw := make([]sql.NullString, len(features))
	dest := make([]interface{}, len(features))
	for i := range raw {
		dest[i] = &raw[i]
	}
	var samples []dataset.Sample
	for rows.Next() {
		if err = rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning sample %d from %s: %w", len(samples)+1, table, err)
		}
		values := make([]interface{}, len(features))
		for i, f := range features {
			if !raw[i].Valid {
				continue
			}
			values[i], err = dataset.ParseValue(f, raw[i].String)
			if err != nil {
				return nil, fmt.Errorf("parsing sample %d from %s: %w", len(samples)+1, table, err)
			}
		}
		sample, err := schema.NewSample(values)
		if err != nil {
			return nil, fmt.Errorf("parsing sample %d from %s: %w", len(samples)+1, table, err)
		}
		samples = append(samples, sample)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("reading samples from %s: %w", table, err)
	}
	return samples, nil
}

/*
WriteSamples takes a context, an adapter, a table name, a slice of features
and a slice of samples, creates the table if it does not exist and inserts
the samples' values for the features into it within a single transaction.
It returns the number of samples written or an error.
*/
func WriteSamples(ctx context.Context, a Adapter, table string, features []feature.Feature, samples []dataset.Sample) (int, error) {
	columns := make([]string, len(features))
	definitions := make([]string, len(features))
	placeholders := make([]string, len(features))
	for i, f := range features {
		columns[i] = a.QuoteIdentifier(f.Name())
		definitions[i] = fmt.Sprintf("%s %s NULL", columns[i], a.ColumnType(f))
		placeholders[i] = a.Placeholder(i + 1)
	}
	quotedTable := a.QuoteIdentifier(table)
	createStmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quotedTable, strings.Join(definitions, ", "))
	if _, err := a.DB().ExecContext(ctx, createStmt); err != nil {
		return 0, fmt.Errorf("ensuring table %s exists: %w", table, err)
	}
	tx, err := a.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	insertStmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quotedTable, strings.Join(columns, ", "), strings.Join(placeholders, ", ")))
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("preparing insert statement: %w", err)
	}
	defer insertStmt.Close()
	args := make([]interface{}, len(features))
	for n, s := range samples {
		for i, f := range features {
			args[i], err = s.ValueFor(f)
			if err != nil {
				tx.Rollback()
				return 0, err
			}
		}
		if _, err = insertStmt.ExecContext(ctx, args...); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("inserting sample %d: %w", n+1, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing samples: %w", err)
	}
	return len(samples), nil
}
