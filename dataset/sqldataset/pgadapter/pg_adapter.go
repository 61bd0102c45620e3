/*
Package pgadapter provides an implementation of the
Adapter interface in the sqldataset package that works
over a PostgreSQL database.
*/
package pgadapter

import (
	"database/sql"
	"fmt"

	"github.com/arbolado/chitree/dataset/sqldataset"
	"github.com/arbolado/chitree/feature"
	"github.com/lib/pq"
)

type adapter struct {
	db *sql.DB
}

/*
New takes a PostgreSQL database connection URL and returns
an Adapter that works on the database or an error if it fails to connect to it.
*/
func New(url string) (sqldataset.Adapter, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	return &adapter{db}, nil
}

func (a *adapter) DB() *sql.DB {
	return a.db
}

func (a *adapter) QuoteIdentifier(name string) string {
	return pq.QuoteIdentifier(name)
}

func (a *adapter) Placeholder(i int) string {
	return fmt.Sprintf("$%d", i)
}

func (a *adapter) ColumnType(f feature.Feature) string {
	if _, ok := f.(*feature.NumericFeature); ok {
		return "DOUBLE PRECISION"
	}
	return "TEXT"
}

func (a *adapter) Close() error {
	return a.db.Close()
}
