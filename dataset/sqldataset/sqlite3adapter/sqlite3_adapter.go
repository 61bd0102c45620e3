/*
Package sqlite3adapter provides an implementation of the
Adapter interface in the sqldataset package that works
over an SQLite3 database.
*/
package sqlite3adapter

import (
	"database/sql"
	"strings"

	"github.com/arbolado/chitree/dataset/sqldataset"
	"github.com/arbolado/chitree/feature"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

type adapter struct {
	db *sql.DB
}

/*
New takes a path to an SQLite3 database file and returns an Adapter that works
on the file's database or an error if it fails to open as an sqlite3 database.
The maxConns parameter limits the number of open connections, with 0 meaning
no limit.
*/
func New(path string, maxConns int) (sqldataset.Adapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxConns)
	return &adapter{db}, nil
}

func (a *adapter) DB() *sql.DB {
	return a.db
}

func (a *adapter) QuoteIdentifier(name string) string {
	return `"` + strings.Replace(name, `"`, `""`, -1) + `"`
}

func (a *adapter) Placeholder(int) string {
	return "?"
}

func (a *adapter) ColumnType(f feature.Feature) string {
	if _, ok := f.(*feature.NumericFeature); ok {
		return "REAL"
	}
	return "TEXT"
}

func (a *adapter) Close() error {
	return a.db.Close()
}
