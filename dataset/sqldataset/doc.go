/*
Package sqldataset reads samples from and writes samples to SQL database
tables.

A table holds a column per feature named after it, plus any other columns,
which are ignored. Discrete values are stored as text and numeric values as
floating point numbers, with NULL for undefined values. Database specifics
are provided by an Adapter, such as the ones in the sqlite3adapter and
pgadapter packages.
*/
package sqldataset
