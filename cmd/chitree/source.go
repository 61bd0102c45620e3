package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/arbolado/chitree/dataset"
	"github.com/arbolado/chitree/dataset/csv"
	"github.com/arbolado/chitree/dataset/mongodataset"
	"github.com/arbolado/chitree/dataset/sqldataset"
	"github.com/arbolado/chitree/dataset/sqldataset/pgadapter"
	"github.com/arbolado/chitree/dataset/sqldataset/sqlite3adapter"
	"github.com/arbolado/chitree/feature/yaml"
	"github.com/rs/zerolog/log"
)

/*
source describes where samples are read from or written to: a CSV file
(STDIN or STDOUT when empty), an SQLite3 file ending in .db, a PostgreSQL URL
or a MongoDB URL. Table names the SQL table or MongoDB collection.
*/
type source struct {
	location   string
	table      string
	maxDBConns int
}

func (s source) String() string {
	if s.location == "" {
		return "STDIN"
	}
	return s.location
}

func (s source) readSamples(ctx context.Context, md *yaml.Metadata, schema *dataset.Schema) ([]dataset.Sample, error) {
	switch {
	case strings.HasPrefix(s.location, "postgresql://"), strings.HasPrefix(s.location, "postgres://"):
		log.Debug().Str("table", s.table).Msg("Reading samples from PostgreSQL")
		adapter, err := pgadapter.New(s.location)
		if err != nil {
			return nil, err
		}
		defer adapter.Close()
		return sqldataset.ReadSamples(ctx, adapter, s.table, schema)
	case strings.HasPrefix(s.location, "mongodb://"):
		log.Debug().Str("collection", s.table).Msg("Reading samples from MongoDB")
		session, err := mongodataset.Dial(s.location)
		if err != nil {
			return nil, err
		}
		defer session.Close()
		return mongodataset.ReadSamples(ctx, session, s.table, schema)
	case strings.HasSuffix(s.location, ".db"):
		log.Debug().Str("file", s.location).Str("table", s.table).Msg("Reading samples from SQLite3")
		adapter, err := sqlite3adapter.New(s.location, s.maxDBConns)
		if err != nil {
			return nil, err
		}
		defer adapter.Close()
		return sqldataset.ReadSamples(ctx, adapter, s.table, schema)
	}
	log.Debug().Str("file", s.String()).Msg("Reading samples from CSV")
	return csv.ReadSamplesFromFilePath(s.location, schema, csvOptions(md))
}

func (s source) writeSamples(ctx context.Context, md *yaml.Metadata, samples []dataset.Sample) (int, error) {
	switch {
	case strings.HasPrefix(s.location, "postgresql://"), strings.HasPrefix(s.location, "postgres://"):
		adapter, err := pgadapter.New(s.location)
		if err != nil {
			return 0, err
		}
		defer adapter.Close()
		return sqldataset.WriteSamples(ctx, adapter, s.table, md.Features, samples)
	case strings.HasPrefix(s.location, "mongodb://"):
		session, err := mongodataset.Dial(s.location)
		if err != nil {
			return 0, err
		}
		defer session.Close()
		return mongodataset.WriteSamples(ctx, session, s.table, md.Features, samples)
	case strings.HasSuffix(s.location, ".db"):
		adapter, err := sqlite3adapter.New(s.location, s.maxDBConns)
		if err != nil {
			return 0, err
		}
		defer adapter.Close()
		return sqldataset.WriteSamples(ctx, adapter, s.table, md.Features, samples)
	}
	f := os.Stdout
	if s.location != "" {
		var err error
		f, err = os.Create(s.location)
		if err != nil {
			return 0, fmt.Errorf("creating %s: %w", s.location, err)
		}
		defer f.Close()
	}
	w, err := csv.NewWriter(f, md.Features, csvOptions(md))
	if err != nil {
		return 0, err
	}
	n, err := w.Write(samples)
	if err != nil {
		return n, err
	}
	return n, w.Flush()
}

func csvOptions(md *yaml.Metadata) csv.Options {
	return csv.Options{Header: md.Header, Delimiter: md.Delimiter}
}
