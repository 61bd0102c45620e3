/*
Package csv reads samples from CSV streams and writes them back.
*/
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/arbolado/chitree/dataset"
	"github.com/arbolado/chitree/feature"
)

/*
Options describes the layout of a CSV stream. When Header is true the first
row holds the names of the features, in any order. Otherwise rows hold a
value per feature of the schema in the schema's order. Delimiter defaults to
',' when zero.
*/
type Options struct {
	Header    bool
	Delimiter rune
}

/*
Writer is an interface for a CSV stream to which samples
can be written to.
*/
type Writer interface {
	// Write will attempt to write the given samples and will return
	// the actually written number of samples and an error (if not all
	// samples could be written)
	Write([]dataset.Sample) (int, error)
	// Count returns the total number of samples written
	// to the writer
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

type csvWriter struct {
	count    int
	features []feature.Feature
	w        *csv.Writer
}

/*
ReadSamples takes an io.Reader for a CSV stream, a schema and the layout
options and returns the samples parsed from the reader or an error.
Values are parsed with dataset.ParseValue, so '?' indicates an undefined
value.
*/
func ReadSamples(reader io.Reader, schema *dataset.Schema, opts Options) ([]dataset.Sample, error) {
	samples := []dataset.Sample{}
	err := ReadSamplesBySample(reader, schema, opts, func(_ int, s dataset.Sample) (bool, error) {
		samples = append(samples, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

/*
ReadSamplesBySample takes an io.Reader for a CSV stream, a schema, the layout
options and a lambda function on an integer and a dataset.Sample that returns
a boolean value. It parses the samples from the reader and for each it calls
the lambda function with the sample and its index as parameters. If the
lambda function returns true, it will continue processing the next sample,
otherwise it will stop. An error is returned if something goes wrong when
reading the stream or parsing a sample.
*/
func ReadSamplesBySample(reader io.Reader, schema *dataset.Schema, opts Options, lambda func(int, dataset.Sample) (bool, error)) error {
	r := csv.NewReader(reader)
	if opts.Delimiter != 0 {
		r.Comma = opts.Delimiter
	}
	features := schema.Features()
	columns := make([]int, len(features))
	for i := range columns {
		columns[i] = i
	}
	l := 1
	if opts.Header {
		header, err := r.Read()
		if err != nil {
			return fmt.Errorf("reading header: %w", err)
		}
		columns, err = columnsFromHeader(header, schema)
		if err != nil {
			return err
		}
		l++
	} else {
		r.FieldsPerRecord = len(features)
	}
	raw := make([]string, len(features))
	for i := 0; ; i++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}
		for j, c := range columns {
			raw[j] = record[c]
		}
		sample, err := schema.ParseSample(raw)
		if err != nil {
			return fmt.Errorf("parsing line %d: %w", l+i, err)
		}
		ok, err := lambda(i, sample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadSamplesFromFilePath takes a filepath string, a schema and the layout
options, opens the file to which the filepath points to and uses ReadSamples
to return the samples read from it. If the filepath is "" os.Stdin is read
instead. It will return an error if the given filepath cannot be opened for
reading.
*/
func ReadSamplesFromFilePath(filepath string, schema *dataset.Schema, opts Options) ([]dataset.Sample, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}
		defer f.Close()
	}
	samples, err := ReadSamples(f, schema, opts)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %w", filepath, err)
	}
	return samples, err
}

/*
NewWriter takes an io.Writer, a slice of feature.Features and the layout
options and returns a Writer that will write any samples on the io.Writer,
preceded by a header row if opts.Header is true.
*/
func NewWriter(writer io.Writer, features []feature.Feature, opts Options) (Writer, error) {
	w := csv.NewWriter(writer)
	if opts.Delimiter != 0 {
		w.Comma = opts.Delimiter
	}
	if opts.Header {
		record := make([]string, len(features))
		for i, f := range features {
			record[i] = f.Name()
		}
		err := w.Write(record)
		if err != nil {
			return nil, fmt.Errorf("writing CSV header: %w", err)
		}
	}
	return &csvWriter{features: features, w: w}, nil
}

func columnsFromHeader(header []string, schema *dataset.Schema) ([]int, error) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := schema.Feature(name); !ok {
			return nil, fmt.Errorf("parsing header: reference to unknown feature %s", name)
		}
		byName[name] = i
	}
	features := schema.Features()
	columns := make([]int, len(features))
	for i, f := range features {
		c, ok := byName[f.Name()]
		if !ok {
			return nil, fmt.Errorf("parsing header: missing column for feature %s", f.Name())
		}
		columns[i] = c
	}
	return columns, nil
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(samples []dataset.Sample) (int, error) {
	for n, s := range samples {
		if err := cw.writeSample(s); err != nil {
			return n, err
		}
	}
	return len(samples), nil
}

func (cw *csvWriter) writeSample(sample dataset.Sample) error {
	record := make([]string, len(cw.features))
	for j, f := range cw.features {
		v, err := sample.ValueFor(f)
		if err != nil {
			return err
		}
		if v == nil {
			record[j] = dataset.Undefined
		} else {
			record[j] = fmt.Sprintf("%v", v)
		}
	}
	err := cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row for sample %d: %w", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
