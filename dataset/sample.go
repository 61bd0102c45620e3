package dataset

import (
	"fmt"
	"strconv"

	"github.com/arbolado/chitree/feature"
)

/*
Sample represents an item to process or from which to learn how to process them.

Its ValueFor method returns the value of the sample corresponding to the feature
passed as parameter.
*/
type Sample interface {
	ValueFor(feature.Feature) (interface{}, error)
}

// Undefined is the raw representation of a missing value
const Undefined = "?"

/*
Schema holds an ordered list of features and builds samples whose values
follow that order. Samples built by a schema resolve features by identity,
never by name.
*/
type Schema struct {
	features []feature.Feature
	columns  map[feature.Feature]int
}

type row struct {
	schema *Schema
	values []interface{}
}

/*
NewSchema takes a slice of features and returns a Schema for samples with
one value per feature in the same order. It returns an error if a feature
appears twice.
*/
func NewSchema(features []feature.Feature) (*Schema, error) {
	columns := make(map[feature.Feature]int, len(features))
	for i, f := range features {
		if _, ok := columns[f]; ok {
			return nil, fmt.Errorf("feature %s appears twice in schema", f.Name())
		}
		columns[f] = i
	}
	return &Schema{features, columns}, nil
}

/*
Features returns the features of the schema in column order.
*/
func (s *Schema) Features() []feature.Feature {
	return s.features
}

/*
NewSample takes a slice of values, one per feature of the schema, and returns
a sample holding them. It returns an error if the number of values does not
match the number of features or a value is not valid for its feature.
*/
func (s *Schema) NewSample(values []interface{}) (Sample, error) {
	if len(values) != len(s.features) {
		return nil, fmt.Errorf("expected %d values, got %d", len(s.features), len(values))
	}
	for i, f := range s.features {
		if ok, err := f.Valid(values[i]); !ok {
			return nil, fmt.Errorf("invalid value %v of type %T for feature %s: %v", values[i], values[i], f.Name(), err)
		}
	}
	return &row{s, values}, nil
}

/*
MustSample works like NewSample but panics on error. It is meant for
fixtures and tests.
*/
func (s *Schema) MustSample(values ...interface{}) Sample {
	sample, err := s.NewSample(values)
	if err != nil {
		panic(err)
	}
	return sample
}

/*
Feature takes a name and returns the feature of the schema with that name and
true, or nil and false if there is none.
*/
func (s *Schema) Feature(name string) (feature.Feature, bool) {
	for _, f := range s.features {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

/*
ParseSample takes a slice of raw string values, one per feature of the schema,
and returns a sample with them parsed with ParseValue.
*/
func (s *Schema) ParseSample(raw []string) (Sample, error) {
	if len(raw) != len(s.features) {
		return nil, fmt.Errorf("expected %d values, got %d", len(s.features), len(raw))
	}
	values := make([]interface{}, len(raw))
	for i, f := range s.features {
		v, err := ParseValue(f, raw[i])
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return s.NewSample(values)
}

/*
ParseValue takes a feature and a raw string value and returns the value the
string represents for the feature: nil for the undefined value "?", a float64
for numeric features and the string itself otherwise.
*/
func ParseValue(f feature.Feature, raw string) (interface{}, error) {
	if raw == Undefined {
		return nil, nil
	}
	if _, ok := f.(*feature.NumericFeature); ok {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("converting %s to float64 for feature %s: %w", raw, f.Name(), err)
		}
		if _, err := f.Valid(v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return raw, nil
}

func (r *row) ValueFor(f feature.Feature) (interface{}, error) {
	i, ok := r.schema.columns[f]
	if !ok {
		return nil, fmt.Errorf("sample has no value for feature %s", f.Name())
	}
	return r.values[i], nil
}

func (r *row) String() string {
	return fmt.Sprintf("%v", r.values)
}
