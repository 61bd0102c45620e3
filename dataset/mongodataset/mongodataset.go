/*
Package mongodataset reads samples from and writes samples to a MongoDB
collection, with a document per sample and a field per feature.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/arbolado/chitree/dataset"
	"github.com/arbolado/chitree/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// DefaultCollection is the name of the collection samples are read from when none is given
const DefaultCollection = "samples"

/*
Dial takes a MongoDB connection URL and returns a session on it or an error
if it cannot connect.
*/
func Dial(url string) (*mgo.Session, error) {
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}
	return session, nil
}

/*
ReadSamples takes a context, a MongoDB session, a collection name and a
schema and returns a sample for every document in the collection of the
session's default database. Missing or null fields are undefined values.
*/
func ReadSamples(ctx context.Context, session *mgo.Session, collection string, schema *dataset.Schema) ([]dataset.Sample, error) {
	if err := validateFeatureNames(schema.Features()); err != nil {
		return nil, err
	}
	iter := session.DB("").C(collection).Find(nil).Iter()
	var samples []dataset.Sample
	var doc bson.M
	for iter.Next(&doc) {
		if err := ctx.Err(); err != nil {
			iter.Close()
			return nil, err
		}
		sample, err := docToSample(doc, schema)
		if err != nil {
			iter.Close()
			return nil, fmt.Errorf("parsing document %d from %s: %w", len(samples)+1, collection, err)
		}
		samples = append(samples, sample)
		doc = nil
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("reading samples from %s: %w", collection, err)
	}
	return samples, nil
}

/*
WriteSamples takes a context, a MongoDB session, a collection name, a slice
of features and a slice of samples and inserts a document per sample with
its defined values for the features. It returns the number of samples written
or an error.
*/
func WriteSamples(ctx context.Context, session *mgo.Session, collection string, features []feature.Feature, samples []dataset.Sample) (int, error) {
	if err := validateFeatureNames(features); err != nil {
		return 0, err
	}
	docs := make([]interface{}, 0, len(samples))
	for _, s := range samples {
		doc, err := sampleToDoc(s, features)
		if err != nil {
			return 0, err
		}
		docs = append(docs, doc)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}
	if err := session.DB("").C(collection).Insert(docs...); err != nil {
		return 0, err
	}
	return len(samples), nil
}

func sampleToDoc(s dataset.Sample, features []feature.Feature) (bson.M, error) {
	doc := make(bson.M)
	for _, f := range features {
		value, err := s.ValueFor(f)
		if err != nil {
			return nil, err
		}
		if value != nil {
			doc[f.Name()] = value
		}
	}
	return doc, nil
}

func docToSample(doc bson.M, schema *dataset.Schema) (dataset.Sample, error) {
	features := schema.Features()
	values := make([]interface{}, len(features))
	for i, f := range features {
		v, err := docValue(f, doc[f.Name()])
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return schema.NewSample(values)
}

func docValue(f feature.Feature, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if _, ok := f.(*feature.NumericFeature); ok {
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case string:
			return dataset.ParseValue(f, n)
		}
		return nil, fmt.Errorf("feature %s expects a number, got %T value", f.Name(), v)
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprintf("%v", v), nil
}

func validateFeatureNames(features []feature.Feature) error {
	for _, f := range features {
		fName := f.Name()
		if fName == "_id" {
			return fmt.Errorf("invalid feature name %q: reserved collection field", "_id")
		}
		if strings.ContainsAny(fName, ".$") {
			return fmt.Errorf("invalid feature name %q: contains reserved characters %q or %q", fName, ".", "$")
		}
	}
	return nil
}
