/*
Package yaml provides methods to parse feature.Feature specifications
also known as metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"unicode/utf8"

	"github.com/arbolado/chitree/feature"
	yaml "gopkg.in/yaml.v3"
)

/*
Metadata describes a dataset: its features in column order, the label
feature to predict with its closed set of labels, the positive label for
significance testing, the features that may be used to split and how
CSV representations of the dataset are laid out.
*/
type Metadata struct {
	Features   []feature.Feature
	Label      feature.Feature
	Labels     []interface{}
	Positive   interface{}
	Attributes []feature.Feature
	Header     bool
	Delimiter  rune
}

// Labels, values and feature names are read from the nodes' raw text, so
// that words like yes or y stay strings.
type rawMetadata struct {
	Label      yaml.Node `yaml:"label"`
	Labels     yaml.Node `yaml:"labels"`
	Positive   yaml.Node `yaml:"positive"`
	Header     *bool     `yaml:"header"`
	Delimiter  string    `yaml:"delimiter"`
	Attributes yaml.Node `yaml:"attributes"`
	Features   yaml.Node `yaml:"features"`
}

/*
ReadFeatures takes a slice of bytes with a feature specification in YML and
returns a slice of features parsed from it or an error.
The YML is expected to be an object containing a features property. The value for this
should be an object with a property for each feature with its name and either a
string value of 'numeric' for numeric features, 'discrete' for discrete features
with any value or a list of valid values for discrete features with a closed set
of values. Features are returned in the order they are declared.
*/
func ReadFeatures(md []byte) ([]feature.Feature, error) {
	metadata := &rawMetadata{}
	err := yaml.Unmarshal(md, metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing yml features: %v", err)
	}
	return parseFeatures(&metadata.Features)
}

/*
ReadFeaturesFromFile takes a filepath string, reads its contents and uses
ReadFeatures to parse it and return a slice of parsed features or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadFeaturesFromFile(filepath string) ([]feature.Feature, error) {
	md, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading features yml file %s: %v", filepath, err)
	}
	features, err := ReadFeatures(md)
	if err != nil {
		err = fmt.Errorf("parsing features yml file %s: %v", filepath, err)
	}
	return features, err
}

/*
ReadMetadata takes a slice of bytes with a dataset description in YML and
returns the Metadata parsed from it or an error. Besides the features property
understood by ReadFeatures, the following properties are read:
  - label: the name of the feature to predict (required)
  - labels: the list of values the label can take, defaulting to the available
    values of a discrete label feature
  - positive: the label counted as positive on significance tests, defaulting
    to the first label
  - attributes: the names of the features that may be used to split, defaulting
    to every feature but the label
  - header: whether CSV files have a header row (defaults to true)
  - delimiter: the CSV field delimiter (defaults to ",")
*/
func ReadMetadata(md []byte) (*Metadata, error) {
	raw := &rawMetadata{}
	err := yaml.Unmarshal(md, raw)
	if err != nil {
		return nil, fmt.Errorf("parsing yml metadata: %v", err)
	}
	features, err := parseFeatures(&raw.Features)
	if err != nil {
		return nil, err
	}
	result := &Metadata{Features: features, Header: true, Delimiter: ','}
	if raw.Header != nil {
		result.Header = *raw.Header
	}
	if raw.Delimiter != "" {
		d, size := utf8.DecodeRuneInString(raw.Delimiter)
		if size != len(raw.Delimiter) {
			return nil, fmt.Errorf("delimiter %q must be a single character", raw.Delimiter)
		}
		result.Delimiter = d
	}
	label, err := scalar(&raw.Label, "label")
	if err != nil {
		return nil, err
	}
	if label == "" {
		return nil, fmt.Errorf("metadata has no label")
	}
	byName := make(map[string]feature.Feature)
	for _, f := range features {
		byName[f.Name()] = f
	}
	result.Label = byName[label]
	if result.Label == nil {
		return nil, fmt.Errorf("label %s is not a declared feature", label)
	}
	rawLabels, err := scalars(&raw.Labels, "labels")
	if err != nil {
		return nil, err
	}
	result.Labels, err = parseLabels(result.Label, rawLabels)
	if err != nil {
		return nil, err
	}
	if len(result.Labels) < 2 {
		return nil, fmt.Errorf("label %s needs at least 2 labels, got %d", label, len(result.Labels))
	}
	result.Positive = result.Labels[0]
	if raw.Positive.Kind != 0 {
		rawPositive, err := scalar(&raw.Positive, "positive")
		if err != nil {
			return nil, err
		}
		positive, err := parseLabels(result.Label, []string{rawPositive})
		if err != nil {
			return nil, fmt.Errorf("parsing positive label: %v", err)
		}
		result.Positive = positive[0]
	}
	attributes, err := scalars(&raw.Attributes, "attributes")
	if err != nil {
		return nil, err
	}
	if attributes == nil {
		for _, f := range features {
			if f != result.Label {
				result.Attributes = append(result.Attributes, f)
			}
		}
		return result, nil
	}
	for _, name := range attributes {
		f, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("attribute %s is not a declared feature", name)
		}
		if f == result.Label {
			return nil, fmt.Errorf("label %s cannot be used as attribute", name)
		}
		result.Attributes = append(result.Attributes, f)
	}
	return result, nil
}

/*
ReadMetadataFromFile takes a filepath string, reads its contents and uses
ReadMetadata to parse it.
*/
func ReadMetadataFromFile(filepath string) (*Metadata, error) {
	md, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading metadata yml file %s: %v", filepath, err)
	}
	metadata, err := ReadMetadata(md)
	if err != nil {
		err = fmt.Errorf("parsing metadata yml file %s: %v", filepath, err)
	}
	return metadata, err
}

func parseFeatures(declarations *yaml.Node) ([]feature.Feature, error) {
	if declarations.Kind == 0 || declarations.ShortTag() == "!!null" {
		return nil, fmt.Errorf("metadata file has no feature information")
	}
	if declarations.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: features must be a mapping of feature names to declarations", declarations.Line)
	}
	features := []feature.Feature{}
	seen := make(map[string]bool)
	for i := 0; i+1 < len(declarations.Content); i += 2 {
		key, value := declarations.Content[i], declarations.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: feature names must be scalars", key.Line)
		}
		fn := key.Value
		if seen[fn] {
			return nil, fmt.Errorf("feature %s declared twice", fn)
		}
		seen[fn] = true
		switch value.Kind {
		case yaml.ScalarNode:
			switch value.Value {
			case "numeric", "continuous":
				features = append(features, feature.NewNumericFeature(fn))
			case "discrete":
				features = append(features, feature.NewDiscreteFeature(fn, nil))
			default:
				return nil, fmt.Errorf("invalid declaration %q for feature %s", value.Value, fn)
			}
		case yaml.SequenceNode:
			values, err := scalars(value, fn)
			if err != nil {
				return nil, err
			}
			features = append(features, feature.NewDiscreteFeature(fn, values))
		default:
			return nil, fmt.Errorf("line %d: invalid declaration for feature %s", value.Line, fn)
		}
	}
	return features, nil
}

// scalar returns the raw text of a scalar node, or "" if the node is absent
func scalar(n *yaml.Node, name string) (string, error) {
	if n.Kind == 0 || n.ShortTag() == "!!null" {
		return "", nil
	}
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: %s must be a scalar", n.Line, name)
	}
	return n.Value, nil
}

// scalars returns the raw texts of a sequence of scalars, or nil if the node is absent
func scalars(n *yaml.Node, name string) ([]string, error) {
	if n.Kind == 0 || n.ShortTag() == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: %s must be a list", n.Line, name)
	}
	result := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		if item.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: %s must only hold scalars", item.Line, name)
		}
		result = append(result, item.Value)
	}
	return result, nil
}

func parseLabels(label feature.Feature, rawLabels []string) ([]interface{}, error) {
	if rawLabels == nil {
		if df, ok := label.(*feature.DiscreteFeature); ok {
			rawLabels = df.AvailableValues()
		}
	}
	labels := make([]interface{}, 0, len(rawLabels))
	seen := make(map[interface{}]bool)
	for _, rl := range rawLabels {
		var l interface{}
		switch label.(type) {
		case *feature.NumericFeature:
			v, err := strconv.ParseFloat(rl, 64)
			if err != nil {
				return nil, fmt.Errorf("label %v of numeric feature %s: %v", rl, label.Name(), err)
			}
			l = v
		default:
			l = rl
		}
		if ok, err := label.Valid(l); !ok {
			return nil, fmt.Errorf("invalid label: %v", err)
		}
		if seen[l] {
			return nil, fmt.Errorf("label %v listed twice", l)
		}
		seen[l] = true
		labels = append(labels, l)
	}
	return labels, nil
}
