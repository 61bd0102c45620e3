/*
Package feature defines the properties that can be observed on samples.

A Feature acts as an accessor: samples are asked for their value for a
feature. Features are compared by identity, so two features with the same
name remain distinct when used to grow a tree.
*/
package feature

import (
	"fmt"
	"math"
)

/*
Feature represents a property that can be observed
*/
type Feature interface {
	Name() string
	Valid(interface{}) (bool, error)
}

/*
DiscreteFeature represents a property that can be observed and that takes
string values. When built with a list of available values, only those are
valid; otherwise any string is.
*/
type DiscreteFeature struct {
	name            string
	availableValues []string
}

/*
NumericFeature represents a property that can be observed and that takes
float64 values. Trees do not threshold numeric features: every distinct
number observed during training becomes its own branch.
*/
type NumericFeature struct {
	name string
}

/*
NewDiscreteFeature takes a name string and a slice of available value strings
and returns a discrete feature with the given names and available values.
A nil or empty slice of available values means any string is valid.
*/
func NewDiscreteFeature(name string, availableValues []string) *DiscreteFeature {
	return &DiscreteFeature{name, availableValues}
}

/*
NewNumericFeature takes a name string and returns a numeric feature with
the given name.
*/
func NewNumericFeature(name string) *NumericFeature {
	return &NumericFeature{name}
}

/*
Name returns a string with the name of the feature
*/
func (df *DiscreteFeature) Name() string {
	return df.name
}

/*
Valid receives an interface value and returns a boolean and an error. When the
value parameter is nil or a string included in the available values of the
feature (or the feature has no closed set of values), the method returns true
and nil. Otherwise it returns false and an error describing the reason.
*/
func (df *DiscreteFeature) Valid(value interface{}) (bool, error) {
	if value == nil {
		return true, nil
	}
	vs, ok := value.(string)
	if !ok {
		return false, fmt.Errorf("discrete feature %s expects string value, got %T value", df.Name(), value)
	}
	if len(df.availableValues) == 0 {
		return true, nil
	}
	for _, av := range df.availableValues {
		if av == vs {
			return true, nil
		}
	}
	return false, fmt.Errorf("discrete feature %s got unknown value %s", df.Name(), vs)
}

/*
AvailableValues returns a string slice with the values available for the feature
*/
func (df *DiscreteFeature) AvailableValues() []string {
	return df.availableValues
}

func (df *DiscreteFeature) String() string {
	return df.name
}

/*
Name returns a string with the name of the feature
*/
func (nf *NumericFeature) Name() string {
	return nf.name
}

/*
Valid receives an interface value and returns a boolean and an error. When the
value parameter is nil or a float64 other than NaN it returns true and nil,
otherwise it returns false and an error describing the reason.
*/
func (nf *NumericFeature) Valid(value interface{}) (bool, error) {
	if value == nil {
		return true, nil
	}
	v, ok := value.(float64)
	if !ok {
		return false, fmt.Errorf("numeric feature %s expects float64 value, got %T value", nf.Name(), value)
	}
	// NaN never equals itself, so it could not be branched out on
	if math.IsNaN(v) {
		return false, fmt.Errorf("numeric feature %s does not take NaN values", nf.Name())
	}
	return true, nil
}

func (nf *NumericFeature) String() string {
	return nf.name
}
