/*
Package dataset provides samples and in-memory collections of them, along
with the counting and grouping operations trees are grown with.
*/
package dataset

import (
	"fmt"
	"math/rand"

	"github.com/arbolado/chitree/feature"
)

/*
UnknownLabelError is returned when a sample's label is not one of the labels
it is expected to take.
*/
type UnknownLabelError struct {
	Label interface{}
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("unknown label %v", e.Label)
}

/*
Dataset represents a collection of samples.

Its CountsPerClass method returns how many of its samples take each of the
given labels for the label feature.

Its FeatureValues method returns the distinct values a feature takes on the
dataset in the order they are first found.

Its Partition method groups the samples by the value they take for a
feature, returning the values in the order they are first found and a
Dataset per value.

Its Samples method returns the samples it contains
*/
type Dataset interface {
	CountsPerClass(label feature.Feature, labels []interface{}) ([]int, error)
	FeatureValues(feature.Feature) ([]interface{}, error)
	Partition(feature.Feature) ([]interface{}, []Dataset, error)
	Samples() []Sample
	Count() int
}

type memoryDataset struct {
	samples []Sample
}

/*
New takes a slice of samples and returns a dataset built with them.
*/
func New(samples []Sample) Dataset {
	return &memoryDataset{samples}
}

func (s *memoryDataset) Count() int {
	return len(s.samples)
}

func (s *memoryDataset) Samples() []Sample {
	return s.samples
}

func (s *memoryDataset) CountsPerClass(label feature.Feature, labels []interface{}) ([]int, error) {
	return CountsPerClass(s.samples, label, labels)
}

func (s *memoryDataset) FeatureValues(f feature.Feature) ([]interface{}, error) {
	result := []interface{}{}
	encountered := make(map[interface{}]bool)
	for _, sample := range s.samples {
		v, err := sample.ValueFor(f)
		if err != nil {
			return nil, err
		}
		if !encountered[v] {
			encountered[v] = true
			result = append(result, v)
		}
	}
	return result, nil
}

func (s *memoryDataset) Partition(f feature.Feature) ([]interface{}, []Dataset, error) {
	var values []interface{}
	var groups [][]Sample
	index := make(map[interface{}]int)
	for _, sample := range s.samples {
		v, err := sample.ValueFor(f)
		if err != nil {
			return nil, nil, err
		}
		i, ok := index[v]
		if !ok {
			i = len(values)
			index[v] = i
			values = append(values, v)
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], sample)
	}
	subsets := make([]Dataset, len(groups))
	for i, g := range groups {
		subsets[i] = &memoryDataset{g}
	}
	return values, subsets, nil
}

func (s *memoryDataset) String() string {
	return fmt.Sprintf("[ %v ]", len(s.samples))
}

/*
CountsPerClass takes a slice of samples, a label feature and the slice of
labels it may take and returns a slice with the number of samples for each
label, in the same order as labels. It returns an *UnknownLabelError if a
sample has a label not in labels.
*/
func CountsPerClass(samples []Sample, label feature.Feature, labels []interface{}) ([]int, error) {
	index := make(map[interface{}]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	result := make([]int, len(labels))
	for _, sample := range samples {
		v, err := sample.ValueFor(label)
		if err != nil {
			return nil, err
		}
		i, ok := index[v]
		if !ok {
			return nil, &UnknownLabelError{v}
		}
		result[i]++
	}
	return result, nil
}

/*
Majority takes a dataset and a feature and returns the value of the feature
shared by most samples on the dataset. Ties are resolved in favour of the
value found first. It returns nil for an empty dataset.
*/
func Majority(d Dataset, f feature.Feature) (interface{}, error) {
	var order []interface{}
	counts := make(map[interface{}]int)
	for _, sample := range d.Samples() {
		v, err := sample.ValueFor(f)
		if err != nil {
			return nil, err
		}
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}
	var result interface{}
	best := 0
	for _, v := range order {
		if counts[v] > best {
			result = v
			best = counts[v]
		}
	}
	return result, nil
}

/*
Shuffle takes a slice of samples and a random number generator and returns
a new slice with the same samples in a random order.
*/
func Shuffle(samples []Sample, r *rand.Rand) []Sample {
	result := append([]Sample{}, samples...)
	r.Shuffle(len(result), func(i, j int) {
		result[i], result[j] = result[j], result[i]
	})
	return result
}

/*
Split takes a slice of samples and a ratio in [0, 1] and returns the first
ratio fraction of them (rounded down) and the rest.
*/
func Split(samples []Sample, ratio float64) ([]Sample, []Sample, error) {
	if ratio < 0 || ratio > 1 {
		return nil, nil, fmt.Errorf("split ratio %v is not between 0 and 1", ratio)
	}
	n := int(ratio * float64(len(samples)))
	return samples[:n], samples[n:], nil
}
