package chitree

import (
	"fmt"

	"github.com/arbolado/chitree/dataset"
	"github.com/arbolado/chitree/feature"
	"github.com/arbolado/chitree/stats"
)

/*
Partition represents a partition of a dataset according to a feature
into subsets with an information gain to predict the label feature.

Values holds the distinct values of the feature in the order they were first
found on the dataset, and Subsets the samples taking each of them. ChiSquared
and PValue are filled in by splitters that test the partition for
significance.
*/
type Partition struct {
	Feature         feature.Feature
	Values          []interface{}
	Subsets         []dataset.Dataset
	InformationGain float64
	ChiSquared      float64
	PValue          float64
}

/*
NewPartition takes a dataset, a label feature, the labels it may take and a
feature and returns the partition of the dataset for the feature with its
information gain computed.
*/
func NewPartition(d dataset.Dataset, label feature.Feature, labels []interface{}, f feature.Feature) (*Partition, error) {
	counts, err := d.CountsPerClass(label, labels)
	if err != nil {
		return nil, err
	}
	values, subsets, err := d.Partition(f)
	if err != nil {
		return nil, fmt.Errorf("partitioning on %s: %w", f.Name(), err)
	}
	informationGain := stats.Entropy(counts)
	total := float64(d.Count())
	for _, s := range subsets {
		sCounts, err := s.CountsPerClass(label, labels)
		if err != nil {
			return nil, err
		}
		informationGain -= stats.Entropy(sCounts) * float64(s.Count()) / total
	}
	// rounding may leave a gain of -1e-16 or so
	if informationGain < 0 {
		informationGain = 0
	}
	return &Partition{
		Feature:         f,
		Values:          values,
		Subsets:         subsets,
		InformationGain: informationGain,
	}, nil
}

/*
InformationGain takes a dataset, a label feature, the labels it may take and a
feature and returns the reduction in label entropy obtained by grouping the
samples by their value for the feature. The result is never negative.
*/
func InformationGain(d dataset.Dataset, label feature.Feature, labels []interface{}, f feature.Feature) (float64, error) {
	p, err := NewPartition(d, label, labels, f)
	if err != nil {
		return 0.0, err
	}
	return p.InformationGain, nil
}

/*
ContingencyTable takes the label feature and a positive label and returns a
row per subset of the partition with the number of samples having the
positive label and the number of samples having any other.
*/
func (p *Partition) ContingencyTable(label feature.Feature, positive interface{}) ([][2]int, error) {
	table := make([][2]int, len(p.Subsets))
	for i, s := range p.Subsets {
		for _, sample := range s.Samples() {
			v, err := sample.ValueFor(label)
			if err != nil {
				return nil, err
			}
			if v == positive {
				table[i][0]++
			} else {
				table[i][1]++
			}
		}
	}
	return table, nil
}
