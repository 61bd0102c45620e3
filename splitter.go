package chitree

import (
	"errors"
	"math"
	"sort"

	"github.com/arbolado/chitree/dataset"
	"github.com/arbolado/chitree/feature"
	"github.com/arbolado/chitree/stats"
	"github.com/rs/zerolog/log"
)

// DefaultSignificance is the threshold used by a ChiSquaredSplitter with none set
const DefaultSignificance = 0.01

/*
Splitter is an interface wrapping the Split method, that is used to decide
which feature, if any, a node of the tree is branched out on.

The Split method takes a dataset, the candidate features, the label feature
and the labels it may take and returns the chosen partition, or nil if the
dataset must not be partitioned.
*/
type Splitter interface {
	Split(d dataset.Dataset, features []feature.Feature, label feature.Feature, labels []interface{}) (*Partition, error)
}

/*
SplitterFunc wraps a function with the Split method signature to implement
the Splitter interface
*/
type SplitterFunc func(d dataset.Dataset, features []feature.Feature, label feature.Feature, labels []interface{}) (*Partition, error)

/*
Split takes a dataset, candidate features, a label feature and its labels and
invokes the SplitterFunc with those parameters to return its result.
*/
func (sf SplitterFunc) Split(d dataset.Dataset, features []feature.Feature, label feature.Feature, labels []interface{}) (*Partition, error) {
	return sf(d, features, label, labels)
}

/*
ChiSquaredSplitter is a Splitter that only accepts partitions whose chi-squared
test on the positive/negative contingency table is significant.

Candidates are ranked by ascending information gain (keeping the given order
on ties) and tested in that order. Every candidate with a p-value at or below
the threshold replaces the previously accepted one, so the result is the
last significant candidate in the ranking.

Positive is the label counted in the first column of the contingency table,
every other label counting as negative. When nil, the first label is used.
Threshold defaults to DefaultSignificance when zero. Test selects the
p-value computation, stats.Density by default.

Candidates taking a single value on the dataset, with a degenerate
contingency table or with an undefined p-value are never significant.
*/
type ChiSquaredSplitter struct {
	Positive  interface{}
	Threshold float64
	Test      stats.Test
}

// Split implements Splitter
func (cs *ChiSquaredSplitter) Split(d dataset.Dataset, features []feature.Feature, label feature.Feature, labels []interface{}) (*Partition, error) {
	positive := cs.Positive
	if positive == nil && len(labels) > 0 {
		positive = labels[0]
	}
	threshold := cs.Threshold
	if threshold == 0 {
		threshold = DefaultSignificance
	}
	candidates, err := rankedPartitions(d, features, label, labels)
	if err != nil {
		return nil, err
	}
	var result *Partition
	for _, p := range candidates {
		table, err := p.ContingencyTable(label, positive)
		if err != nil {
			return nil, err
		}
		chi, err := stats.ChiSquared(table)
		if err != nil {
			if errors.Is(err, stats.ErrDegenerateTable) {
				log.Debug().Str("feature", p.Feature.Name()).Int("samples", d.Count()).Msg("Skipping degenerate split")
				continue
			}
			return nil, err
		}
		pValue, err := stats.PValue(cs.Test, chi, len(table)-1)
		if err != nil {
			if errors.Is(err, stats.ErrNoDegreesOfFreedom) {
				continue
			}
			return nil, err
		}
		p.ChiSquared = chi
		p.PValue = pValue
		log.Debug().
			Str("feature", p.Feature.Name()).
			Float64("gain", p.InformationGain).
			Float64("chi2", chi).
			Float64("p", pValue).
			Msg("Tested split")
		if math.IsNaN(pValue) || pValue > threshold {
			continue
		}
		result = p
	}
	return result, nil
}

/*
GainSplitter is a Splitter that chooses the candidate with the highest
information gain, as long as it is above MinimumGain. Ties are resolved in
favour of the candidate given first.
*/
type GainSplitter struct {
	MinimumGain float64
}

// Split implements Splitter
func (gs *GainSplitter) Split(d dataset.Dataset, features []feature.Feature, label feature.Feature, labels []interface{}) (*Partition, error) {
	var result *Partition
	for _, f := range features {
		p, err := NewPartition(d, label, labels, f)
		if err != nil {
			return nil, err
		}
		if p.InformationGain <= gs.MinimumGain {
			continue
		}
		if result == nil || p.InformationGain > result.InformationGain {
			result = p
		}
	}
	return result, nil
}

func rankedPartitions(d dataset.Dataset, features []feature.Feature, label feature.Feature, labels []interface{}) ([]*Partition, error) {
	result := make([]*Partition, 0, len(features))
	for _, f := range features {
		p, err := NewPartition(d, label, labels, f)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].InformationGain < result[j].InformationGain
	})
	return result, nil
}
