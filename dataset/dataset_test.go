package dataset

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/arbolado/chitree/feature"
	"github.com/stretchr/testify/require"
)

var (
	day   = feature.NewDiscreteFeature("day", nil)
	color = feature.NewDiscreteFeature("color", []string{"Yellow", "Red"})
	class = feature.NewDiscreteFeature("class", []string{"X", "O"})
)

func daySchema(t *testing.T) *Schema {
	s, err := NewSchema([]feature.Feature{day, color, class})
	require.NoError(t, err)
	return s
}

func daySamples(t *testing.T) []Sample {
	s := daySchema(t)
	return []Sample{
		s.MustSample("Monday", "Yellow", "X"),
		s.MustSample("Monday", "Red", "O"),
		s.MustSample("Tuesday", "Yellow", "O"),
	}
}

func TestSchema(t *testing.T) {
	_, err := NewSchema([]feature.Feature{day, day})
	require.Error(t, err)

	s := daySchema(t)
	_, err = s.NewSample([]interface{}{"Monday", "Yellow"})
	require.Error(t, err)
	_, err = s.NewSample([]interface{}{"Monday", "Blue", "X"})
	require.Error(t, err)

	sample := s.MustSample("Monday", nil, "X")
	v, err := sample.ValueFor(day)
	require.NoError(t, err)
	require.Equal(t, "Monday", v)
	v, err = sample.ValueFor(color)
	require.NoError(t, err)
	require.Nil(t, v)

	// same name, different feature
	_, err = sample.ValueFor(feature.NewDiscreteFeature("day", nil))
	require.Error(t, err)
}

func TestCountsPerClass(t *testing.T) {
	d := New(daySamples(t))
	counts, err := d.CountsPerClass(class, []interface{}{"X", "O"})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, counts)
	counts, err = d.CountsPerClass(class, []interface{}{"O", "X", "Z"})
	require.NoError(t, err)
	require.Equal(t, []int{2, 1, 0}, counts)

	_, err = d.CountsPerClass(class, []interface{}{"X"})
	var ule *UnknownLabelError
	require.True(t, errors.As(err, &ule))
	require.Equal(t, "O", ule.Label)
}

func TestPartition(t *testing.T) {
	d := New(daySamples(t))
	values, subsets, err := d.Partition(day)
	require.NoError(t, err)
	require.Equal(t, []interface{}{"Monday", "Tuesday"}, values)
	require.Len(t, subsets, 2)
	require.Equal(t, 2, subsets[0].Count())
	require.Equal(t, 1, subsets[1].Count())

	values, subsets, err = d.Partition(color)
	require.NoError(t, err)
	require.Equal(t, []interface{}{"Yellow", "Red"}, values)
	require.Equal(t, 2, subsets[0].Count())

	fvs, err := d.FeatureValues(class)
	require.NoError(t, err)
	require.Equal(t, []interface{}{"X", "O"}, fvs)
}

func TestMajority(t *testing.T) {
	samples := daySamples(t)
	m, err := Majority(New(samples), class)
	require.NoError(t, err)
	require.Equal(t, "O", m)

	// tie: first found wins
	m, err = Majority(New(samples[:2]), class)
	require.NoError(t, err)
	require.Equal(t, "X", m)
	m, err = Majority(New([]Sample{samples[1], samples[0]}), class)
	require.NoError(t, err)
	require.Equal(t, "O", m)

	m, err = Majority(New(nil), class)
	require.NoError(t, err)
	require.Nil(t, m)
}

func TestShuffleAndSplit(t *testing.T) {
	s := daySchema(t)
	var samples []Sample
	for i := 0; i < 10; i++ {
		samples = append(samples, s.MustSample("Monday", "Red", "X"))
	}
	shuffled := Shuffle(samples, rand.New(rand.NewSource(7)))
	require.Len(t, shuffled, 10)
	require.ElementsMatch(t, samples, shuffled)

	train, test, err := Split(shuffled, 0.6)
	require.NoError(t, err)
	require.Len(t, train, 6)
	require.Len(t, test, 4)

	_, _, err = Split(shuffled, 1.5)
	require.Error(t, err)
}

func TestParseSample(t *testing.T) {
	age := feature.NewNumericFeature("age")
	s, err := NewSchema([]feature.Feature{age, color})
	require.NoError(t, err)

	f, ok := s.Feature("age")
	require.True(t, ok)
	require.Equal(t, age, f)
	_, ok = s.Feature("size")
	require.False(t, ok)

	sample, err := s.ParseSample([]string{"41.5", Undefined})
	require.NoError(t, err)
	v, err := sample.ValueFor(age)
	require.NoError(t, err)
	require.Equal(t, 41.5, v)
	v, err = sample.ValueFor(color)
	require.NoError(t, err)
	require.Nil(t, v)

	_, err = s.ParseSample([]string{"old", "Red"})
	require.Error(t, err)
	_, err = s.ParseSample([]string{"NaN", "Red"})
	require.Error(t, err)
	_, err = ParseValue(age, "nan")
	require.Error(t, err)
	_, err = s.ParseSample([]string{"1", "Blue"})
	require.Error(t, err)
	_, err = s.ParseSample([]string{"1"})
	require.Error(t, err)
}
