package csv

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arbolado/chitree/dataset"
	"github.com/arbolado/chitree/feature"
	"github.com/stretchr/testify/require"
)

var (
	age   = feature.NewNumericFeature("age")
	color = feature.NewDiscreteFeature("color", []string{"red", "green"})
	class = feature.NewDiscreteFeature("class", []string{"+", "-"})
)

func testSchema(t *testing.T) *dataset.Schema {
	s, err := dataset.NewSchema([]feature.Feature{age, color, class})
	require.NoError(t, err)
	return s
}

func valuesOf(t *testing.T, s dataset.Sample) []interface{} {
	var result []interface{}
	for _, f := range []feature.Feature{age, color, class} {
		v, err := s.ValueFor(f)
		require.NoError(t, err)
		result = append(result, v)
	}
	return result
}

func TestReadSamplesHeaderless(t *testing.T) {
	input := "30,red,+\n?,green,-\n41.5,?,+\n"
	samples, err := ReadSamples(strings.NewReader(input), testSchema(t), Options{})
	require.NoError(t, err)
	require.Len(t, samples, 3)
	require.Equal(t, []interface{}{30.0, "red", "+"}, valuesOf(t, samples[0]))
	require.Equal(t, []interface{}{nil, "green", "-"}, valuesOf(t, samples[1]))
	require.Equal(t, []interface{}{41.5, nil, "+"}, valuesOf(t, samples[2]))
}

func TestReadSamplesWithHeader(t *testing.T) {
	input := "class;color;age\n+;red;30\n-;green;12\n"
	samples, err := ReadSamples(strings.NewReader(input), testSchema(t), Options{Header: true, Delimiter: ';'})
	require.NoError(t, err)
	require.Len(t, samples, 2)
	require.Equal(t, []interface{}{12.0, "green", "-"}, valuesOf(t, samples[1]))
}

func TestReadSamplesErrors(t *testing.T) {
	cases := map[string]struct {
		input string
		opts  Options
	}{
		"unknown header":  {"age,color,class,size\n1,red,+,2\n", Options{Header: true}},
		"missing column":  {"age,class\n1,+\n", Options{Header: true}},
		"short row":       {"1,red\n", Options{}},
		"invalid number":  {"one,red,+\n", Options{}},
		"invalid value":   {"1,blue,+\n", Options{}},
		"empty with head": {"", Options{Header: true}},
	}
	for name, c := range cases {
		_, err := ReadSamples(strings.NewReader(c.input), testSchema(t), c.opts)
		require.Error(t, err, name)
	}
}

func TestReadSamplesBySampleStops(t *testing.T) {
	input := "1,red,+\n2,red,+\n3,red,+\n"
	var seen []int
	err := ReadSamplesBySample(strings.NewReader(input), testSchema(t), Options{}, func(i int, _ dataset.Sample) (bool, error) {
		seen = append(seen, i)
		return i < 1, nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, seen)
}

func TestWriterRoundTrip(t *testing.T) {
	s := testSchema(t)
	samples := []dataset.Sample{
		s.MustSample(30.0, "red", "+"),
		s.MustSample(nil, "green", "-"),
	}
	for _, opts := range []Options{{}, {Header: true, Delimiter: '\t'}} {
		var buf bytes.Buffer
		w, err := NewWriter(&buf, s.Features(), opts)
		require.NoError(t, err)
		n, err := w.Write(samples)
		require.NoError(t, err)
		require.Equal(t, 2, n)
		require.Equal(t, 2, w.Count())
		require.NoError(t, w.Flush())

		read, err := ReadSamples(&buf, s, opts)
		require.NoError(t, err)
		require.Len(t, read, 2)
		require.Equal(t, valuesOf(t, samples[1]), valuesOf(t, read[1]))
	}

	var buf bytes.Buffer
	w, err := NewWriter(&buf, s.Features(), Options{Header: true})
	require.NoError(t, err)
	_, err = w.Write(samples[:1])
	require.NoError(t, err)
	require.NoError(t, w.Flush())
	require.Equal(t, "age,color,class\n30,red,+\n", buf.String())
}
