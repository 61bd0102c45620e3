package yaml

import (
	"testing"

	"github.com/arbolado/chitree/feature"
	"github.com/stretchr/testify/require"
)

const creditMetadata = `
label: class
positive: "+"
header: false
attributes: [a0, a3, a8]
features:
  a0: [a, b]
  a1: numeric
  a3: discrete
  a8: [t, f]
  class: ["+", "-"]
`

func TestReadMetadata(t *testing.T) {
	md, err := ReadMetadata([]byte(creditMetadata))
	require.NoError(t, err)
	require.Len(t, md.Features, 5)
	names := []string{}
	for _, f := range md.Features {
		names = append(names, f.Name())
	}
	require.Equal(t, []string{"a0", "a1", "a3", "a8", "class"}, names)
	require.IsType(t, &feature.NumericFeature{}, md.Features[1])
	require.Equal(t, "class", md.Label.Name())
	require.Equal(t, []interface{}{"+", "-"}, md.Labels)
	require.Equal(t, "+", md.Positive)
	require.False(t, md.Header)
	require.Equal(t, ',', md.Delimiter)
	require.Len(t, md.Attributes, 3)
	require.True(t, md.Attributes[0] == md.Features[0])
	require.True(t, md.Attributes[1] == md.Features[2])
}

func TestReadMetadataDefaults(t *testing.T) {
	md, err := ReadMetadata([]byte(`
label: approved
labels: [0, 1]
delimiter: " "
features:
  a0: discrete
  approved: numeric
`))
	require.NoError(t, err)
	require.True(t, md.Header)
	require.Equal(t, ' ', md.Delimiter)
	require.Equal(t, []interface{}{0.0, 1.0}, md.Labels)
	require.Equal(t, 0.0, md.Positive)
	require.Len(t, md.Attributes, 1)
	require.Equal(t, "a0", md.Attributes[0].Name())
}

func TestReadMetadataErrors(t *testing.T) {
	cases := map[string]string{
		"no label":          "features:\n  a: discrete\n",
		"unknown label":     "label: z\nfeatures:\n  a: [x, y]\n",
		"one label":         "label: a\nlabels: [x]\nfeatures:\n  a: discrete\n",
		"bad declaration":   "label: a\nfeatures:\n  a: ordinal\n",
		"unknown attr":      "label: a\nattributes: [q]\nfeatures:\n  a: [x, y]\n",
		"label as attr":     "label: a\nattributes: [a]\nfeatures:\n  a: [x, y]\n",
		"long delimiter":    "label: a\ndelimiter: ';;'\nfeatures:\n  a: [x, y]\n",
		"invalid positive":  "label: a\npositive: z\nfeatures:\n  a: [x, y]\n",
		"no features":       "label: a\n",
		"labels not a list": "label: a\nlabels: x\nfeatures:\n  a: discrete\n",
		"nested values":     "label: a\nfeatures:\n  a: [[x], y]\n",
	}
	for name, doc := range cases {
		_, err := ReadMetadata([]byte(doc))
		require.Error(t, err, name)
	}
}

func TestReadFeatures(t *testing.T) {
	features, err := ReadFeatures([]byte("features:\n  day: [Monday, Tuesday]\n  temp: continuous\n"))
	require.NoError(t, err)
	require.Len(t, features, 2)
	require.Equal(t, []string{"Monday", "Tuesday"}, features[0].(*feature.DiscreteFeature).AvailableValues())
	require.IsType(t, &feature.NumericFeature{}, features[1])
}

func TestReadMetadataKeepsBooleanLookingWords(t *testing.T) {
	md, err := ReadMetadata([]byte(`
label: vote
positive: no
attributes: [y, n]
features:
  y: [p, q]
  n: [on, off]
  vote: [yes, no]
`))
	require.NoError(t, err)
	names := []string{}
	for _, f := range md.Features {
		names = append(names, f.Name())
	}
	require.Equal(t, []string{"y", "n", "vote"}, names)
	require.Equal(t, []string{"on", "off"}, md.Features[1].(*feature.DiscreteFeature).AvailableValues())
	require.Equal(t, []interface{}{"yes", "no"}, md.Labels)
	require.Equal(t, "no", md.Positive)
	require.Len(t, md.Attributes, 2)
	require.Equal(t, "y", md.Attributes[0].Name())
	ok, err := md.Label.Valid("yes")
	require.True(t, ok, "%v", err)
}
