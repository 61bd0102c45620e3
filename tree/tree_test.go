package tree

import (
	"errors"
	"strings"
	"testing"

	"github.com/arbolado/chitree/dataset"
	"github.com/arbolado/chitree/feature"
	"github.com/stretchr/testify/require"
)

var (
	day   = feature.NewDiscreteFeature("day", nil)
	color = feature.NewDiscreteFeature("color", nil)
	class = feature.NewDiscreteFeature("class", []string{"X", "O"})
)

func schema(t *testing.T) *dataset.Schema {
	s, err := dataset.NewSchema([]feature.Feature{day, color, class})
	require.NoError(t, err)
	return s
}

func mustInternal(t *testing.T, f feature.Feature, values []interface{}, children ...Node) *Internal {
	n, err := NewInternal(f, values, children)
	require.NoError(t, err)
	return n
}

// color -> Yellow: day -> Monday: X, Tuesday: O ; Red: O
func colorTree(t *testing.T) Node {
	dayNode := mustInternal(t, day, []interface{}{"Monday", "Tuesday"}, NewLeaf("X", 1), NewLeaf("O", 1))
	return mustInternal(t, color, []interface{}{"Yellow", "Red"}, dayNode, NewLeaf("O", 1))
}

func TestNewInternalErrors(t *testing.T) {
	_, err := NewInternal(day, nil, nil)
	require.Error(t, err)
	_, err = NewInternal(day, []interface{}{"a"}, nil)
	require.Error(t, err)
	_, err = NewInternal(day, []interface{}{"a", "a"}, []Node{NewLeaf("X", 1), NewLeaf("O", 1)})
	require.Error(t, err)
	_, err = NewInternal(day, []interface{}{"a"}, []Node{nil})
	require.Error(t, err)
}

func TestClassify(t *testing.T) {
	s := schema(t)
	root := colorTree(t)
	cases := []struct {
		sample dataset.Sample
		label  interface{}
	}{
		{s.MustSample("Monday", "Yellow", "X"), "X"},
		{s.MustSample("Tuesday", "Yellow", "O"), "O"},
		{s.MustSample("Monday", "Red", "O"), "O"},
		{s.MustSample("Sunday", "Red", "O"), "O"},
	}
	for _, c := range cases {
		l, err := Classify(root, c.sample)
		require.NoError(t, err)
		require.Equal(t, c.label, l, "sample %v", c.sample)
	}
}

func TestClassifyUnknownBranch(t *testing.T) {
	s := schema(t)
	root := colorTree(t)
	// unseen color: Yellow subtree says X for Monday, Red says O; tie, first found wins
	l, err := Classify(root, s.MustSample("Monday", "Blue", "X"))
	require.NoError(t, err)
	require.Equal(t, "X", l)
	// unseen color and day: Yellow subtree ties X/O and picks X, Red says O
	l, err = Classify(root, s.MustSample("Sunday", "Blue", "X"))
	require.NoError(t, err)
	require.Equal(t, "X", l)
	// Tuesday: both subtrees say O
	l, err = Classify(root, s.MustSample("Tuesday", nil, "X"))
	require.NoError(t, err)
	require.Equal(t, "O", l)

	majority := mustInternal(t, day, []interface{}{"a", "b", "c"}, NewLeaf("O", 1), NewLeaf("X", 1), NewLeaf("X", 1))
	l, err = Classify(majority, s.MustSample("z", "Red", "X"))
	require.NoError(t, err)
	require.Equal(t, "X", l)
}

func TestClassifyMissingFeature(t *testing.T) {
	other, err := dataset.NewSchema([]feature.Feature{class})
	require.NoError(t, err)
	_, err = Classify(colorTree(t), other.MustSample("X"))
	require.Error(t, err)
}

func TestAccuracy(t *testing.T) {
	s := schema(t)
	root := colorTree(t)
	samples := []dataset.Sample{
		s.MustSample("Monday", "Yellow", "X"),
		s.MustSample("Monday", "Red", "O"),
		s.MustSample("Tuesday", "Yellow", "O"),
		s.MustSample("Tuesday", "Red", "X"),
	}
	acc, err := Accuracy(root, samples, class)
	require.NoError(t, err)
	require.Equal(t, 0.75, acc)

	_, err = Accuracy(root, nil, class)
	require.True(t, errors.Is(err, ErrEmptyInput))

	tr := New(root, class)
	acc, err = tr.Test(samples[:3])
	require.NoError(t, err)
	require.Equal(t, 1.0, acc)
}

func TestIntrospection(t *testing.T) {
	leaf := NewLeaf("X", 3)
	require.Equal(t, 1, CountNodes(leaf))
	require.Equal(t, 1, Depth(leaf))

	root := colorTree(t)
	require.Equal(t, 5, CountNodes(root))
	require.Equal(t, 3, Depth(root))

	tr := New(root, class)
	require.Equal(t, 5, tr.NodeCount())
	require.Equal(t, 3, tr.Depth())
}

func TestTraverse(t *testing.T) {
	root := colorTree(t)
	var order []string
	record := func(n Node) error {
		switch nt := n.(type) {
		case *Leaf:
			order = append(order, nt.Label.(string))
		case *Internal:
			order = append(order, nt.Feature.Name())
		}
		return nil
	}
	require.NoError(t, Traverse(root, false, record))
	require.Equal(t, []string{"color", "day", "X", "O", "O"}, order)
	order = nil
	require.NoError(t, Traverse(root, true, record))
	require.Equal(t, []string{"X", "O", "day", "O", "color"}, order)

	stop := errors.New("stop")
	require.Equal(t, stop, Traverse(root, false, func(Node) error { return stop }))
}

func TestString(t *testing.T) {
	out := New(colorTree(t), class).String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, []string{
		"color",
		"|__Yellow: day",
		"|  |__Monday: X (1)",
		"|  |__Tuesday: O (1)",
		"|__Red: O (1)",
	}, lines)
}
