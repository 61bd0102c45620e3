/*
Package tree provides the decision trees grown by chitree and the logic to
classify samples with them and evaluate them.
*/
package tree

import (
	"fmt"
	"strings"

	"github.com/arbolado/chitree/dataset"
	"github.com/arbolado/chitree/feature"
)

// PredictionError represents an error related with predictions
type PredictionError string

/*
ErrEmptyInput is returned when evaluating a tree against no samples.
*/
const ErrEmptyInput = PredictionError("cannot evaluate a tree against an empty set of samples")

func (pe PredictionError) Error() string {
	return string(pe)
}

// Tree represents a decision tree: the root node and the label feature
// it predicts.
type Tree struct {
	Root  Node
	Label feature.Feature
}

// New takes a root node and a label feature and returns a Tree.
func New(root Node, label feature.Feature) *Tree {
	return &Tree{root, label}
}

/*
Classify takes a root node and a sample and returns the label predicted for
the sample. At every internal node the sample goes down the branch for its
value of the node's feature. When no branch exists for that value, the sample
is classified with every child subtree and the label most of them predict is
returned (ties resolved in favour of the label found first).
An error is returned only if the sample cannot provide a value for a feature.
*/
func Classify(root Node, s dataset.Sample) (interface{}, error) {
	n := root
	for {
		switch nt := n.(type) {
		case *Leaf:
			return nt.Label, nil
		case *Internal:
			v, err := s.ValueFor(nt.Feature)
			if err != nil {
				return nil, fmt.Errorf("classifying sample: %w", err)
			}
			child, ok := nt.Child(v)
			if !ok {
				return classifyUnknownBranch(nt, s)
			}
			n = child
		default:
			return nil, fmt.Errorf("classifying sample: unknown node type %T", n)
		}
	}
}

func classifyUnknownBranch(n *Internal, s dataset.Sample) (interface{}, error) {
	var order []interface{}
	votes := make(map[interface{}]int)
	for _, child := range n.Children() {
		l, err := Classify(child, s)
		if err != nil {
			return nil, err
		}
		if _, ok := votes[l]; !ok {
			order = append(order, l)
		}
		votes[l]++
	}
	var result interface{}
	best := 0
	for _, l := range order {
		if votes[l] > best {
			result = l
			best = votes[l]
		}
	}
	return result, nil
}

/*
Accuracy takes a root node, a slice of samples and the label feature and
returns the fraction of samples whose label is the one predicted by the tree.
It returns ErrEmptyInput if there are no samples.
*/
func Accuracy(root Node, samples []dataset.Sample, label feature.Feature) (float64, error) {
	if len(samples) == 0 {
		return 0.0, ErrEmptyInput
	}
	var correct int
	for _, sample := range samples {
		predicted, err := Classify(root, sample)
		if err != nil {
			return 0.0, err
		}
		actual, err := sample.ValueFor(label)
		if err != nil {
			return 0.0, err
		}
		if predicted == actual {
			correct++
		}
	}
	return float64(correct) / float64(len(samples)), nil
}

/*
CountNodes returns the number of nodes in the tree under root, including it.
*/
func CountNodes(root Node) int {
	count := 0
	Traverse(root, false, func(Node) error {
		count++
		return nil
	})
	return count
}

/*
Depth returns the number of nodes in the longest path from root to a leaf.
A single leaf has a depth of 1.
*/
func Depth(root Node) int {
	n, ok := root.(*Internal)
	if !ok {
		return 1
	}
	deepest := 0
	for _, child := range n.Children() {
		if d := Depth(child); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

/*
Traverse takes a root node, a bottomup boolean and an error-returning
function and goes through the tree calling the function with every node.
The function is called with a parent node before its children if bottomup
is false, and after its children if bottomup is true. If the function
returns an error the traversal is aborted and the error returned.
*/
func Traverse(n Node, bottomup bool, f func(Node) error) error {
	if !bottomup {
		if err := f(n); err != nil {
			return err
		}
	}
	if in, ok := n.(*Internal); ok {
		for _, child := range in.Children() {
			if err := Traverse(child, bottomup, f); err != nil {
				return err
			}
		}
	}
	if bottomup {
		return f(n)
	}
	return nil
}

// Classify takes a sample and returns the label the tree predicts for it.
func (t *Tree) Classify(s dataset.Sample) (interface{}, error) {
	if t == nil || t.Root == nil {
		return nil, fmt.Errorf("nil tree cannot classify samples")
	}
	return Classify(t.Root, s)
}

/*
Test takes a slice of samples and returns the accuracy of the tree on them
for its label feature.
*/
func (t *Tree) Test(samples []dataset.Sample) (float64, error) {
	return Accuracy(t.Root, samples, t.Label)
}

// NodeCount returns the number of nodes of the tree.
func (t *Tree) NodeCount() int {
	return CountNodes(t.Root)
}

// Depth returns the depth of the tree.
func (t *Tree) Depth() int {
	return Depth(t.Root)
}

func (t *Tree) String() string {
	return subtreeString(t.Root)
}

func subtreeString(n Node) string {
	switch nt := n.(type) {
	case *Leaf:
		return fmt.Sprintf("%v (%d)\n", nt.Label, nt.Weight)
	case *Internal:
		result := fmt.Sprintf("%s\n", nt.Feature.Name())
		values := nt.Values()
		for i, child := range nt.Children() {
			for j, line := range strings.Split(subtreeString(child), "\n") {
				if len(line) == 0 {
					continue
				}
				if j == 0 {
					result = fmt.Sprintf("%s|__%v: %s\n", result, values[i], line)
				} else if i == len(values)-1 {
					result = fmt.Sprintf("%s   %s\n", result, line)
				} else {
					result = fmt.Sprintf("%s|  %s\n", result, line)
				}
			}
		}
		return result
	}
	return fmt.Sprintf("%T\n", n)
}
