package tree

import (
	"fmt"

	"github.com/arbolado/chitree/feature"
)

/*
Node is a node of the tree: either a *Leaf or an *Internal node.
*/
type Node interface {
	node()
}

/*
Leaf is a terminal node predicting a single label for every sample
reaching it.
*/
type Leaf struct {
	// The predicted label
	Label interface{}
	// The number of training samples that reached the leaf
	Weight int
}

/*
Internal is a node asking samples for their value of a feature and
sending them down the branch for that value.
*/
type Internal struct {
	// The feature samples are asked about
	Feature feature.Feature
	values  []interface{}
	nodes   []Node
	index   map[interface{}]int
}

/*
NewLeaf takes a label and the number of training samples the leaf was built
from and returns a Leaf.
*/
func NewLeaf(label interface{}, weight int) *Leaf {
	return &Leaf{label, weight}
}

/*
NewInternal takes a feature, a slice of distinct values and a slice of
children nodes, one per value, and returns an Internal node with a branch
per value. It returns an error if there are no branches, the slices differ in
length, a value repeats or a child is nil.
*/
func NewInternal(f feature.Feature, values []interface{}, children []Node) (*Internal, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("internal node on feature %s has no branches", f.Name())
	}
	if len(values) != len(children) {
		return nil, fmt.Errorf("internal node on feature %s has %d values but %d children", f.Name(), len(values), len(children))
	}
	index := make(map[interface{}]int, len(values))
	for i, v := range values {
		if _, ok := index[v]; ok {
			return nil, fmt.Errorf("internal node on feature %s has value %v twice", f.Name(), v)
		}
		if children[i] == nil {
			return nil, fmt.Errorf("internal node on feature %s has nil child for value %v", f.Name(), v)
		}
		index[v] = i
	}
	return &Internal{
		Feature: f,
		values:  append([]interface{}{}, values...),
		nodes:   append([]Node{}, children...),
		index:   index,
	}, nil
}

/*
Child takes a value and returns the child node for it and true, or nil and
false if the value has no branch.
*/
func (n *Internal) Child(v interface{}) (Node, bool) {
	i, ok := n.index[v]
	if !ok {
		return nil, false
	}
	return n.nodes[i], true
}

/*
Values returns the branch values in the order the branches were built.
*/
func (n *Internal) Values() []interface{} {
	return n.values
}

/*
Children returns the children nodes in the same order as Values.
*/
func (n *Internal) Children() []Node {
	return n.nodes
}

func (*Leaf) node()     {}
func (*Internal) node() {}
