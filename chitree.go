/*
Package chitree grows decision trees from labeled samples. Nodes are branched
out on the feature with the best information gain among those passing a
chi-squared significance test, and become leaves predicting the majority
label when no feature passes it.
*/
package chitree

import (
	"context"
	"runtime"

	"github.com/arbolado/chitree/dataset"
	"github.com/arbolado/chitree/feature"
	"github.com/arbolado/chitree/tree"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// GrowError represents an error caused by the arguments a tree is grown with
type GrowError string

const (
	// ErrEmptyInput is returned when growing a tree without samples
	ErrEmptyInput = GrowError("cannot grow a tree from an empty set of samples")
	// ErrTooFewLabels is returned when the label takes less than two labels
	ErrTooFewLabels = GrowError("cannot grow a tree for less than two labels")
	// ErrDuplicateLabel is returned when a label is given twice
	ErrDuplicateLabel = GrowError("labels must be distinct")
	// ErrDuplicateFeature is returned when a feature is given twice
	ErrDuplicateFeature = GrowError("features must be distinct")
	// ErrNoSplitter is returned when growing a tree without a splitter
	ErrNoSplitter = GrowError("cannot grow a tree without a splitter")
)

func (ge GrowError) Error() string {
	return string(ge)
}

/*
Pot holds everything needed to grow trees: the features nodes can be
branched out on, the label feature to predict and its labels, and the
Splitter deciding on every branch.

When Parallel is true the subtrees of a node are grown concurrently, using
at most Workers goroutines besides the calling one for the whole tree, with 0
meaning runtime.GOMAXPROCS(0). Subtrees that find no free worker are grown by
the goroutine that branched them out. The resulting tree is the same as when
grown sequentially.

MaxDepth limits the number of nodes in any path from the root to a leaf,
with 0 meaning no limit.
*/
type Pot struct {
	Features []feature.Feature
	Label    feature.Feature
	Labels   []interface{}
	Splitter Splitter
	Parallel bool
	Workers  int
	MaxDepth int
}

/*
New takes a slice of features, a label feature, the labels it may take and a
splitter and returns a Pot to grow trees with them.
*/
func New(features []feature.Feature, label feature.Feature, labels []interface{}, splitter Splitter) *Pot {
	return &Pot{
		Features: features,
		Label:    label,
		Labels:   labels,
		Splitter: splitter,
	}
}

/*
BuildTree takes a context, a slice of samples, the features available to
branch out nodes, the label feature with the labels it may take and a
splitter, and returns the root node of a tree grown sequentially from the
samples.
*/
func BuildTree(ctx context.Context, samples []dataset.Sample, features []feature.Feature, label feature.Feature, labels []interface{}, splitter Splitter) (tree.Node, error) {
	t, err := New(features, label, labels, splitter).Grow(ctx, dataset.New(samples))
	if err != nil {
		return nil, err
	}
	return t.Root, nil
}

/*
Grow takes a context and a dataset and returns a tree grown from it or an
error. It returns ErrEmptyInput, ErrTooFewLabels, ErrDuplicateLabel,
ErrDuplicateFeature or ErrNoSplitter for invalid arguments, a
*dataset.UnknownLabelError if a sample has a label not in the pot's labels,
and the context error if it is cancelled before the tree is complete.
*/
func (p *Pot) Grow(ctx context.Context, d dataset.Dataset) (*tree.Tree, error) {
	if err := p.validate(d); err != nil {
		return nil, err
	}
	var workers chan struct{}
	if p.Parallel {
		n := p.Workers
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		workers = make(chan struct{}, n)
	}
	root, err := p.grow(ctx, d, p.Features, 1, workers)
	if err != nil {
		return nil, err
	}
	return tree.New(root, p.Label), nil
}

func (p *Pot) validate(d dataset.Dataset) error {
	if d == nil || d.Count() == 0 {
		return ErrEmptyInput
	}
	if p.Splitter == nil {
		return ErrNoSplitter
	}
	if len(p.Labels) < 2 {
		return ErrTooFewLabels
	}
	labels := make(map[interface{}]bool, len(p.Labels))
	for _, l := range p.Labels {
		if labels[l] {
			return ErrDuplicateLabel
		}
		labels[l] = true
	}
	features := make(map[feature.Feature]bool, len(p.Features))
	for _, f := range p.Features {
		if features[f] {
			return ErrDuplicateFeature
		}
		features[f] = true
	}
	_, err := d.CountsPerClass(p.Label, p.Labels)
	return err
}

// workers is nil when growing sequentially. Otherwise it holds a token for
// every goroutine growing a subtree.
func (p *Pot) grow(ctx context.Context, d dataset.Dataset, features []feature.Feature, depth int, workers chan struct{}) (tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	counts, err := d.CountsPerClass(p.Label, p.Labels)
	if err != nil {
		return nil, err
	}
	if label, ok := pureLabel(counts, p.Labels); ok {
		return tree.NewLeaf(label, d.Count()), nil
	}
	if len(features) == 0 || (p.MaxDepth > 0 && depth >= p.MaxDepth) {
		return p.majorityLeaf(d)
	}
	part, err := p.Splitter.Split(d, features, p.Label, p.Labels)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return p.majorityLeaf(d)
	}
	log.Debug().
		Str("feature", part.Feature.Name()).
		Int("depth", depth).
		Int("samples", d.Count()).
		Int("branches", len(part.Values)).
		Msg("Branching out")
	remaining := withoutFeature(features, part.Feature)
	children := make([]tree.Node, len(part.Subsets))
	if workers != nil {
		g, gctx := errgroup.WithContext(ctx)
		for i, s := range part.Subsets {
			i, s := i, s
			select {
			case workers <- struct{}{}:
				g.Go(func() error {
					defer func() { <-workers }()
					child, err := p.grow(gctx, s, remaining, depth+1, workers)
					children[i] = child
					return err
				})
			default:
				child, err := p.grow(gctx, s, remaining, depth+1, workers)
				if err != nil {
					g.Wait()
					return nil, err
				}
				children[i] = child
			}
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, s := range part.Subsets {
			children[i], err = p.grow(ctx, s, remaining, depth+1, nil)
			if err != nil {
				return nil, err
			}
		}
	}
	return tree.NewInternal(part.Feature, part.Values, children)
}

func (p *Pot) majorityLeaf(d dataset.Dataset) (tree.Node, error) {
	label, err := dataset.Majority(d, p.Label)
	if err != nil {
		return nil, err
	}
	return tree.NewLeaf(label, d.Count()), nil
}

func pureLabel(counts []int, labels []interface{}) (interface{}, bool) {
	var result interface{}
	found := false
	for i, c := range counts {
		if c == 0 {
			continue
		}
		if found {
			return nil, false
		}
		result = labels[i]
		found = true
	}
	return result, found
}

func withoutFeature(features []feature.Feature, f feature.Feature) []feature.Feature {
	result := make([]feature.Feature, 0, len(features))
	for _, sf := range features {
		if sf != f {
			result = append(result, sf)
		}
	}
	return result
}
