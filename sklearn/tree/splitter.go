package tree

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/gocart/core/dataset"
)

// candidate is the outcome of a split search.
type candidate struct {
	split       Split
	left, right []int
	weighted    float64
	decrease    float64
}

// splitter searches the candidate splits of a node.
type splitter struct {
	ds             dataset.Dataset
	task           task
	minSamplesLeaf int
}

// findBestSplit scans features in the given order and, within a feature, the
// candidates in sorted order. The candidate with the lowest weighted child
// impurity wins; the first one found wins ties. ok is false when every
// candidate leaves a side with fewer than minSamplesLeaf samples.
func (s *splitter) findBestSplit(idx []int, features []int, parentImpurity float64) (best candidate, ok bool) {
	best.weighted = math.Inf(1)
	for _, f := range features {
		var c candidate
		var found bool
		if s.ds.ColumnType(f) == dataset.Categorical {
			c, found = s.bestCategorical(idx, f)
		} else {
			c, found = s.bestThreshold(idx, f)
		}
		if found && c.weighted < best.weighted {
			best, ok = c, true
		}
	}
	if !ok {
		return candidate{}, false
	}
	best.decrease = math.Max(0, parentImpurity-best.weighted)
	return best, true
}

// bestThreshold sweeps the sorted values of a continuous feature, moving one
// sample at a time from the right statistics to the left.
func (s *splitter) bestThreshold(idx []int, f int) (candidate, bool) {
	sorted := make([]int, len(idx))
	copy(sorted, idx)
	sort.SliceStable(sorted, func(a, b int) bool {
		return s.ds.Sample(sorted[a])[f].Number < s.ds.Sample(sorted[b])[f].Number
	})

	left, right := s.task.newStats(), s.task.newStats()
	for _, i := range sorted {
		right.add(i)
	}

	n := float64(len(sorted))
	bestPos := -1
	bestWeighted := math.Inf(1)
	var bestThreshold float64
	for k := 0; k < len(sorted)-1; k++ {
		left.add(sorted[k])
		right.remove(sorted[k])

		a := s.ds.Sample(sorted[k])[f].Number
		b := s.ds.Sample(sorted[k+1])[f].Number
		if a == b {
			continue
		}
		if left.count() < s.minSamplesLeaf || right.count() < s.minSamplesLeaf {
			continue
		}
		w := (float64(left.count())*left.impurity() + float64(right.count())*right.impurity()) / n
		if w < bestWeighted {
			bestWeighted, bestPos, bestThreshold = w, k, midpoint(a, b)
		}
	}
	if bestPos < 0 {
		return candidate{}, false
	}

	lIdx := append([]int(nil), sorted[:bestPos+1]...)
	rIdx := append([]int(nil), sorted[bestPos+1:]...)
	return candidate{
		split:    Split{Kind: ThresholdSplit, Feature: f, Threshold: bestThreshold},
		left:     lIdx,
		right:    rIdx,
		weighted: bestWeighted,
	}, true
}

// midpoint of two consecutive distinct values a < b, kept strictly below b so
// that b always falls on the right.
func midpoint(a, b float64) float64 {
	mid := a + (b-a)/2
	if mid >= b {
		mid = a
	}
	return mid
}

// bestCategorical tries every distinct token of a categorical feature as the
// left-hand category, in lexicographic order.
func (s *splitter) bestCategorical(idx []int, f int) (candidate, bool) {
	groups := make(map[string][]int)
	for _, i := range idx {
		tok := s.ds.Sample(i)[f].Token
		groups[tok] = append(groups[tok], i)
	}
	if len(groups) < 2 {
		return candidate{}, false
	}
	tokens := make([]string, 0, len(groups))
	for tok := range groups {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)

	n := float64(len(idx))
	best := candidate{weighted: math.Inf(1)}
	found := false
	for _, tok := range tokens {
		members := groups[tok]
		nl, nr := len(members), len(idx)-len(members)
		if nl < s.minSamplesLeaf || nr < s.minSamplesLeaf {
			continue
		}
		left, right := s.task.newStats(), s.task.newStats()
		for _, i := range idx {
			if s.ds.Sample(i)[f].Token == tok {
				left.add(i)
			} else {
				right.add(i)
			}
		}
		w := (float64(nl)*left.impurity() + float64(nr)*right.impurity()) / n
		if w < best.weighted {
			best = candidate{split: Split{Kind: CategorySplit, Feature: f, Category: tok}, weighted: w}
			found = true
		}
	}
	if !found {
		return candidate{}, false
	}
	best.left, best.right = partition(s.ds, idx, best.split)
	return best, true
}

// partition splits idx by the split test, preserving order.
func partition(ds dataset.Dataset, idx []int, sp Split) (left, right []int) {
	for _, i := range idx {
		if sp.GoesLeft(ds.Sample(i)[sp.Feature]) {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return left, right
}
