package model

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Forest is a random-forest churn classifier: bagged CART trees with Gini
// splits over a random √p feature subset per node, optional balanced class
// weights for the skewed churn label, and impurity-decrease feature
// importances.
type Forest struct {
	nTrees   int
	maxDepth int
	minLeaf  int
	balanced bool
	seed     int64

	trees       []*node
	nFeatures   int
	importances []float64
}

// Option configures a Forest before fitting.
type Option func(*Forest)

// WithTrees sets the ensemble size.
func WithTrees(n int) Option { return func(f *Forest) { f.nTrees = n } }

// WithMaxDepth caps tree depth; 0 means unlimited.
func WithMaxDepth(d int) Option { return func(f *Forest) { f.maxDepth = d } }

// WithMinLeaf sets the minimum samples per leaf.
func WithMinLeaf(n int) Option { return func(f *Forest) { f.minLeaf = n } }

// WithBalanced toggles balanced class weights.
func WithBalanced(b bool) Option { return func(f *Forest) { f.balanced = b } }

// WithSeed fixes the RNG so training is reproducible.
func WithSeed(s int64) Option { return func(f *Forest) { f.seed = s } }

// NewForest returns a classifier with the dashboard defaults: 100 trees,
// depth 10, balanced class weights.
func NewForest(opts ...Option) *Forest {
	f := &Forest{
		nTrees:   100,
		maxDepth: 10,
		minLeaf:  1,
		balanced: true,
		seed:     42,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	leaf      bool
	prob      float64 // P(churn) at a leaf
}

// Fit trains the forest on a design matrix and binary labels. Training fails
// when fewer than two label classes are present; a degenerate single-class
// model is never returned.
func (f *Forest) Fit(x mat.Matrix, y []int) error {
	n, p := x.Dims()
	if n != len(y) {
		return &FitError{Detail: "feature matrix and labels disagree on row count"}
	}
	if n == 0 {
		return &FitError{Detail: "no training rows"}
	}
	classes := map[int]bool{}
	for _, label := range y {
		classes[label] = true
	}
	if len(classes) < 2 {
		return &FitError{Detail: "training requires at least two label classes, got 1"}
	}

	// Balanced weights: n / (2 * class count), per the sklearn convention.
	w := [2]float64{1, 1}
	if f.balanced {
		counts := [2]int{}
		for _, label := range y {
			counts[label]++
		}
		w[0] = float64(n) / (2 * float64(counts[0]))
		w[1] = float64(n) / (2 * float64(counts[1]))
	}

	rng := rand.New(rand.NewSource(f.seed))
	mtry := int(math.Max(1, math.Floor(math.Sqrt(float64(p)))))

	f.nFeatures = p
	f.importances = make([]float64, p)
	f.trees = make([]*node, f.nTrees)
	for t := 0; t < f.nTrees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		f.trees[t] = f.grow(x, y, w, sample, mtry, 0, rng)
	}

	// Normalize accumulated impurity decreases.
	total := 0.0
	for _, v := range f.importances {
		total += v
	}
	if total > 0 {
		for i := range f.importances {
			f.importances[i] /= total
		}
	}
	return nil
}

func (f *Forest) grow(x mat.Matrix, y []int, w [2]float64, idx []int, mtry, depth int, rng *rand.Rand) *node {
	w0, w1 := weightedCounts(y, w, idx)
	if w0 == 0 || w1 == 0 || len(idx) < 2*f.minLeaf || (f.maxDepth > 0 && depth >= f.maxDepth) {
		return leafNode(w0, w1)
	}

	parentGini := gini(w0, w1)
	bestFeature, bestThreshold := -1, 0.0
	bestGain := 0.0

	_, p := x.Dims()
	for _, j := range rng.Perm(p)[:mtry] {
		vals := make([]float64, len(idx))
		for i, r := range idx {
			vals[i] = x.At(r, j)
		}
		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)
		for i := 1; i < len(sorted); i++ {
			if sorted[i] == sorted[i-1] {
				continue
			}
			thr := (sorted[i] + sorted[i-1]) / 2
			var l0, l1, r0, r1 float64
			nl, nr := 0, 0
			for k, r := range idx {
				if vals[k] <= thr {
					nl++
					if y[r] == 0 {
						l0 += w[0]
					} else {
						l1 += w[1]
					}
				} else {
					nr++
					if y[r] == 0 {
						r0 += w[0]
					} else {
						r1 += w[1]
					}
				}
			}
			if nl < f.minLeaf || nr < f.minLeaf {
				continue
			}
			wl, wr := l0+l1, r0+r1
			wt := wl + wr
			gain := parentGini - (wl/wt)*gini(l0, l1) - (wr/wt)*gini(r0, r1)
			if gain > bestGain {
				bestGain = gain
				bestFeature = j
				bestThreshold = thr
			}
		}
	}

	if bestFeature < 0 {
		return leafNode(w0, w1)
	}

	var left, right []int
	for _, r := range idx {
		if x.At(r, bestFeature) <= bestThreshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	f.importances[bestFeature] += bestGain * float64(len(idx))

	return &node{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      f.grow(x, y, w, left, mtry, depth+1, rng),
		right:     f.grow(x, y, w, right, mtry, depth+1, rng),
	}
}

func leafNode(w0, w1 float64) *node {
	p := 0.0
	if w0+w1 > 0 {
		p = w1 / (w0 + w1)
	}
	return &node{leaf: true, prob: p}
}

func weightedCounts(y []int, w [2]float64, idx []int) (w0, w1 float64) {
	for _, r := range idx {
		if y[r] == 0 {
			w0 += w[0]
		} else {
			w1 += w[1]
		}
	}
	return
}

func gini(w0, w1 float64) float64 {
	t := w0 + w1
	if t == 0 {
		return 0
	}
	p0, p1 := w0/t, w1/t
	return 1 - p0*p0 - p1*p1
}

// PredictRow returns P(churn) for one feature vector, validated against the
// trained schema.
func (f *Forest) PredictRow(row []float64) (float64, error) {
	if len(f.trees) == 0 {
		return 0, &FitError{Detail: "model has not been trained"}
	}
	if len(row) != f.nFeatures {
		return 0, &DimensionError{Want: f.nFeatures, Got: len(row)}
	}
	sum := 0.0
	for _, t := range f.trees {
		for !t.leaf {
			if row[t.feature] <= t.threshold {
				t = t.left
			} else {
				t = t.right
			}
		}
		sum += t.prob
	}
	return sum / float64(len(f.trees)), nil
}

// PredictProba returns P(churn) per row of the matrix.
func (f *Forest) PredictProba(x mat.Matrix) ([]float64, error) {
	n, p := x.Dims()
	if len(f.trees) == 0 {
		return nil, &FitError{Detail: "model has not been trained"}
	}
	if p != f.nFeatures {
		return nil, &DimensionError{Want: f.nFeatures, Got: p}
	}
	out := make([]float64, n)
	row := make([]float64, p)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			row[j] = x.At(i, j)
		}
		prob, err := f.PredictRow(row)
		if err != nil {
			return nil, err
		}
		out[i] = prob
	}
	return out, nil
}

// FeatureImportances returns normalized impurity-decrease importances, one
// per trained feature column. Nil before Fit.
func (f *Forest) FeatureImportances() []float64 {
	if f.importances == nil {
		return nil
	}
	return append([]float64(nil), f.importances...)
}
