package model

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/adit9852/ChurnAI-Dashboard/internal/config"
)

// ClassMetrics holds precision/recall/F1 for one label class.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// FeatureImportance pairs a feature name with its normalized importance.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// Metrics is the evaluation bundle for one training run: holdout accuracy,
// per-class metrics, confusion matrix, cross-validation accuracies, and the
// importance ranking.
type Metrics struct {
	Accuracy    float64                 `json:"accuracy"`
	Confusion   [2][2]int               `json:"confusion"` // [actual][predicted]
	PerClass    map[string]ClassMetrics `json:"per_class"`
	CVScores    []float64               `json:"cv_scores"`
	Importances []FeatureImportance     `json:"importances"`
}

func forestFromConfig(mcfg config.Model) *Forest {
	return NewForest(
		WithTrees(mcfg.NEstimators),
		WithMaxDepth(mcfg.MaxDepth),
		WithBalanced(mcfg.ClassWeight == "balanced"),
		WithSeed(mcfg.RandomState),
	)
}

// TrainEvaluate fits a forest on a stratified train split and evaluates it on
// the holdout, plus a 5-fold cross-validation pass over the full data.
func TrainEvaluate(x *mat.Dense, y []int, features []string, mcfg config.Model) (*Forest, *Metrics, error) {
	trainIdx, testIdx := stratifiedSplit(y, mcfg.TestSize, mcfg.RandomState)

	forest := forestFromConfig(mcfg)
	if err := forest.Fit(subMatrix(x, trainIdx), subLabels(y, trainIdx)); err != nil {
		return nil, nil, err
	}

	probs, err := forest.PredictProba(subMatrix(x, testIdx))
	if err != nil {
		return nil, nil, err
	}

	m := &Metrics{PerClass: map[string]ClassMetrics{}}
	correct := 0
	for i, idx := range testIdx {
		pred := 0
		if probs[i] >= 0.5 {
			pred = 1
		}
		m.Confusion[y[idx]][pred]++
		if pred == y[idx] {
			correct++
		}
	}
	if len(testIdx) > 0 {
		m.Accuracy = float64(correct) / float64(len(testIdx))
	}
	for _, class := range []int{0, 1} {
		tp := m.Confusion[class][class]
		fp := m.Confusion[1-class][class]
		fn := m.Confusion[class][1-class]
		cm := ClassMetrics{Support: tp + fn}
		if tp+fp > 0 {
			cm.Precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			cm.Recall = float64(tp) / float64(tp+fn)
		}
		if cm.Precision+cm.Recall > 0 {
			cm.F1 = 2 * cm.Precision * cm.Recall / (cm.Precision + cm.Recall)
		}
		if class == 0 {
			m.PerClass["retained"] = cm
		} else {
			m.PerClass["churned"] = cm
		}
	}

	cv, err := crossValidate(x, y, mcfg, 5)
	if err != nil {
		return nil, nil, err
	}
	m.CVScores = cv

	imp := forest.FeatureImportances()
	m.Importances = make([]FeatureImportance, 0, len(imp))
	for i, v := range imp {
		name := ""
		if i < len(features) {
			name = features[i]
		}
		m.Importances = append(m.Importances, FeatureImportance{Feature: name, Importance: v})
	}
	sort.Slice(m.Importances, func(i, j int) bool {
		return m.Importances[i].Importance > m.Importances[j].Importance
	})

	return forest, m, nil
}

// stratifiedSplit shuffles each class separately and carves off testSize of
// each, so the holdout keeps the label balance of the full table.
func stratifiedSplit(y []int, testSize float64, seed int64) (train, test []int) {
	rng := rand.New(rand.NewSource(seed))
	byClass := map[int][]int{}
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}
	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	for _, c := range classes {
		idx := byClass[c]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		nTest := int(float64(len(idx)) * testSize)
		test = append(test, idx[:nTest]...)
		train = append(train, idx[nTest:]...)
	}
	sort.Ints(train)
	sort.Ints(test)
	return train, test
}

// crossValidate runs k-fold CV with fresh forests, returning fold accuracies.
func crossValidate(x *mat.Dense, y []int, mcfg config.Model, folds int) ([]float64, error) {
	n := len(y)
	if folds > n {
		folds = n
	}
	rng := rand.New(rand.NewSource(mcfg.RandomState))
	order := rng.Perm(n)

	scores := make([]float64, 0, folds)
	for f := 0; f < folds; f++ {
		var trainIdx, testIdx []int
		for i, idx := range order {
			if i%folds == f {
				testIdx = append(testIdx, idx)
			} else {
				trainIdx = append(trainIdx, idx)
			}
		}
		forest := forestFromConfig(mcfg)
		if err := forest.Fit(subMatrix(x, trainIdx), subLabels(y, trainIdx)); err != nil {
			return nil, err
		}
		probs, err := forest.PredictProba(subMatrix(x, testIdx))
		if err != nil {
			return nil, err
		}
		correct := 0
		for i, idx := range testIdx {
			pred := 0
			if probs[i] >= 0.5 {
				pred = 1
			}
			if pred == y[idx] {
				correct++
			}
		}
		scores = append(scores, float64(correct)/float64(len(testIdx)))
	}
	return scores, nil
}

func subMatrix(x *mat.Dense, idx []int) *mat.Dense {
	_, p := x.Dims()
	out := mat.NewDense(len(idx), p, nil)
	for i, r := range idx {
		out.SetRow(i, mat.Row(nil, r, x))
	}
	return out
}

func subLabels(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, r := range idx {
		out[i] = y[r]
	}
	return out
}
