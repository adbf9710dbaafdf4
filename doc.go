// Package gocart provides CART decision trees for Go, with the dataset,
// validation and tooling needed to use them in backend services.
//
// gocart grows binary classification and regression trees over mixed
// continuous and categorical features. Continuous columns split on the
// midpoint between adjacent distinct values; categorical columns split on
// equality with one category.
//
// # Features
//
//   - Gini and entropy criteria for classification, squared error for regression
//   - Stopping rules: max_depth, min_samples_split, min_samples_leaf,
//     min_impurity_decrease, max_features
//   - Feature importances, text rules, Graphviz DOT and importance plots
//   - gonum matrix API (Fit / Predict / PredictProba / Score) next to the
//     dataset API (Train / PredictSamples / ProbaSamples)
//   - Holdout, k-fold and Monte Carlo cross-validation on serial or
//     parallel backends
//   - gob and JSON persistence
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/gocart/sklearn/tree"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 2, []float64{0, 0, 0, 1, 1, 0, 1, 1})
//	    y := mat.NewVecDense(4, []float64{0, 1, 1, 0})
//
//	    clf, err := tree.NewDecisionTreeClassifier(tree.WithMaxDepth(3))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := clf.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    rules, _ := clf.Rules()
//	    fmt.Print(rules)
//	}
//
// # Packages
//
//   - sklearn/tree: DecisionTreeClassifier, DecisionTreeRegressor and the
//     underlying Builder and Tree
//   - sklearn/model_selection: Holdout, KFold and MonteCarlo validators
//   - sklearn/cluster: GaussianMixture
//   - sklearn/dummy: DummyClassifier baseline
//   - metrics: regression, classification and validation metrics
//   - core/dataset: values, labeled and unlabeled datasets, schemas,
//     extractors and synthetic generators
//   - core/model: estimator interfaces, state and persistence
//   - core/parallel: parallel processing utilities
//   - pkg/errors, pkg/log: error types and structured logging
//
// The gocart command in cmd/gocart trains, validates, inspects and applies
// trees from CSV or NDJSON files.
package gocart
