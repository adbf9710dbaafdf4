package tree

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// Graphviz renders the tree in DOT format. Internal nodes show their left
// branch condition; every node shows its impurity and sample count.
func (t *Tree) Graphviz() (string, error) {
	if !t.Trained() {
		return "", errors.NewNotFittedError("Tree", "Graphviz")
	}
	graphAst, err := gographviz.Parse([]byte(`digraph Tree {}`))
	if err != nil {
		return "", errors.Wrap(err, "Tree.Graphviz")
	}
	graph := gographviz.NewGraph()
	if err := gographviz.Analyse(graphAst, graph); err != nil {
		return "", errors.Wrap(err, "Tree.Graphviz")
	}
	for i := range t.Nodes {
		if err := graph.AddNode("Tree", strconv.Itoa(i), map[string]string{
			"shape": "box",
			"label": t.dotLabel(i),
		}); err != nil {
			return "", errors.Wrap(err, "Tree.Graphviz")
		}
	}
	for i := range t.Nodes {
		n := &t.Nodes[i]
		if n.IsLeaf() {
			continue
		}
		var left, right map[string]string
		if i == 0 {
			left = map[string]string{"headlabel": `"True"`}
			right = map[string]string{"headlabel": `"False"`}
		}
		if err := graph.AddEdge(strconv.Itoa(i), strconv.Itoa(n.Left), true, left); err != nil {
			return "", errors.Wrap(err, "Tree.Graphviz")
		}
		if err := graph.AddEdge(strconv.Itoa(i), strconv.Itoa(n.Right), true, right); err != nil {
			return "", errors.Wrap(err, "Tree.Graphviz")
		}
	}
	return graph.String(), nil
}

// dotLabel returns an HTML-like DOT label for node i.
func (t *Tree) dotLabel(i int) string {
	n := &t.Nodes[i]
	var lines []string
	if !n.IsLeaf() {
		lines = append(lines, n.Split.describe(t.featureName(n.Split.Feature), true))
	}
	lines = append(lines,
		fmt.Sprintf("impurity = %.4g", n.Impurity),
		fmt.Sprintf("samples = %d", n.Samples),
	)
	if n.IsLeaf() {
		lines = append(lines, t.leafLabel(n))
	}
	for j, l := range lines {
		lines[j] = html.EscapeString(l)
	}
	return "<" + strings.Join(lines, "<br/>") + ">"
}

// ExportGraphviz renders the trained tree in DOT format.
func (d *decisionTree) ExportGraphviz() (string, error) {
	tree, err := d.fitted("ExportGraphviz")
	if err != nil {
		return "", err
	}
	return tree.Graphviz()
}

// PlotFeatureImportances writes a bar chart of the feature importances to
// path. The format follows the extension (.png, .svg, .pdf).
func (d *decisionTree) PlotFeatureImportances(path string) error {
	op := d.name + ".PlotFeatureImportances"
	tree, err := d.fitted("PlotFeatureImportances")
	if err != nil {
		return err
	}
	importances, err := tree.FeatureImportances()
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = d.name + " feature importances"
	p.Y.Label.Text = "importance"
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(plotter.Values(importances), vg.Points(20))
	if err != nil {
		return errors.Wrap(err, op)
	}
	p.Add(bars)

	names := make([]string, tree.NumFeatures)
	for j := range names {
		names[j] = tree.featureName(j)
	}
	p.NominalX(names...)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, op)
	}
	return nil
}
