package tree

import (
	"strconv"
	"strings"

	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// Rules renders the tree as indented if/else rules, one line per branch:
//
//	|--- feature_0 <= 6.5
//	|   |--- value: 2
//	|--- feature_0 >  6.5
//	|   |--- value: 10
func (t *Tree) Rules() (string, error) {
	if !t.Trained() {
		return "", errors.NewNotFittedError("Tree", "Rules")
	}
	var b strings.Builder
	t.writeRules(&b, 0, 0)
	return b.String(), nil
}

func (t *Tree) writeRules(b *strings.Builder, id, depth int) {
	node := &t.Nodes[id]
	indent := strings.Repeat("|   ", depth)

	if node.IsLeaf() {
		b.WriteString(indent)
		b.WriteString("|--- ")
		b.WriteString(t.leafLabel(node))
		b.WriteByte('\n')
		return
	}

	name := t.featureName(node.Split.Feature)
	b.WriteString(indent + "|--- " + node.Split.describe(name, true) + "\n")
	t.writeRules(b, node.Left, depth+1)
	b.WriteString(indent + "|--- " + node.Split.describe(name, false) + "\n")
	t.writeRules(b, node.Right, depth+1)
}

func (t *Tree) leafLabel(node *Node) string {
	if t.Classification() {
		return "class: " + t.Classes[int(node.Value)].String()
	}
	return "value: " + strconv.FormatFloat(node.Value, 'g', -1, 64)
}
