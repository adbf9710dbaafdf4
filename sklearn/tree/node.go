package tree

// Node is an element of the tree's node arena. Children are referenced by
// index; -1 means none. A node is a leaf exactly when both children are -1.
type Node struct {
	Split Split `json:"split"`
	Left  int   `json:"left"`
	Right int   `json:"right"`

	// Impurity of the samples that reached the node, before any split.
	Impurity float64 `json:"impurity"`
	Samples  int     `json:"samples"`
	// Decrease is the impurity decrease of the node's split.
	Decrease float64 `json:"decrease,omitempty"`

	// Value is the class index (classification) or mean target (regression)
	// of a leaf.
	Value float64 `json:"value"`
	// Distribution holds the class probabilities of a classification leaf.
	Distribution []float64 `json:"distribution,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == -1 && n.Right == -1
}
