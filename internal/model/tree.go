package model

// SubCollectionID is the id carried by sub-collection nodes in a materialized
// tree. Sub-collections are structural grouping nodes; they have no content
// UUID of their own.
const SubCollectionID = "subcol"

// Tree is one node of a materialized binder tree. The root carries the
// binder's content UUID, leaves carry a document's content UUID, and
// sub-collections carry SubCollectionID. Contents is nil for leaves and
// ordered by submission order for everything else.
type Tree struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Contents []*Tree `json:"contents,omitempty"`
}

// FlattenDepthFirst returns the tree's nodes in depth-first pre-order. The
// order matches the order the nodes appeared in the submitted content tree.
func (t *Tree) FlattenDepthFirst() []*Tree {
	if t == nil {
		return nil
	}
	nodes := []*Tree{t}
	for _, child := range t.Contents {
		nodes = append(nodes, child.FlattenDepthFirst()...)
	}
	return nodes
}

// Titles returns the titles of nodes in depth-first pre-order. Convenience
// for order assertions.
func (t *Tree) Titles() []string {
	flat := t.FlattenDepthFirst()
	titles := make([]string, len(flat))
	for i, n := range flat {
		titles[i] = n.Title
	}
	return titles
}
