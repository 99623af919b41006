package model

import "fmt"

// NodeKind classifies nodes of a parsed content tree.
type NodeKind string

const (
	// KindDocument is a leaf content unit with its own payload and metadata.
	KindDocument NodeKind = "document"

	// KindBinder is a top-level hierarchical grouping. Binders become
	// permanent units of their own, with a materialized tree.
	KindBinder NodeKind = "binder"

	// KindSubCollection is a structural grouping inside an binder. It carries
	// a title only and never becomes a permanent unit.
	KindSubCollection NodeKind = "subcollection"
)

// ContentNode is one node of the parsed content tree handed to intake by the
// content-model adapter. The adapter itself (EPUB parsing) is external; the
// engine only ever sees this shape.
type ContentNode struct {
	// LocalID is the adapter-assigned identifier, keyed in the intake
	// receipt's mapping. Required on documents and binders.
	LocalID string `yaml:"local_id"`

	Kind     NodeKind `yaml:"kind"`
	Title    string   `yaml:"title"`
	Metadata Metadata `yaml:"metadata"`
	Content  []byte   `yaml:"content,omitempty"`

	// PriorUUID marks the node as a revision of existing permanent content.
	// The proposed version is the last permanent version with the minor
	// component bumped.
	PriorUUID string `yaml:"prior_uuid,omitempty"`

	Children []*ContentNode `yaml:"children,omitempty"`
}

// CheckShape validates the structural rules of a content tree rooted at n:
// documents are leaves, sub-collections appear only inside binders, and
// binder members are documents or sub-collections. Metadata requirements are
// checked separately against the metadata schema.
func (n *ContentNode) CheckShape() error {
	return n.checkShape(false)
}

func (n *ContentNode) checkShape(inBinder bool) error {
	switch n.Kind {
	case KindDocument:
		if len(n.Children) > 0 {
			return fmt.Errorf("document %q has children", n.Title)
		}
	case KindBinder:
		if inBinder {
			return fmt.Errorf("binder %q nested inside a binder", n.Title)
		}
		if len(n.Children) == 0 {
			return fmt.Errorf("binder %q has no members", n.Title)
		}
		for _, child := range n.Children {
			if err := child.checkShape(true); err != nil {
				return err
			}
		}
	case KindSubCollection:
		if !inBinder {
			return fmt.Errorf("sub-collection %q outside a binder", n.Title)
		}
		if n.Title == "" {
			return fmt.Errorf("sub-collection without a title")
		}
		if len(n.Children) == 0 {
			return fmt.Errorf("sub-collection %q has no members", n.Title)
		}
		for _, child := range n.Children {
			if child.Kind == KindBinder {
				return fmt.Errorf("binder %q nested inside sub-collection %q", child.Title, n.Title)
			}
			if err := child.checkShape(true); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown node kind %q", n.Kind)
	}
	return nil
}

// Units returns, in depth-first submission order, every node that becomes a
// pending document: the node itself if it is a document or binder, plus every
// document nested anywhere inside a binder. Sub-collections are skipped; they
// exist only as tree structure.
func (n *ContentNode) Units() []*ContentNode {
	var units []*ContentNode
	n.collectUnits(&units)
	return units
}

func (n *ContentNode) collectUnits(units *[]*ContentNode) {
	switch n.Kind {
	case KindDocument:
		*units = append(*units, n)
	case KindBinder:
		// Members first, binder last: matches the original archive behavior
		// of publishing documents before the binder that references them.
		for _, child := range n.Children {
			child.collectUnits(units)
		}
		*units = append(*units, n)
	case KindSubCollection:
		for _, child := range n.Children {
			child.collectUnits(units)
		}
	}
}
