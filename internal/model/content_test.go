package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(localID, title string) *ContentNode {
	return &ContentNode{
		LocalID: localID,
		Kind:    KindDocument,
		Title:   title,
		Metadata: Metadata{
			Title: title,
			Roles: []Role{{Type: "Author", UserID: "u1"}},
		},
	}
}

func TestCheckShape_DocumentWithChildren(t *testing.T) {
	n := doc("d1", "Doc")
	n.Children = []*ContentNode{doc("d2", "Child")}
	assert.Error(t, n.CheckShape())
}

func TestCheckShape_SubCollectionOutsideBinder(t *testing.T) {
	n := &ContentNode{
		Kind:     KindSubCollection,
		Title:    "Part",
		Children: []*ContentNode{doc("d1", "Doc")},
	}
	assert.Error(t, n.CheckShape())
}

func TestCheckShape_EmptyBinder(t *testing.T) {
	n := &ContentNode{LocalID: "b1", Kind: KindBinder, Title: "Book"}
	assert.Error(t, n.CheckShape())
}

func TestCheckShape_NestedBinder(t *testing.T) {
	inner := &ContentNode{
		LocalID:  "b2",
		Kind:     KindBinder,
		Title:    "Inner",
		Children: []*ContentNode{doc("d1", "Doc")},
	}
	outer := &ContentNode{
		LocalID:  "b1",
		Kind:     KindBinder,
		Title:    "Outer",
		Children: []*ContentNode{inner},
	}
	assert.Error(t, outer.CheckShape())
}

func TestUnits_BinderMembersBeforeBinder(t *testing.T) {
	binder := &ContentNode{
		LocalID: "b1",
		Kind:    KindBinder,
		Title:   "Book",
		Children: []*ContentNode{
			{
				Kind:  KindSubCollection,
				Title: "Part One",
				Children: []*ContentNode{
					doc("d1", "Chapter One"),
				},
			},
			doc("d2", "Appendix"),
		},
	}
	require.NoError(t, binder.CheckShape())

	units := binder.Units()
	require.Len(t, units, 3)
	assert.Equal(t, "Chapter One", units[0].Title)
	assert.Equal(t, "Appendix", units[1].Title)
	assert.Equal(t, "Book", units[2].Title)
}

func TestUnits_PlainDocument(t *testing.T) {
	n := doc("d1", "Doc")
	units := n.Units()
	require.Len(t, units, 1)
	assert.Same(t, n, units[0])
}
