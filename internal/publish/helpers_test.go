package publish

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/bindery/internal/model"
	"github.com/roach88/bindery/internal/store"
	"github.com/roach88/bindery/internal/testutil"
)

// newTestEngine builds an engine on a fresh temp database with sequential
// UUIDs, so assigned idents are stable across runs.
func newTestEngine(t *testing.T) (*Engine, *store.Store) {
	return newTestEngineWith(t, testutil.NewSequentialUUIDSource())
}

// newTestEngineWith is newTestEngine with a caller-chosen UUID source.
func newTestEngineWith(t *testing.T, uuids UUIDSource) (*Engine, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := New(s, nil, uuids, logger)
	return e, s
}

func authorMeta(title string, licensors []string, authors ...string) model.Metadata {
	roles := make([]model.Role, len(authors))
	for i, a := range authors {
		roles[i] = model.Role{Type: "Author", UserID: a}
	}
	return model.Metadata{
		Title:     title,
		License:   "CC-BY 4.0",
		Licensors: licensors,
		Roles:     roles,
	}
}

func docNode(localID, title string, licensors []string, authors ...string) *model.ContentNode {
	return &model.ContentNode{
		LocalID:  localID,
		Kind:     model.KindDocument,
		Title:    title,
		Metadata: authorMeta(title, licensors, authors...),
		Content:  []byte("<p>" + title + "</p>"),
	}
}

func subcolNode(title string, children ...*model.ContentNode) *model.ContentNode {
	return &model.ContentNode{
		Kind:     model.KindSubCollection,
		Title:    title,
		Children: children,
	}
}

func binderNode(localID, title string, licensors []string, authors []string, children ...*model.ContentNode) *model.ContentNode {
	roles := make([]model.Role, len(authors))
	for i, a := range authors {
		roles[i] = model.Role{Type: "Author", UserID: a}
	}
	return &model.ContentNode{
		LocalID: localID,
		Kind:    model.KindBinder,
		Title:   title,
		Metadata: model.Metadata{
			Title:     title,
			License:   "CC-BY 4.0",
			Licensors: licensors,
			Roles:     roles,
		},
		Children: children,
	}
}

// bookOfInfinity is the canonical nested binder used across tests: two
// sub-collection parts, three documents, everything attributed to alice.
func bookOfInfinity() *model.ContentNode {
	alice := []string{"alice"}
	return binderNode("book", "Book of Infinity", alice, []string{"alice"},
		subcolNode("Part One",
			docNode("doc1", "Document One", alice, "alice"),
			docNode("doc2", "Document Two", alice, "alice"),
		),
		subcolNode("Part Two",
			docNode("doc3", "Document Three", alice, "alice"),
		),
	)
}
