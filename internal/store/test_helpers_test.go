package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/bindery/internal/model"
)

// openTestStore creates a store backed by a fresh temp database.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// docInsert builds a minimal document PendingInsert.
func docInsert(uuid, title string, licensors []string, roles []model.Role) PendingInsert {
	return PendingInsert{
		Doc: model.PendingDocument{
			UUID:    uuid,
			Version: model.FirstVersion(),
			Type:    model.PortalDocument,
			Title:   title,
			Metadata: model.Metadata{
				Title:     title,
				License:   "CC-BY 4.0",
				Licensors: licensors,
				Roles:     roles,
			},
			Content: []byte("<p>" + title + "</p>"),
		},
		Licensors: licensors,
		Roles:     roles,
	}
}

// createTwoDocPublication inserts an untrusted publication with two pending
// documents, each requiring one license and one role acceptance from "alice".
func createTwoDocPublication(t *testing.T, s *Store) int64 {
	t.Helper()
	roles := []model.Role{{Type: "Author", UserID: "alice"}}
	pubID, err := s.CreatePublication(context.Background(),
		model.Publication{Publisher: "pub", Message: "two docs"},
		[]PendingInsert{
			docInsert("uuid-boom", "Boom", []string{"alice"}, roles),
			docInsert("uuid-figgy", "Figgy Pudd'n", []string{"alice"}, roles),
		}, nil)
	if err != nil {
		t.Fatalf("CreatePublication() failed: %v", err)
	}
	return pubID
}
