package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/roach88/bindery/internal/model"
)

func TestCreatePublication_StartsProcessing(t *testing.T) {
	s := openTestStore(t)
	pubID := createTwoDocPublication(t, s)

	pub, err := s.GetPublication(context.Background(), pubID)
	if err != nil {
		t.Fatalf("GetPublication() failed: %v", err)
	}
	if pub.State != model.StateProcessing {
		t.Errorf("state = %q, want %q", pub.State, model.StateProcessing)
	}
	if pub.Trusted {
		t.Error("publication should not be trusted")
	}
	if pub.Publisher != "pub" {
		t.Errorf("publisher = %q, want %q", pub.Publisher, "pub")
	}
}

func TestCreatePublication_TrustedPreAccepts(t *testing.T) {
	s := openTestStore(t)
	roles := []model.Role{{Type: "Author", UserID: "alice"}}

	pubID, err := s.CreatePublication(context.Background(),
		model.Publication{Publisher: "pub", Message: "trusted", Trusted: true},
		[]PendingInsert{docInsert("uuid-1", "Doc", []string{"alice"}, roles)}, nil)
	if err != nil {
		t.Fatalf("CreatePublication() failed: %v", err)
	}

	outstanding, err := s.CountOutstanding(context.Background(), pubID)
	if err != nil {
		t.Fatalf("CountOutstanding() failed: %v", err)
	}
	if outstanding != 0 {
		t.Errorf("outstanding = %d, want 0 for trusted intake", outstanding)
	}
}

func TestCreatePublication_DuplicatePendingVersion(t *testing.T) {
	s := openTestStore(t)
	createTwoDocPublication(t, s)

	roles := []model.Role{{Type: "Author", UserID: "bob"}}
	_, err := s.CreatePublication(context.Background(),
		model.Publication{Publisher: "other", Message: "collides"},
		[]PendingInsert{docInsert("uuid-boom", "Boom Again", []string{"bob"}, roles)}, nil)
	if !errors.Is(err, ErrVersionExists) {
		t.Fatalf("err = %v, want ErrVersionExists", err)
	}

	// The failed intake must not leave a publication row behind.
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM publications").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("publications = %d, want 1 (failed intake rolled back)", count)
	}
}

func TestCreatePublication_DuplicatePermanentVersion(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	mod := model.Module{
		UUID:    "uuid-live",
		Version: model.FirstVersion(),
		Type:    model.PortalDocument,
		Title:   "Live",
		Metadata: model.Metadata{
			Title: "Live",
			Roles: []model.Role{{Type: "Author", UserID: "alice"}},
		},
	}
	pubID, err := s.CreatePublication(ctx,
		model.Publication{Publisher: "pub", Message: "first", Trusted: true},
		[]PendingInsert{docInsert("uuid-live", "Live", nil, mod.Metadata.Roles)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Promote(ctx, pubID, []Promotion{{Module: mod}}); err != nil {
		t.Fatalf("Promote() failed: %v", err)
	}

	_, err = s.CreatePublication(ctx,
		model.Publication{Publisher: "pub", Message: "second"},
		[]PendingInsert{docInsert("uuid-live", "Live", nil, mod.Metadata.Roles)}, nil)
	if !errors.Is(err, ErrVersionExists) {
		t.Fatalf("err = %v, want ErrVersionExists", err)
	}
}

func TestGetPublication_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetPublication(context.Background(), 12345)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestClaimCommit_OutstandingRecordsStayProcessing(t *testing.T) {
	s := openTestStore(t)
	pubID := createTwoDocPublication(t, s)

	state, claimed, err := s.ClaimCommit(context.Background(), pubID)
	if err != nil {
		t.Fatalf("ClaimCommit() failed: %v", err)
	}
	if claimed {
		t.Error("claimed = true with outstanding records")
	}
	if state != model.StateProcessing {
		t.Errorf("state = %q, want %q", state, model.StateProcessing)
	}
}

func TestClaimCommit_SingleWinner(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	pubID := createTwoDocPublication(t, s)

	if _, err := s.AcceptLicense(ctx, pubID, "alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AcceptRoles(ctx, pubID, "alice"); err != nil {
		t.Fatal(err)
	}

	first, claimed, err := s.ClaimCommit(ctx, pubID)
	if err != nil {
		t.Fatalf("first ClaimCommit() failed: %v", err)
	}
	if !claimed || first != model.StatePublishing {
		t.Fatalf("first claim: state=%q claimed=%v, want Publishing/true", first, claimed)
	}

	second, claimed, err := s.ClaimCommit(ctx, pubID)
	if err != nil {
		t.Fatalf("second ClaimCommit() failed: %v", err)
	}
	if claimed {
		t.Error("second claim succeeded; claim must be exclusive")
	}
	if second != model.StatePublishing {
		t.Errorf("second claim observed %q, want %q", second, model.StatePublishing)
	}
}

func TestClaimCommit_ConcurrentCallersOneWinner(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	pubID := createTwoDocPublication(t, s)

	if _, err := s.AcceptLicense(ctx, pubID, "alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AcceptRoles(ctx, pubID, ""); err != nil {
		t.Fatal(err)
	}

	const callers = 16
	var wg sync.WaitGroup
	wins := make(chan struct{}, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, claimed, err := s.ClaimCommit(ctx, pubID)
			if err != nil {
				t.Errorf("ClaimCommit() failed: %v", err)
				return
			}
			if claimed {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for range wins {
		winners++
	}
	if winners != 1 {
		t.Errorf("winners = %d, want exactly 1", winners)
	}
}

func TestClaimCommit_TerminalStatesAreNoOps(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	pubID := createTwoDocPublication(t, s)

	if err := s.SetFailure(ctx, pubID, "boom"); err != nil {
		t.Fatal(err)
	}

	state, claimed, err := s.ClaimCommit(ctx, pubID)
	if err != nil {
		t.Fatalf("ClaimCommit() failed: %v", err)
	}
	if claimed || state != model.StateFailure {
		t.Errorf("state=%q claimed=%v, want Failure/false", state, claimed)
	}
}

func TestSetFailure_RecordsError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	pubID := createTwoDocPublication(t, s)

	if err := s.SetFailure(ctx, pubID, "commit exploded"); err != nil {
		t.Fatalf("SetFailure() failed: %v", err)
	}

	pub, err := s.GetPublication(ctx, pubID)
	if err != nil {
		t.Fatal(err)
	}
	if pub.State != model.StateFailure {
		t.Errorf("state = %q, want %q", pub.State, model.StateFailure)
	}
	if pub.Error != "commit exploded" {
		t.Errorf("error = %q, want recorded message", pub.Error)
	}

	// Pending rows stay for operator inspection.
	docs, err := s.PendingDocuments(ctx, pubID)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Errorf("pending documents = %d, want 2", len(docs))
	}
}
