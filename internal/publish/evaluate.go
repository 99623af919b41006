package publish

import (
	"context"
	"errors"

	"github.com/roach88/bindery/internal/model"
	"github.com/roach88/bindery/internal/store"
)

// Evaluate pokes the publication's state machine: it checks whether every
// acceptance record is in, and if so claims and runs the commit. Safe to
// call any number of times from any number of goroutines; the store's claim
// guarantees at most one caller ever commits a given publication.
//
// Returns the resulting state. The published refs are non-nil only for the
// caller that actually performed the commit; everyone else gets the state
// with nil refs, including callers that observe an already terminal state.
//
// A failed commit does not fail Evaluate. The publication is moved to the
// terminal Failure state with the error recorded, and (StateFailure, nil,
// nil) is returned, so acceptance flows that merely poke the state are not
// broken by a commit problem they did not cause. The exception is a missing
// publication, which is always an error.
func (e *Engine) Evaluate(ctx context.Context, pubID int64) (model.State, []model.PublishedRef, error) {
	state, claimed, err := e.store.ClaimCommit(ctx, pubID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, err
		}
		return "", nil, storage("claim commit", err)
	}
	if !claimed {
		return state, nil, nil
	}

	refs, err := e.commit(ctx, pubID)
	if err != nil {
		e.log.Error("commit failed", "publication", pubID, "error", err)
		if ferr := e.store.SetFailure(ctx, pubID, err.Error()); ferr != nil {
			return "", nil, storage("record failure", ferr)
		}
		return model.StateFailure, nil, nil
	}

	e.log.Info("publication committed", "publication", pubID, "units", len(refs))
	return model.StateSuccess, refs, nil
}

// State reports the publication's current lifecycle state.
func (e *Engine) State(ctx context.Context, pubID int64) (model.State, error) {
	state, err := e.store.State(ctx, pubID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", err
		}
		return "", storage("read state", err)
	}
	return state, nil
}
