package publish

import (
	"context"
	"errors"

	"github.com/roach88/bindery/internal/model"
	"github.com/roach88/bindery/internal/store"
)

// AcceptLicense records userID's license acceptance across the whole
// publication and re-evaluates the state. Recording is idempotent; a repeat
// acceptance changes nothing and still succeeds. The last acceptance to land
// is the one whose evaluation claims the commit.
//
// The returned state reflects the post-evaluation publication. A commit
// failure during evaluation does not fail the acceptance; the state comes
// back as Failure instead.
func (e *Engine) AcceptLicense(ctx context.Context, pubID int64, userID string) (model.State, error) {
	if _, err := e.store.GetPublication(ctx, pubID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", err
		}
		return "", storage("load publication", err)
	}

	n, err := e.store.AcceptLicense(ctx, pubID, userID)
	if err != nil {
		return "", storage("accept license", err)
	}
	e.log.Info("license accepted", "publication", pubID, "user", userID, "records", n)

	state, _, err := e.Evaluate(ctx, pubID)
	return state, err
}

// AcceptRoles records userID's role acceptances across the publication and
// re-evaluates the state. An empty userID accepts every outstanding role
// record of the publication; that form exists for operator tooling only.
func (e *Engine) AcceptRoles(ctx context.Context, pubID int64, userID string) (model.State, error) {
	if _, err := e.store.GetPublication(ctx, pubID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", err
		}
		return "", storage("load publication", err)
	}

	n, err := e.store.AcceptRoles(ctx, pubID, userID)
	if err != nil {
		return "", storage("accept roles", err)
	}
	e.log.Info("roles accepted", "publication", pubID, "user", userID, "records", n)

	state, _, err := e.Evaluate(ctx, pubID)
	return state, err
}
