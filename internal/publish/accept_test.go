package publish

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bindery/internal/model"
	"github.com/roach88/bindery/internal/store"
)

func TestAcceptLicense_AloneLeavesRolesOutstanding(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	receipt, err := e.Submit(ctx, docNode("d1", "Epoch", []string{"alice"}, "alice"),
		Submission{Publisher: "bob"})
	require.NoError(t, err)

	state, err := e.AcceptLicense(ctx, receipt.PublicationID, "alice")
	require.NoError(t, err)
	assert.Equal(t, model.StateProcessing, state)
}

func TestAccept_LastAcceptanceCommits(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	receipt, err := e.Submit(ctx, docNode("d1", "Epoch", []string{"alice"}, "alice"),
		Submission{Publisher: "bob"})
	require.NoError(t, err)

	state, err := e.AcceptLicense(ctx, receipt.PublicationID, "alice")
	require.NoError(t, err)
	require.Equal(t, model.StateProcessing, state)

	state, err = e.AcceptRoles(ctx, receipt.PublicationID, "alice")
	require.NoError(t, err)
	assert.Equal(t, model.StateSuccess, state)

	_, err = s.Module(ctx, "00000000-0000-4000-8000-000000000001", model.FirstVersion())
	assert.NoError(t, err)
}

func TestAccept_RepeatAcceptanceIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	receipt, err := e.Submit(ctx, docNode("d1", "Epoch", []string{"alice"}, "alice"),
		Submission{Publisher: "bob"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		state, err := e.AcceptLicense(ctx, receipt.PublicationID, "alice")
		require.NoError(t, err)
		assert.Equal(t, model.StateProcessing, state)
	}

	state, err := e.AcceptRoles(ctx, receipt.PublicationID, "alice")
	require.NoError(t, err)
	require.Equal(t, model.StateSuccess, state)

	// Poking a committed publication is a no-op that reports the state.
	state, err = e.AcceptRoles(ctx, receipt.PublicationID, "alice")
	require.NoError(t, err)
	assert.Equal(t, model.StateSuccess, state)
}

func TestAccept_MultipleSigners(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	doc := docNode("d1", "Duet", []string{"alice", "bob"}, "alice", "bob")
	receipt, err := e.Submit(ctx, doc, Submission{Publisher: "carol"})
	require.NoError(t, err)

	_, err = e.AcceptLicense(ctx, receipt.PublicationID, "alice")
	require.NoError(t, err)
	state, err := e.AcceptRoles(ctx, receipt.PublicationID, "alice")
	require.NoError(t, err)
	assert.Equal(t, model.StateProcessing, state)

	_, err = e.AcceptLicense(ctx, receipt.PublicationID, "bob")
	require.NoError(t, err)
	state, err = e.AcceptRoles(ctx, receipt.PublicationID, "bob")
	require.NoError(t, err)
	assert.Equal(t, model.StateSuccess, state)
}

func TestAcceptRoles_EmptyUserAcceptsAll(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	doc := docNode("d1", "Duet", []string{"alice"}, "alice", "bob")
	receipt, err := e.Submit(ctx, doc, Submission{Publisher: "carol"})
	require.NoError(t, err)

	_, err = e.AcceptLicense(ctx, receipt.PublicationID, "alice")
	require.NoError(t, err)

	state, err := e.AcceptRoles(ctx, receipt.PublicationID, "")
	require.NoError(t, err)
	assert.Equal(t, model.StateSuccess, state)
}

func TestAccept_UnknownPublication(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.AcceptLicense(context.Background(), 9999, "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
