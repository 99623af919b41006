package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/bindery/internal/model"
	"github.com/roach88/bindery/internal/publish"
	"github.com/roach88/bindery/internal/store"
	"github.com/roach88/bindery/internal/testutil"
)

// TraceEvent records one executed action and the state it left behind.
type TraceEvent struct {
	Action string `json:"action"`
	User   string `json:"user,omitempty"`
	State  string `json:"state"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every step and expectation matched.
	Pass bool `json:"pass"`

	// PublicationID is the id assigned at submission.
	PublicationID int64 `json:"publication_id"`

	// Mapping relates the scenario's local ids to assigned ident hashes.
	// Deterministic because every run uses sequential UUIDs.
	Mapping map[string]string `json:"mapping"`

	// Trace lists the executed actions in order, with the post-action state.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation failures. Empty when Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// AddError records a validation failure and marks the result failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Run executes a scenario against a fresh in-memory store.
//
// Execution order: submit the content tree, run each step in sequence
// checking its expect_state, then evaluate the final expectations against
// the store. Infrastructure failures return an error; expectation
// mismatches are collected into the result instead.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("create in-memory store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := publish.New(st, nil, testutil.NewSequentialUUIDSource(), logger)

	ctx := context.Background()
	result := &Result{Pass: true}

	receipt, err := engine.Submit(ctx, scenario.Content, publish.Submission{
		Publisher: scenario.Submission.Publisher,
		Message:   scenario.Submission.Message,
		Trusted:   scenario.Submission.Trusted,
	})
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	result.PublicationID = receipt.PublicationID
	result.Mapping = receipt.Mapping
	result.Trace = append(result.Trace, TraceEvent{Action: "submit", State: string(receipt.State)})

	for i, step := range scenario.Steps {
		state, err := runStep(ctx, engine, receipt.PublicationID, step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Do, err)
		}
		result.Trace = append(result.Trace, TraceEvent{
			Action: step.Do,
			User:   step.User,
			State:  string(state),
		})
		if step.ExpectState != "" && string(state) != step.ExpectState {
			result.AddError("step %d (%s): expected state %q, got %q",
				i, step.Do, step.ExpectState, state)
		}
	}

	evaluateExpectations(ctx, st, scenario, result)
	return result, nil
}

func runStep(ctx context.Context, engine *publish.Engine, pubID int64, step Step) (model.State, error) {
	switch step.Do {
	case StepAcceptLicense:
		return engine.AcceptLicense(ctx, pubID, step.User)
	case StepAcceptRoles:
		return engine.AcceptRoles(ctx, pubID, step.User)
	case StepPoke:
		state, _, err := engine.Evaluate(ctx, pubID)
		return state, err
	default:
		return "", fmt.Errorf("unknown step action %q", step.Do)
	}
}

// evaluateExpectations checks the scenario's final expectations against the
// store, collecting mismatches into the result.
func evaluateExpectations(ctx context.Context, st *store.Store, scenario *Scenario, result *Result) {
	state, err := st.State(ctx, result.PublicationID)
	if err != nil {
		result.AddError("read final state: %v", err)
		return
	}
	if string(state) != scenario.Expect.State {
		result.AddError("final state: expected %q, got %q", scenario.Expect.State, state)
	}

	for _, expect := range scenario.Expect.Modules {
		uuid, version, ok := resolveLocal(result.Mapping, expect.LocalID, result)
		if !ok {
			continue
		}
		if expect.Version != "" && version.String() != expect.Version {
			result.AddError("module %s: expected version %s, got %s",
				expect.LocalID, expect.Version, version)
		}
		mod, err := st.Module(ctx, uuid, version)
		if err != nil {
			result.AddError("module %s: %v", expect.LocalID, err)
			continue
		}
		if expect.Title != "" && mod.Title != expect.Title {
			result.AddError("module %s: expected title %q, got %q",
				expect.LocalID, expect.Title, mod.Title)
		}
	}

	for _, expect := range scenario.Expect.Trees {
		uuid, version, ok := resolveLocal(result.Mapping, expect.LocalID, result)
		if !ok {
			continue
		}
		tree, err := st.Tree(ctx, uuid, version)
		if err != nil {
			result.AddError("tree %s: %v", expect.LocalID, err)
			continue
		}
		titles := tree.Titles()
		if !equalStrings(titles, expect.Titles) {
			result.AddError("tree %s: expected titles %v, got %v",
				expect.LocalID, expect.Titles, titles)
		}
	}
}

func resolveLocal(mapping map[string]string, localID string, result *Result) (string, model.Version, bool) {
	ident, found := mapping[localID]
	if !found {
		result.AddError("local id %q not present in submission mapping", localID)
		return "", model.Version{}, false
	}
	uuid, version, err := model.SplitIdentHash(ident)
	if err != nil {
		result.AddError("local id %q: %v", localID, err)
		return "", model.Version{}, false
	}
	return uuid, version, true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
