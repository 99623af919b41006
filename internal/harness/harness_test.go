package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bindery/internal/model"
)

func documentScenario(state string) *Scenario {
	return &Scenario{
		Name:        "inline_document",
		Description: "single untrusted document",
		Submission:  SubmissionSpec{Publisher: "bob"},
		Content: &model.ContentNode{
			LocalID:  "doc1",
			Kind:     model.KindDocument,
			Title:    "Epoch",
			Metadata: model.Metadata{Title: "Epoch", License: "CC-BY 4.0", Licensors: []string{"alice"}, Roles: []model.Role{{Type: "Author", UserID: "alice"}}},
		},
		Steps: []Step{
			{Do: StepAcceptLicense, User: "alice", ExpectState: "Processing"},
			{Do: StepAcceptRoles, User: "alice", ExpectState: "Done/Success"},
		},
		Expect: Expectation{State: state},
	}
}

func TestRun_DocumentLifecyclePasses(t *testing.T) {
	result, err := Run(documentScenario("Done/Success"))
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	assert.Equal(t, map[string]string{
		"doc1": "00000000-0000-4000-8000-000000000001@1.1",
	}, result.Mapping)
	assert.Equal(t, []TraceEvent{
		{Action: "submit", State: "Processing"},
		{Action: "accept_license", User: "alice", State: "Processing"},
		{Action: "accept_roles", User: "alice", State: "Done/Success"},
	}, result.Trace)
}

func TestRun_ExpectationMismatchFailsResult(t *testing.T) {
	result, err := Run(documentScenario("Processing"))
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "final state")
}

func TestRun_StepStateMismatchCollected(t *testing.T) {
	scenario := documentScenario("Done/Success")
	scenario.Steps[0].ExpectState = "Done/Success" // license alone cannot commit

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
}

func TestRun_ScenarioFilesPass(t *testing.T) {
	for _, path := range []string{
		"testdata/scenarios/trusted_document.yaml",
		"testdata/scenarios/untrusted_binder.yaml",
	} {
		scenario, err := LoadScenario(path)
		require.NoError(t, err, path)

		result, err := Run(scenario)
		require.NoError(t, err, path)
		assert.True(t, result.Pass, "%s: %v", path, result.Errors)
	}
}
