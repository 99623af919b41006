package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_TrustedDocument(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/trusted_document.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass)
}

func TestRunWithGolden_UntrustedBinder(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/untrusted_binder.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass)
}
