package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot is the serialized form of a scenario run used for golden
// comparison. Sequential UUID assignment makes it byte-stable across runs.
type Snapshot struct {
	ScenarioName string            `json:"scenario_name"`
	Pass         bool              `json:"pass"`
	Mapping      map[string]string `json:"mapping"`
	Trace        []TraceEvent      `json:"trace"`
	Errors       []string          `json:"errors,omitempty"`
}

// RunWithGolden executes a scenario and compares the run snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	snapshot := Snapshot{
		ScenarioName: scenario.Name,
		Pass:         result.Pass,
		Mapping:      result.Mapping,
		Trace:        result.Trace,
		Errors:       result.Errors,
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, append(data, '\n'))
	return result, nil
}
