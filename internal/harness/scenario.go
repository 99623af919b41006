package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/bindery/internal/model"
)

// Scenario defines one publication lifecycle conformance test: a submission,
// the acceptance steps that follow it, and the expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden snapshots are stored
	// under this name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Submission carries the publication-level attributes.
	Submission SubmissionSpec `yaml:"submission"`

	// Content is the submitted content tree.
	Content *model.ContentNode `yaml:"content"`

	// Steps are executed in order after the submission.
	Steps []Step `yaml:"steps,omitempty"`

	// Expect validates the final publication outcome.
	Expect Expectation `yaml:"expect"`
}

// SubmissionSpec mirrors publish.Submission in YAML form.
type SubmissionSpec struct {
	Publisher string `yaml:"publisher"`
	Message   string `yaml:"message,omitempty"`
	Trusted   bool   `yaml:"trusted,omitempty"`
}

// Step actions.
const (
	StepAcceptLicense = "accept_license"
	StepAcceptRoles   = "accept_roles"
	StepPoke          = "poke"
)

// Step is one acceptance or evaluation action against the open publication.
type Step struct {
	// Do names the action: accept_license, accept_roles, or poke.
	Do string `yaml:"do"`

	// User identifies who is accepting. Required for accept_license;
	// optional for accept_roles, where an empty user accepts every
	// outstanding role record.
	User string `yaml:"user,omitempty"`

	// ExpectState, when set, is checked against the state the step reports.
	ExpectState string `yaml:"expect_state,omitempty"`
}

// Expectation validates the final state after all steps have run.
type Expectation struct {
	// State is the required final publication state.
	State string `yaml:"state"`

	// Modules checks that specific units became permanent. Subset match:
	// only listed units are checked.
	Modules []ModuleExpect `yaml:"modules,omitempty"`

	// Trees checks materialized binder trees by depth-first title order.
	Trees []TreeExpect `yaml:"trees,omitempty"`
}

// ModuleExpect checks one permanent module by the submission's local id.
type ModuleExpect struct {
	LocalID string `yaml:"local_id"`
	Version string `yaml:"version"`
	Title   string `yaml:"title,omitempty"`
}

// TreeExpect checks a binder's materialized tree.
type TreeExpect struct {
	LocalID string `yaml:"local_id"`

	// Titles is the expected depth-first pre-order title sequence,
	// binder first.
	Titles []string `yaml:"titles"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so that typos like "step:" vs "steps:" fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks required fields before execution.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Submission.Publisher == "" {
		return fmt.Errorf("submission.publisher is required")
	}
	if s.Content == nil {
		return fmt.Errorf("content is required")
	}
	if s.Expect.State == "" {
		return fmt.Errorf("expect.state is required")
	}

	for i, step := range s.Steps {
		switch step.Do {
		case StepAcceptLicense:
			if step.User == "" {
				return fmt.Errorf("steps[%d]: user is required for accept_license", i)
			}
		case StepAcceptRoles, StepPoke:
		case "":
			return fmt.Errorf("steps[%d]: do is required", i)
		default:
			return fmt.Errorf("steps[%d]: unknown step action %q", i, step.Do)
		}
	}

	for i, m := range s.Expect.Modules {
		if m.LocalID == "" {
			return fmt.Errorf("expect.modules[%d]: local_id is required", i)
		}
		if m.Version == "" {
			return fmt.Errorf("expect.modules[%d]: version is required", i)
		}
	}
	for i, tr := range s.Expect.Trees {
		if tr.LocalID == "" {
			return fmt.Errorf("expect.trees[%d]: local_id is required", i)
		}
		if len(tr.Titles) == 0 {
			return fmt.Errorf("expect.trees[%d]: titles list is required", i)
		}
	}
	return nil
}
