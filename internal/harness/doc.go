// Package harness provides scenario-driven conformance testing for the
// publication lifecycle.
//
// The harness loads a YAML scenario describing a submission, a sequence of
// acceptance steps, and the expected outcome, then executes it against a
// fresh store with deterministic UUID assignment.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	submission:
//	  publisher: bob
//	  message: "publishing on behalf of alice"
//	  trusted: false
//	content:
//	  local_id: doc1
//	  kind: document
//	  title: "Epoch"
//	  metadata:
//	    title: "Epoch"
//	    license: "CC-BY 4.0"
//	    licensors: [alice]
//	    roles:
//	      - {type: Author, user_id: alice}
//	steps:
//	  - do: accept_license
//	    user: alice
//	    expect_state: Processing
//	  - do: accept_roles
//	    user: alice
//	    expect_state: Done/Success
//	expect:
//	  state: Done/Success
//	  modules:
//	    - local_id: doc1
//	      version: "1.1"
//	      title: "Epoch"
//
// # Deterministic Execution
//
// Every run uses a fresh database and a sequential UUID source, so a
// scenario assigns the same content UUIDs on every run. This makes the
// step trace and the final mapping stable enough for golden snapshot
// comparison (see RunWithGolden).
package harness
