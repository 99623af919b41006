// Package metaschema validates content-unit metadata against the archive's
// metadata schema.
//
// The schema is authored in CUE (schema.cue, embedded) and evaluated with the
// CUE SDK's Go API directly, not via a CLI subprocess. Intake rejects any
// unit whose metadata does not unify with the schema: a title is required,
// and at least one role holder must be named. The licensor list is optional
// per schema but its entries must be non-empty when present.
package metaschema
