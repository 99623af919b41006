// Package model provides the domain types for the bindery publication
// lifecycle.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import model; model imports nothing internal. This keeps
// it the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Content identity is (UUID, major.minor version); the UUID is stable
//     across revisions of the same logical work
//   - Acceptance flags only transition false->true, never back
//   - Materialized binder trees preserve submission order exactly
//   - All JSON tags use snake_case except the tree shape, which matches the
//     archive's wire format ({id, title, contents})
package model
