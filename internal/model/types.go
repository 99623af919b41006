package model

import "time"

// State is the overall lifecycle state of a publication.
type State string

const (
	// StateProcessing is the initial state: acceptance records are still
	// outstanding.
	StateProcessing State = "Processing"

	// StatePublishing is the intermediate commit-claim marker. Exactly one
	// evaluator call can move a publication from Processing to Publishing;
	// that caller owns the commit.
	StatePublishing State = "Publishing"

	// StateSuccess is the terminal success state: every pending unit has been
	// promoted to a permanent module.
	StateSuccess State = "Done/Success"

	// StateFailure is the terminal failure state: a claimed commit attempt
	// failed. Pending rows are kept for operator inspection.
	StateFailure State = "Failure"
)

// Terminal reports whether the state admits no further transitions.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailure
}

// PortalType distinguishes leaf documents from binders.
type PortalType string

const (
	PortalDocument PortalType = "Document"
	PortalBinder   PortalType = "Binder"
)

// Publication is one submission event tracked through the acceptance and
// commit lifecycle.
type Publication struct {
	ID        int64
	Publisher string
	Message   string
	State     State
	Trusted   bool // trust flag captured at submission time
	Error     string
	CreatedAt time.Time
}

// Role names one required role holder on a content unit.
type Role struct {
	Type   string `json:"type" yaml:"type"` // "Author", "Editor", "Translator", ...
	UserID string `json:"user_id" yaml:"user_id"`
}

// Metadata is the serialized metadata carried by every content unit. The
// licensor and role lists are the requirement lists from which acceptance
// records are created at intake; they are fixed from then on.
type Metadata struct {
	Title     string   `json:"title" yaml:"title"`
	License   string   `json:"license,omitempty" yaml:"license,omitempty"` // license reference, e.g. "CC-BY 4.0"
	Licensors []string `json:"licensors,omitempty" yaml:"licensors,omitempty"`
	Roles     []Role   `json:"roles" yaml:"roles"`
}

// PendingDocument is one content unit (document or binder) inside a
// publication that is not yet permanent.
type PendingDocument struct {
	ID            int64
	PublicationID int64
	UUID          string
	Version       Version
	Type          PortalType
	Title         string
	Metadata      Metadata
	Content       []byte
}

// AcceptanceKind discriminates the two acceptance ledgers.
type AcceptanceKind string

const (
	AcceptanceLicense AcceptanceKind = "license"
	AcceptanceRole    AcceptanceKind = "role"
)

// Acceptance is one required sign-off on a pending document. Role is empty
// for license-kind records.
type Acceptance struct {
	PendingID int64
	UserID    string
	Role      string
	Accepted  bool
}

// MemberKind distinguishes binder member rows.
type MemberKind string

const (
	MemberDocument      MemberKind = "doc"
	MemberSubCollection MemberKind = "subcol"
)

// BinderMember is one flat position descriptor recorded at intake for a
// binder's tree. ParentID refers to another member row; zero means the member
// hangs directly off the binder root. Position orders siblings and matches
// submission order exactly.
type BinderMember struct {
	ID            int64
	PublicationID int64
	BinderUUID    string
	ParentID      int64
	Position      int
	Kind          MemberKind
	Title         string
	DocUUID       string // empty for sub-collections
}

// Module is a committed, permanent content unit.
type Module struct {
	UUID     string
	Version  Version
	Type     PortalType
	Title    string
	Metadata Metadata
	Content  []byte
}

// PublishedRef identifies one newly permanent unit returned by a commit.
// Tree is non-nil for binders only.
type PublishedRef struct {
	UUID    string
	Version Version
	Tree    *Tree
}
