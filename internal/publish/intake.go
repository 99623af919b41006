package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/bindery/internal/model"
	"github.com/roach88/bindery/internal/store"
)

// Submission carries the publication-level attributes resolved by the front
// end: who is publishing, their message, and whether their credential is
// pre-trusted to skip acceptance gating.
type Submission struct {
	Publisher string
	Message   string
	Trusted   bool
}

// Receipt is the result of a successful intake.
type Receipt struct {
	PublicationID int64

	// State is the publication state after the post-intake evaluation.
	// Trusted submissions typically arrive here already Done/Success.
	State model.State

	// Mapping relates the adapter's local node ids to the proposed
	// "uuid@major.minor" ident hashes.
	Mapping map[string]string
}

// Submit creates a publication from a parsed content tree: one pending row
// per document and binder, one acceptance row per required licensor and role
// holder, and flat position descriptors for binder trees. The whole intake
// is one transaction; afterwards the evaluator runs once, so a trusted
// submission drives straight through commit before Submit returns.
//
// Fails with MalformedContent for an empty or ill-formed tree or metadata
// that does not conform to the schema, and with DuplicateSubmission when a
// proposed (uuid, version) is already taken.
func (e *Engine) Submit(ctx context.Context, tree *model.ContentNode, sub Submission) (*Receipt, error) {
	if tree == nil {
		return nil, malformed("empty content tree")
	}
	if err := tree.CheckShape(); err != nil {
		return nil, malformed("invalid content tree: %v", err)
	}

	units := tree.Units()
	if len(units) == 0 {
		return nil, malformed("content tree has no publishable units")
	}

	type unitID struct {
		uuid    string
		version model.Version
	}
	ids := make(map[*model.ContentNode]unitID, len(units))
	proposed := make(map[string]struct{}, len(units))

	inserts := make([]store.PendingInsert, 0, len(units))
	for _, unit := range units {
		if err := e.meta.Validate(unit.Metadata); err != nil {
			return nil, malformed("unit %q: %v", unit.Title, err)
		}

		var id unitID
		if unit.PriorUUID != "" {
			latest, ok, err := e.store.LatestVersion(ctx, unit.PriorUUID)
			if err != nil {
				return nil, storage("look up prior version", err)
			}
			if !ok {
				return nil, malformed("unit %q: revision of unknown content %s", unit.Title, unit.PriorUUID)
			}
			id = unitID{uuid: unit.PriorUUID, version: latest.Next()}
		} else {
			id = unitID{uuid: e.uuids.NewUUID(), version: model.FirstVersion()}
		}
		ids[unit] = id

		// Two nodes proposing the same (uuid, version), e.g. two revisions
		// of the same prior content, collide with each other rather than
		// with existing rows, so the store's version check cannot see it.
		ident := model.JoinIdentHash(id.uuid, id.version)
		if _, dup := proposed[ident]; dup {
			return nil, &PublishError{
				Code:    ErrCodeDuplicate,
				Message: "submission proposes the same content version twice",
				Ident:   ident,
			}
		}
		proposed[ident] = struct{}{}

		portal := model.PortalDocument
		if unit.Kind == model.KindBinder {
			portal = model.PortalBinder
		}
		inserts = append(inserts, store.PendingInsert{
			Doc: model.PendingDocument{
				UUID:     id.uuid,
				Version:  id.version,
				Type:     portal,
				Title:    unit.Title,
				Metadata: unit.Metadata,
				Content:  unit.Content,
			},
			Licensors: unit.Metadata.Licensors,
			Roles:     unit.Metadata.Roles,
		})
	}

	var binders []store.BinderInsert
	for _, unit := range units {
		if unit.Kind != model.KindBinder {
			continue
		}
		members, err := memberInserts(unit, func(n *model.ContentNode) string {
			return ids[n].uuid
		})
		if err != nil {
			return nil, malformed("binder %q: %v", unit.Title, err)
		}
		binders = append(binders, store.BinderInsert{
			BinderUUID: ids[unit].uuid,
			Members:    members,
		})
	}

	pubID, err := e.store.CreatePublication(ctx, model.Publication{
		Publisher: sub.Publisher,
		Message:   sub.Message,
		Trusted:   sub.Trusted,
	}, inserts, binders)
	if err != nil {
		if errors.Is(err, store.ErrVersionExists) {
			ident := ""
			if len(units) == 1 {
				id := ids[units[0]]
				ident = model.JoinIdentHash(id.uuid, id.version)
			}
			return nil, duplicate(ident, err)
		}
		return nil, storage("create publication", err)
	}

	mapping := make(map[string]string, len(units))
	for _, unit := range units {
		if unit.LocalID == "" {
			continue
		}
		id := ids[unit]
		mapping[unit.LocalID] = model.JoinIdentHash(id.uuid, id.version)
	}

	e.log.Info("publication submitted",
		"publication", pubID,
		"publisher", sub.Publisher,
		"trusted", sub.Trusted,
		"units", len(units))

	// Poke once; a trusted submission has nothing outstanding and commits
	// right here.
	state, _, err := e.Evaluate(ctx, pubID)
	if err != nil {
		return nil, err
	}

	return &Receipt{PublicationID: pubID, State: state, Mapping: mapping}, nil
}

// memberInserts flattens a binder's children into pre-order position
// descriptors. Parents always precede their children; sibling positions
// count from zero in submission order.
func memberInserts(binder *model.ContentNode, uuidOf func(*model.ContentNode) string) ([]store.MemberInsert, error) {
	var out []store.MemberInsert
	var walk func(children []*model.ContentNode, parent int) error
	walk = func(children []*model.ContentNode, parent int) error {
		for pos, child := range children {
			switch child.Kind {
			case model.KindDocument:
				docUUID := uuidOf(child)
				if docUUID == "" {
					return fmt.Errorf("member %q has no assigned uuid", child.Title)
				}
				out = append(out, store.MemberInsert{
					Parent:   parent,
					Position: pos,
					Kind:     model.MemberDocument,
					Title:    child.Title,
					DocUUID:  docUUID,
				})
			case model.KindSubCollection:
				idx := len(out)
				out = append(out, store.MemberInsert{
					Parent:   parent,
					Position: pos,
					Kind:     model.MemberSubCollection,
					Title:    child.Title,
				})
				if err := walk(child.Children, idx); err != nil {
					return err
				}
			default:
				return fmt.Errorf("member %q has kind %q", child.Title, child.Kind)
			}
		}
		return nil
	}
	if err := walk(binder.Children, -1); err != nil {
		return nil, err
	}
	return out, nil
}
