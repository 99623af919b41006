package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/bindery/internal/model"
	"github.com/roach88/bindery/internal/store"
)

// commit promotes every pending unit of a claimed publication to permanent
// storage. The caller must hold the Publishing claim. Binder trees are
// materialized from the flat member rows recorded at intake.
func (e *Engine) commit(ctx context.Context, pubID int64) ([]model.PublishedRef, error) {
	docs, err := e.store.PendingDocuments(ctx, pubID)
	if err != nil {
		return nil, storage("load pending documents", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("publication %d has no pending documents", pubID)
	}

	promotions := make([]store.Promotion, 0, len(docs))
	refs := make([]model.PublishedRef, 0, len(docs))
	for _, doc := range docs {
		p := store.Promotion{Module: model.Module{
			UUID:     doc.UUID,
			Version:  doc.Version,
			Type:     doc.Type,
			Title:    doc.Title,
			Metadata: doc.Metadata,
			Content:  doc.Content,
		}}
		if doc.Type == model.PortalBinder {
			members, err := e.store.BinderMembers(ctx, pubID, doc.UUID)
			if err != nil {
				return nil, storage("load binder members", err)
			}
			tree, err := buildTree(doc, members)
			if err != nil {
				return nil, err
			}
			p.Tree = tree
		}
		promotions = append(promotions, p)
		refs = append(refs, model.PublishedRef{UUID: doc.UUID, Version: doc.Version, Tree: p.Tree})
	}

	if err := e.store.Promote(ctx, pubID, promotions); err != nil {
		if errors.Is(err, store.ErrVersionExists) {
			return nil, &PublishError{
				Code:          ErrCodeConflict,
				Message:       "permanent version appeared between claim and promotion",
				PublicationID: pubID,
				Err:           err,
			}
		}
		return nil, storage("promote", err)
	}
	return refs, nil
}

// buildTree materializes a binder tree from its flat member rows. Rows are
// in insertion order, so every parent row has been seen before its children
// and a single pass suffices. Sibling order is the row order.
func buildTree(binder model.PendingDocument, members []model.BinderMember) (*model.Tree, error) {
	root := &model.Tree{ID: binder.UUID, Title: binder.Title}
	byRow := make(map[int64]*model.Tree, len(members))
	for _, m := range members {
		node := &model.Tree{Title: m.Title}
		switch m.Kind {
		case model.MemberDocument:
			node.ID = m.DocUUID
		case model.MemberSubCollection:
			node.ID = model.SubCollectionID
		default:
			return nil, fmt.Errorf("binder %s: member %d has kind %q", binder.UUID, m.ID, m.Kind)
		}
		parent := root
		if m.ParentID != 0 {
			parent = byRow[m.ParentID]
			if parent == nil {
				return nil, fmt.Errorf("binder %s: member %d references unknown parent %d", binder.UUID, m.ID, m.ParentID)
			}
		}
		parent.Contents = append(parent.Contents, node)
		byRow[m.ID] = node
	}
	return root, nil
}
