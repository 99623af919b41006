package store

import (
	"context"
	"fmt"

	"github.com/roach88/bindery/internal/model"
)

// PendingDocuments returns the publication's pending rows in insertion
// order, which is the depth-first submission order intake recorded.
func (s *Store) PendingDocuments(ctx context.Context, pubID int64) ([]model.PendingDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, uuid, major_version, minor_version, type, title, metadata, content
		FROM pending_documents
		WHERE publication_id = ?
		ORDER BY id ASC
	`, pubID)
	if err != nil {
		return nil, fmt.Errorf("pending documents: %w", err)
	}
	defer rows.Close()

	var docs []model.PendingDocument
	for rows.Next() {
		doc := model.PendingDocument{PublicationID: pubID}
		var typ, metadata string
		if err := rows.Scan(&doc.ID, &doc.UUID, &doc.Version.Major, &doc.Version.Minor,
			&typ, &doc.Title, &metadata, &doc.Content); err != nil {
			return nil, fmt.Errorf("pending documents: scan: %w", err)
		}
		doc.Type = model.PortalType(typ)
		if doc.Metadata, err = unmarshalMetadata(metadata); err != nil {
			return nil, fmt.Errorf("pending documents: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pending documents: %w", err)
	}
	return docs, nil
}

// BinderMembers returns the flat position descriptors for one binder, in
// insertion order. Parents always precede children, so a single pass can
// rebuild the tree.
func (s *Store) BinderMembers(ctx context.Context, pubID int64, binderUUID string) ([]model.BinderMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, parent_id, position, kind, title, doc_uuid
		FROM binder_members
		WHERE publication_id = ? AND binder_uuid = ?
		ORDER BY id ASC
	`, pubID, binderUUID)
	if err != nil {
		return nil, fmt.Errorf("binder members: %w", err)
	}
	defer rows.Close()

	var members []model.BinderMember
	for rows.Next() {
		m := model.BinderMember{PublicationID: pubID, BinderUUID: binderUUID}
		var kind string
		if err := rows.Scan(&m.ID, &m.ParentID, &m.Position, &kind, &m.Title, &m.DocUUID); err != nil {
			return nil, fmt.Errorf("binder members: scan: %w", err)
		}
		m.Kind = model.MemberKind(kind)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("binder members: %w", err)
	}
	return members, nil
}
