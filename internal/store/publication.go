package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/bindery/internal/model"
)

// PendingInsert describes one content unit to be written at intake. Doc.ID
// and Doc.PublicationID are assigned by the store. Licensors and Roles are
// the requirement lists from which acceptance rows are created; they are
// fixed for the lifetime of the pending document.
type PendingInsert struct {
	Doc       model.PendingDocument
	Licensors []string
	Roles     []model.Role
}

// MemberInsert is one flat tree position for a binder member. Parent indexes
// into the same BinderInsert's Members slice; -1 means the member hangs
// directly off the binder root. Parents must precede their children.
type MemberInsert struct {
	Parent   int
	Position int
	Kind     model.MemberKind
	Title    string
	DocUUID  string
}

// BinderInsert carries the flat position descriptors for one binder.
type BinderInsert struct {
	BinderUUID string
	Members    []MemberInsert
}

// CreatePublication writes the publication row, its pending documents,
// acceptance ledgers, and binder members in one transaction.
//
// Every unit's (uuid, major, minor) triple is checked against pending rows
// of other publications and against permanent modules inside the same
// transaction; a collision aborts the whole intake with ErrVersionExists.
//
// When pub.Trusted is set, all acceptance rows are created already accepted.
func (s *Store) CreatePublication(ctx context.Context, pub model.Publication, units []PendingInsert, binders []BinderInsert) (int64, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("create publication: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, u := range units {
		taken, err := versionTaken(ctx, tx, u.Doc.UUID, u.Doc.Version)
		if err != nil {
			return 0, fmt.Errorf("create publication: %w", err)
		}
		if taken {
			return 0, fmt.Errorf("create publication: %s: %w",
				model.JoinIdentHash(u.Doc.UUID, u.Doc.Version), ErrVersionExists)
		}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO publications (publisher, message, state, is_trusted, error, created_at)
		VALUES (?, ?, ?, ?, '', ?)
	`, pub.Publisher, pub.Message, string(model.StateProcessing), pub.Trusted, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("create publication: insert publication: %w", err)
	}
	pubID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create publication: last insert id: %w", err)
	}

	accepted := 0
	if pub.Trusted {
		accepted = 1
	}

	for _, u := range units {
		metadata, err := marshalMetadata(u.Doc.Metadata)
		if err != nil {
			return 0, fmt.Errorf("create publication: %w", err)
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO pending_documents
			(publication_id, uuid, major_version, minor_version, type, title, metadata, content)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, pubID, u.Doc.UUID, u.Doc.Version.Major, u.Doc.Version.Minor,
			string(u.Doc.Type), u.Doc.Title, metadata, u.Doc.Content)
		if err != nil {
			return 0, fmt.Errorf("create publication: insert pending document: %w", err)
		}
		pendingID, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("create publication: pending id: %w", err)
		}

		for _, licensor := range u.Licensors {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO license_acceptances (pending_id, user_id, accepted)
				VALUES (?, ?, ?)
				ON CONFLICT(pending_id, user_id) DO NOTHING
			`, pendingID, licensor, accepted); err != nil {
				return 0, fmt.Errorf("create publication: insert license acceptance: %w", err)
			}
		}
		for _, role := range u.Roles {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO role_acceptances (pending_id, user_id, role, accepted)
				VALUES (?, ?, ?, ?)
				ON CONFLICT(pending_id, user_id, role) DO NOTHING
			`, pendingID, role.UserID, role.Type, accepted); err != nil {
				return 0, fmt.Errorf("create publication: insert role acceptance: %w", err)
			}
		}
	}

	for _, b := range binders {
		// Maps member slice index to its inserted row id, for parent linkage.
		rowIDs := make([]int64, len(b.Members))
		for i, m := range b.Members {
			var parentID int64
			if m.Parent >= 0 {
				if m.Parent >= i {
					return 0, fmt.Errorf("create publication: binder %s: member %d references later parent %d", b.BinderUUID, i, m.Parent)
				}
				parentID = rowIDs[m.Parent]
			}
			res, err := tx.ExecContext(ctx, `
				INSERT INTO binder_members
				(publication_id, binder_uuid, parent_id, position, kind, title, doc_uuid)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, pubID, b.BinderUUID, parentID, m.Position, string(m.Kind), m.Title, m.DocUUID)
			if err != nil {
				return 0, fmt.Errorf("create publication: insert binder member: %w", err)
			}
			rowIDs[i], err = res.LastInsertId()
			if err != nil {
				return 0, fmt.Errorf("create publication: member id: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("create publication: commit: %w", err)
	}
	return pubID, nil
}

// versionTaken reports whether (uuid, version) exists as a pending document
// or a permanent module.
func versionTaken(ctx context.Context, tx *sql.Tx, uuid string, v model.Version) (bool, error) {
	var taken bool
	err := tx.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM pending_documents WHERE uuid = ? AND major_version = ? AND minor_version = ?
		) OR EXISTS(
			SELECT 1 FROM modules WHERE uuid = ? AND major_version = ? AND minor_version = ?
		)
	`, uuid, v.Major, v.Minor, uuid, v.Major, v.Minor).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("version check: %w", err)
	}
	return taken, nil
}

// GetPublication loads one publication row.
func (s *Store) GetPublication(ctx context.Context, id int64) (*model.Publication, error) {
	pub := &model.Publication{ID: id}
	var state string
	var created int64
	err := s.db.QueryRowContext(ctx, `
		SELECT publisher, message, state, is_trusted, error, created_at
		FROM publications WHERE id = ?
	`, id).Scan(&pub.Publisher, &pub.Message, &state, &pub.Trusted, &pub.Error, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("publication %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get publication: %w", err)
	}
	pub.State = model.State(state)
	pub.CreatedAt = time.Unix(created, 0).UTC()
	return pub, nil
}

// State returns the publication's current lifecycle state.
func (s *Store) State(ctx context.Context, id int64) (model.State, error) {
	var state string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM publications WHERE id = ?`, id).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("publication %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get state: %w", err)
	}
	return model.State(state), nil
}

// ClaimCommit is the at-most-once commit claim. In one transaction it reads
// the publication state, counts outstanding unaccepted license and role
// records, and - only if the count is zero - conditionally moves the
// publication from Processing to Publishing.
//
// Returns the state observed by this caller and whether this caller won the
// claim. Exactly one of any number of concurrent callers can win; losers see
// claimed=false with the state another caller left behind.
func (s *Store) ClaimCommit(ctx context.Context, id int64) (model.State, bool, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return "", false, fmt.Errorf("claim commit: begin tx: %w", err)
	}
	defer tx.Rollback()

	var state string
	err = tx.QueryRowContext(ctx, `SELECT state FROM publications WHERE id = ?`, id).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, fmt.Errorf("publication %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", false, fmt.Errorf("claim commit: read state: %w", err)
	}
	current := model.State(state)
	if current.Terminal() || current == model.StatePublishing {
		// Terminal states are idempotent no-ops; Publishing means another
		// caller owns the commit right now.
		return current, false, tx.Commit()
	}

	var outstanding int
	err = tx.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM license_acceptances la
			 JOIN pending_documents pd ON la.pending_id = pd.id
			 WHERE pd.publication_id = ? AND la.accepted = 0)
			+
			(SELECT COUNT(*) FROM role_acceptances ra
			 JOIN pending_documents pd ON ra.pending_id = pd.id
			 WHERE pd.publication_id = ? AND ra.accepted = 0)
	`, id, id).Scan(&outstanding)
	if err != nil {
		return "", false, fmt.Errorf("claim commit: count outstanding: %w", err)
	}
	if outstanding > 0 {
		return model.StateProcessing, false, tx.Commit()
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE publications SET state = ? WHERE id = ? AND state = ?
	`, string(model.StatePublishing), id, string(model.StateProcessing))
	if err != nil {
		return "", false, fmt.Errorf("claim commit: claim update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("claim commit: rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("claim commit: commit: %w", err)
	}
	if n == 0 {
		// Lost a race inside the same transaction window; report whatever
		// state the winner left.
		st, err := s.State(ctx, id)
		return st, false, err
	}
	return model.StatePublishing, true, nil
}

// SetFailure records a failed commit attempt: terminal Failure state plus the
// error text, with pending rows left in place for operator inspection.
func (s *Store) SetFailure(ctx context.Context, id int64, msg string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE publications SET state = ?, error = ? WHERE id = ?
	`, string(model.StateFailure), msg, id)
	if err != nil {
		return fmt.Errorf("set failure: %w", err)
	}
	return nil
}
