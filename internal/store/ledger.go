package store

import (
	"context"
	"fmt"

	"github.com/roach88/bindery/internal/model"
)

// Acceptance ledger operations. All updates are append-only: the "accepted =
// 0" guard means flags only ever transition 0 -> 1, and repeating an
// acceptance touches zero rows.

// AcceptLicense marks every outstanding license record held by userID across
// the publication's pending documents as accepted. Returns the number of
// rows that actually changed; zero means the user had nothing outstanding.
func (s *Store) AcceptLicense(ctx context.Context, pubID int64, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE license_acceptances SET accepted = 1
		WHERE accepted = 0
		  AND user_id = ?
		  AND pending_id IN (SELECT id FROM pending_documents WHERE publication_id = ?)
	`, userID, pubID)
	if err != nil {
		return 0, fmt.Errorf("accept license: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("accept license: rows affected: %w", err)
	}
	return n, nil
}

// AcceptRoles marks outstanding role records as accepted. With a non-empty
// userID only that person's records change; with an empty userID every role
// record of the publication is accepted (operator override).
func (s *Store) AcceptRoles(ctx context.Context, pubID int64, userID string) (int64, error) {
	query := `
		UPDATE role_acceptances SET accepted = 1
		WHERE accepted = 0
		  AND pending_id IN (SELECT id FROM pending_documents WHERE publication_id = ?)
	`
	args := []any{pubID}
	if userID != "" {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("accept roles: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("accept roles: rows affected: %w", err)
	}
	return n, nil
}

// Acceptances returns the publication's ledger rows of one kind, ordered by
// pending document then user. License rows carry an empty Role.
func (s *Store) Acceptances(ctx context.Context, pubID int64, kind model.AcceptanceKind) ([]model.Acceptance, error) {
	var query string
	switch kind {
	case model.AcceptanceLicense:
		query = `
			SELECT la.pending_id, la.user_id, '', la.accepted
			FROM license_acceptances la
			JOIN pending_documents pd ON la.pending_id = pd.id
			WHERE pd.publication_id = ?
			ORDER BY la.pending_id ASC, la.user_id ASC
		`
	case model.AcceptanceRole:
		query = `
			SELECT ra.pending_id, ra.user_id, ra.role, ra.accepted
			FROM role_acceptances ra
			JOIN pending_documents pd ON ra.pending_id = pd.id
			WHERE pd.publication_id = ?
			ORDER BY ra.pending_id ASC, ra.user_id ASC, ra.role ASC
		`
	default:
		return nil, fmt.Errorf("acceptances: unknown kind %q", kind)
	}

	rows, err := s.db.QueryContext(ctx, query, pubID)
	if err != nil {
		return nil, fmt.Errorf("acceptances: %w", err)
	}
	defer rows.Close()

	var records []model.Acceptance
	for rows.Next() {
		var a model.Acceptance
		if err := rows.Scan(&a.PendingID, &a.UserID, &a.Role, &a.Accepted); err != nil {
			return nil, fmt.Errorf("acceptances: scan: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("acceptances: %w", err)
	}
	return records, nil
}

// CountOutstanding returns the number of unaccepted license and role records
// across the publication. Zero means the publication is ready to commit.
func (s *Store) CountOutstanding(ctx context.Context, pubID int64) (int, error) {
	var outstanding int
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM license_acceptances la
			 JOIN pending_documents pd ON la.pending_id = pd.id
			 WHERE pd.publication_id = ? AND la.accepted = 0)
			+
			(SELECT COUNT(*) FROM role_acceptances ra
			 JOIN pending_documents pd ON ra.pending_id = pd.id
			 WHERE pd.publication_id = ? AND ra.accepted = 0)
	`, pubID, pubID).Scan(&outstanding)
	if err != nil {
		return 0, fmt.Errorf("count outstanding: %w", err)
	}
	return outstanding, nil
}
