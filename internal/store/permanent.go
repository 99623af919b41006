package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/roach88/bindery/internal/model"
)

// Promotion is one pending unit ready to become permanent. Tree is non-nil
// for binders only.
type Promotion struct {
	Module model.Module
	Tree   *model.Tree
}

// Promote converts a publication's pending rows into permanent modules and
// trees in one transaction: version-conflict check, module and
// tree inserts, pending cleanup, and the terminal Done/Success state. Either
// everything is promoted or the pending rows stay exactly as they were.
//
// A competing permanent record with the same (uuid, version) aborts with
// ErrVersionExists. Under correct claiming this cannot happen, but it is
// checked before every insert.
func (s *Store) Promote(ctx context.Context, pubID int64, units []Promotion) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return fmt.Errorf("promote: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, u := range units {
		var exists bool
		err := tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM modules WHERE uuid = ? AND major_version = ? AND minor_version = ?)
		`, u.Module.UUID, u.Module.Version.Major, u.Module.Version.Minor).Scan(&exists)
		if err != nil {
			return fmt.Errorf("promote: conflict check: %w", err)
		}
		if exists {
			return fmt.Errorf("promote: %s: %w",
				model.JoinIdentHash(u.Module.UUID, u.Module.Version), ErrVersionExists)
		}

		metadata, err := marshalMetadata(u.Module.Metadata)
		if err != nil {
			return fmt.Errorf("promote: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO modules (uuid, major_version, minor_version, type, title, metadata, content)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, u.Module.UUID, u.Module.Version.Major, u.Module.Version.Minor,
			string(u.Module.Type), u.Module.Title, metadata, u.Module.Content); err != nil {
			return fmt.Errorf("promote: insert module: %w", err)
		}

		if u.Tree != nil {
			tree, err := marshalTree(u.Tree)
			if err != nil {
				return fmt.Errorf("promote: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO trees (uuid, major_version, minor_version, tree)
				VALUES (?, ?, ?, ?)
			`, u.Module.UUID, u.Module.Version.Major, u.Module.Version.Minor, tree); err != nil {
				return fmt.Errorf("promote: insert tree: %w", err)
			}
		}
	}

	// Cleanup is part of the same atomic unit: acceptance rows first (they
	// reference pending rows), then members, then the pending rows.
	for _, stmt := range []string{
		`DELETE FROM license_acceptances WHERE pending_id IN (SELECT id FROM pending_documents WHERE publication_id = ?)`,
		`DELETE FROM role_acceptances WHERE pending_id IN (SELECT id FROM pending_documents WHERE publication_id = ?)`,
		`DELETE FROM binder_members WHERE publication_id = ?`,
		`DELETE FROM pending_documents WHERE publication_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, pubID); err != nil {
			return fmt.Errorf("promote: cleanup: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE publications SET state = ? WHERE id = ?
	`, string(model.StateSuccess), pubID); err != nil {
		return fmt.Errorf("promote: set state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("promote: commit: %w", err)
	}
	return nil
}

// Module loads one permanent module.
func (s *Store) Module(ctx context.Context, uuid string, v model.Version) (*model.Module, error) {
	mod := &model.Module{UUID: uuid, Version: v}
	var typ, metadata string
	err := s.db.QueryRowContext(ctx, `
		SELECT type, title, metadata, content
		FROM modules
		WHERE uuid = ? AND major_version = ? AND minor_version = ?
	`, uuid, v.Major, v.Minor).Scan(&typ, &mod.Title, &metadata, &mod.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("module %s: %w", model.JoinIdentHash(uuid, v), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get module: %w", err)
	}
	mod.Type = model.PortalType(typ)
	if mod.Metadata, err = unmarshalMetadata(metadata); err != nil {
		return nil, fmt.Errorf("get module: %w", err)
	}
	return mod, nil
}

// Tree loads the materialized tree for a binder at a specific version.
func (s *Store) Tree(ctx context.Context, uuid string, v model.Version) (*model.Tree, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT tree FROM trees WHERE uuid = ? AND major_version = ? AND minor_version = ?
	`, uuid, v.Major, v.Minor).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tree %s: %w", model.JoinIdentHash(uuid, v), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tree: %w", err)
	}
	return unmarshalTree(raw)
}

// LatestVersion returns the highest permanent version of a content UUID, if
// any. Revisions are proposed against this version.
func (s *Store) LatestVersion(ctx context.Context, uuid string) (model.Version, bool, error) {
	var v model.Version
	err := s.db.QueryRowContext(ctx, `
		SELECT major_version, minor_version
		FROM modules
		WHERE uuid = ?
		ORDER BY major_version DESC, minor_version DESC
		LIMIT 1
	`, uuid).Scan(&v.Major, &v.Minor)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Version{}, false, nil
	}
	if err != nil {
		return model.Version{}, false, fmt.Errorf("latest version: %w", err)
	}
	return v, true, nil
}

// ListModules returns all permanent modules without their content payloads,
// sorted by title with locale-aware collation (then by ident hash for a
// stable order between equal titles).
func (s *Store) ListModules(ctx context.Context) ([]model.Module, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT uuid, major_version, minor_version, type, title, metadata
		FROM modules
	`)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	var mods []model.Module
	for rows.Next() {
		var mod model.Module
		var typ, metadata string
		if err := rows.Scan(&mod.UUID, &mod.Version.Major, &mod.Version.Minor,
			&typ, &mod.Title, &metadata); err != nil {
			return nil, fmt.Errorf("list modules: scan: %w", err)
		}
		mod.Type = model.PortalType(typ)
		if mod.Metadata, err = unmarshalMetadata(metadata); err != nil {
			return nil, fmt.Errorf("list modules: %w", err)
		}
		mods = append(mods, mod)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}

	c := collate.New(language.Und)
	sort.SliceStable(mods, func(i, j int) bool {
		if cmp := c.CompareString(mods[i].Title, mods[j].Title); cmp != 0 {
			return cmp < 0
		}
		return model.JoinIdentHash(mods[i].UUID, mods[i].Version) <
			model.JoinIdentHash(mods[j].UUID, mods[j].Version)
	})
	return mods, nil
}
