package publish

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/bindery/internal/metaschema"
	"github.com/roach88/bindery/internal/store"
)

// UUIDSource mints content UUIDs for newly created works.
// Implemented by RandomUUIDSource (production) and a sequential source in
// testutil (deterministic tests).
type UUIDSource interface {
	NewUUID() string
}

// RandomUUIDSource generates RFC 4122 random (v4) UUIDs.
//
// Thread-safety: RandomUUIDSource is stateless and safe for concurrent use.
type RandomUUIDSource struct{}

// NewUUID returns a new random UUID as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (RandomUUIDSource) NewUUID() string {
	return uuid.Must(uuid.NewRandom()).String()
}

// Engine drives the publication lifecycle against one store. It is stateless
// apart from its collaborators and safe for concurrent use; all mutual
// exclusion lives in the store's claim primitive.
type Engine struct {
	store *store.Store
	meta  *metaschema.Validator
	uuids UUIDSource
	log   *slog.Logger
}

// New creates an Engine. meta, uuids, and logger may be nil, in which case
// the embedded metadata schema, random UUIDs, and slog's default logger are
// used.
func New(s *store.Store, meta *metaschema.Validator, uuids UUIDSource, logger *slog.Logger) *Engine {
	if meta == nil {
		meta = metaschema.MustValidator()
	}
	if uuids == nil {
		uuids = RandomUUIDSource{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: s, meta: meta, uuids: uuids, log: logger}
}
