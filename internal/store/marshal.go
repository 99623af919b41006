package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/bindery/internal/model"
)

// Metadata and trees are stored as JSON text columns. The tree column uses
// the archive wire shape ({id, title, contents}) so the read side can serve
// it without re-encoding.

func marshalMetadata(md model.Metadata) (string, error) {
	raw, err := json.Marshal(md)
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	return string(raw), nil
}

func unmarshalMetadata(raw string) (model.Metadata, error) {
	var md model.Metadata
	if err := json.Unmarshal([]byte(raw), &md); err != nil {
		return model.Metadata{}, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return md, nil
}

func marshalTree(t *model.Tree) (string, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("marshal tree: %w", err)
	}
	return string(raw), nil
}

func unmarshalTree(raw string) (*model.Tree, error) {
	var t model.Tree
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return nil, fmt.Errorf("unmarshal tree: %w", err)
	}
	return &t, nil
}
