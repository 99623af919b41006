package cli

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/bindery/internal/model"
)

// Manifest is a submission manifest file: the publication attributes plus
// the content tree to publish.
//
//	publisher: bob
//	message: "second edition"
//	content:
//	  local_id: book
//	  kind: binder
//	  title: "Physics"
//	  metadata: {...}
//	  children: [...]
type Manifest struct {
	Publisher string             `yaml:"publisher"`
	Message   string             `yaml:"message,omitempty"`
	Content   *model.ContentNode `yaml:"content"`
}

// LoadManifest reads and parses a submission manifest. Unknown fields are
// rejected so typos fail before anything reaches the database.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	if m.Publisher == "" {
		return nil, fmt.Errorf("invalid manifest: publisher is required")
	}
	if m.Content == nil {
		return nil, fmt.Errorf("invalid manifest: content is required")
	}
	return &m, nil
}
