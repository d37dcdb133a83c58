package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aliskhannn/spanish-quiz-bot/internal/domain/entities"
)

var ErrUnsupportedFormat = errors.New("unsupported content format")

// ContentRepository reads the quiz document from a local JSON or YAML file.
type ContentRepository struct {
	path string
}

// NewContentRepository creates a repository for the file at path.
// The format is picked by extension: .json, .yaml or .yml.
func NewContentRepository(path string) *ContentRepository {
	return &ContentRepository{path: path}
}

// Load reads, decodes and validates the document.
func (r *ContentRepository) Load(_ context.Context) (*entities.Content, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}

	var content *entities.Content
	switch ext := strings.ToLower(filepath.Ext(r.path)); ext {
	case ".json":
		content, err = DecodeJSON(data)
	case ".yaml", ".yml":
		content, err = DecodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	return content, nil
}

// DecodeJSON decodes and validates a JSON quiz document.
func DecodeJSON(data []byte) (*entities.Content, error) {
	var content entities.Content
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal content JSON: %w", err)
	}

	if err := content.Validate(); err != nil {
		return nil, err
	}

	return &content, nil
}

// DecodeYAML decodes and validates a YAML quiz document with the JSON keys.
func DecodeYAML(data []byte) (*entities.Content, error) {
	var content entities.Content
	if err := yaml.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal content YAML: %w", err)
	}

	if err := content.Validate(); err != nil {
		return nil, err
	}

	return &content, nil
}
