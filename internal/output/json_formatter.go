package output

import (
	"bytes"

	json "github.com/goccy/go-json"
	"github.com/rpgo/lifeplan-simulator/internal/domain"
	"gopkg.in/yaml.v3"
)

// JSONFormatter serializes the export document as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(doc *domain.Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// YAMLFormatter serializes the export document as YAML, the bundle file format.
type YAMLFormatter struct{}

func (y YAMLFormatter) Name() string { return "yaml" }

func (y YAMLFormatter) Format(doc *domain.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
