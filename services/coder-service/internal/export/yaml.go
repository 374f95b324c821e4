package export

import (
	"io"

	"gopkg.in/yaml.v3"
)

type YAMLExporter struct{}

func (e *YAMLExporter) Export(doc *Document, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(doc)
}

func (e *YAMLExporter) Extension() string   { return "yaml" }
func (e *YAMLExporter) ContentType() string { return "application/yaml; charset=utf-8" }
