package export

import (
	"fmt"
	"io"
	"time"

	"ai-coder/services/coder-service/internal/domain"
)

// Exporter renders one session document.
type Exporter interface {
	Export(doc *Document, w io.Writer) error
	Extension() string
	ContentType() string
}

func NewExporter(format string) (Exporter, error) {
	switch format {
	case "", "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q (supported: json, yaml, markdown)", domain.ErrInvalidArgument, format)
	}
}

type Document struct {
	ID           string        `json:"id" yaml:"id"`
	Title        string        `json:"title" yaml:"title"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	IsActive     bool          `json:"is_active" yaml:"is_active"`
	CreatedAt    time.Time     `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" yaml:"updated_at"`
	Interactions []Interaction `json:"interactions" yaml:"interactions"`
}

type Interaction struct {
	ID          string    `json:"id" yaml:"id"`
	Prompt      string    `json:"prompt" yaml:"prompt"`
	Response    string    `json:"response" yaml:"response"`
	CodeSnippet string    `json:"code_snippet,omitempty" yaml:"code_snippet,omitempty"`
	Language    string    `json:"language" yaml:"language"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// NewDocument copies a session and its loaded interactions.
func NewDocument(s *domain.Session) *Document {
	doc := &Document{
		ID:           s.ID,
		Title:        s.Title,
		Description:  s.Description,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		Interactions: make([]Interaction, 0, len(s.Interactions)),
	}
	for _, in := range s.Interactions {
		doc.Interactions = append(doc.Interactions, Interaction{
			ID:          in.ID,
			Prompt:      in.Prompt,
			Response:    in.Response,
			CodeSnippet: in.CodeSnippet,
			Language:    in.Language,
			CreatedAt:   in.CreatedAt,
		})
	}
	return doc
}
