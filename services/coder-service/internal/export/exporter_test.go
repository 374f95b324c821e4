package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"ai-coder/services/coder-service/internal/domain"

	"gopkg.in/yaml.v3"
)

func testSession() *domain.Session {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Session{
		ID:          "s1",
		Title:       "Coding Session",
		Description: "sorting",
		IsActive:    true,
		CreatedAt:   at,
		UpdatedAt:   at,
		Interactions: []*domain.Interaction{
			{ID: "i1", SessionID: "s1", Prompt: "sort a list", Response: "use sorted()", CodeSnippet: "sorted(xs)", Language: "python", CreatedAt: at},
			{ID: "i2", SessionID: "s1", Prompt: "thanks", Response: "any time", Language: "python", CreatedAt: at.Add(time.Minute)},
		},
	}
}

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format string
		ext    string
		err    bool
	}{
		{format: "", ext: "json"},
		{format: "json", ext: "json"},
		{format: "yaml", ext: "yaml"},
		{format: "yml", ext: "yaml"},
		{format: "markdown", ext: "md"},
		{format: "md", ext: "md"},
		{format: "pdf", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			e, err := NewExporter(tt.format)
			if tt.err {
				if !errors.Is(err, domain.ErrInvalidArgument) {
					t.Errorf("NewExporter(%q) error = %v, want ErrInvalidArgument", tt.format, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewExporter(%q) error = %v", tt.format, err)
			}
			if e.Extension() != tt.ext {
				t.Errorf("Extension() = %q, want %q", e.Extension(), tt.ext)
			}
		})
	}
}

func TestJSONExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(NewDocument(testSession()), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	var got Document
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.ID != "s1" || len(got.Interactions) != 2 || got.Interactions[0].CodeSnippet != "sorted(xs)" {
		t.Errorf("decoded = %+v", got)
	}
}

func TestYAMLExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(NewDocument(testSession()), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	var got map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if got["title"] != "Coding Session" {
		t.Errorf("title = %v", got["title"])
	}
	if items, ok := got["interactions"].([]any); !ok || len(items) != 2 {
		t.Errorf("interactions = %v", got["interactions"])
	}
}

func TestMarkdownExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&MarkdownExporter{}).Export(NewDocument(testSession()), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# Coding Session",
		"**Interactions:** 2",
		"**User:**\n\nsort a list",
		"```python\nsorted(xs)\n```",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "**Code (") != 1 {
		t.Error("interaction without a snippet got a code block")
	}
}

func TestFence(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{code: "x = 1", want: "```"},
		{code: "print(`a`)", want: "```"},
		{code: "s = '```'", want: "````"},
	}
	for _, tt := range tests {
		if got := fence(tt.code); got != tt.want {
			t.Errorf("fence(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
