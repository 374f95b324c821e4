package export

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// MarkdownExporter writes a readable transcript. Each stored snippet goes in a
// fence tagged with its language.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(doc *Document, w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	if doc.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", doc.Description)
	}
	fmt.Fprintf(&b, "**Session:** %s  \n", doc.ID)
	fmt.Fprintf(&b, "**Created:** %s  \n", doc.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "**Interactions:** %d\n\n", len(doc.Interactions))

	for i, in := range doc.Interactions {
		b.WriteString("---\n\n")
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, in.CreatedAt.Format(time.RFC3339))
		fmt.Fprintf(&b, "**User:**\n\n%s\n\n", in.Prompt)
		fmt.Fprintf(&b, "**Assistant:**\n\n%s\n\n", in.Response)
		if in.CodeSnippet != "" {
			fmt.Fprintf(&b, "**Code (%s):**\n\n%s%s\n%s\n%s\n\n", in.Language, fence(in.CodeSnippet), in.Language, in.CodeSnippet, fence(in.CodeSnippet))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// fence is one back-tick longer than the longest run inside code.
func fence(code string) string {
	longest, run := 0, 0
	for _, r := range code {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

func (e *MarkdownExporter) Extension() string   { return "md" }
func (e *MarkdownExporter) ContentType() string { return "text/markdown; charset=utf-8" }
