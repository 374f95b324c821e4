// Package snippet pulls code out of free-form model output.
//
// Matching is textual. It will miss code the model did not fence and will misfire on
// prose that contains back-ticks or words like "import"; callers treat the result as a
// best guess, not a parse.
package snippet

import (
	"regexp"
	"strings"

	"ai-coder/services/coder-service/internal/domain"
)

var inlinePattern = regexp.MustCompile("`([^`]+)`")

// keywords that make the heuristic stage treat an unfenced response as code
var codeKeywords = []string{"def ", "function ", "class ", "import ", "export ", "const ", "let ", "var "}

// comment markers stripped by the heuristic stage
var commentPrefixes = []string{"#", "//", "/*", "*", `"""`, "'''"}

// Extract returns the snippets found in response, in priority order:
// fenced blocks, then inline spans tagged "text", then a keyword heuristic. It never
// returns an empty slice; when nothing matches the single element has empty Code.
func Extract(response, language string) []domain.Snippet {
	if snippets := fenced(response, language); len(snippets) > 0 {
		return snippets
	}
	if snippets := inline(response); len(snippets) > 0 {
		return snippets
	}
	if code := heuristic(response); code != "" {
		return []domain.Snippet{{Language: language, Code: code}}
	}
	return []domain.Snippet{{Language: language, Code: ""}}
}

// Representative picks the snippet persisted on the interaction: the first one tagged
// with language, or "" when there is none.
func Representative(snippets []domain.Snippet, language string) string {
	for _, s := range snippets {
		if strings.EqualFold(s.Language, language) {
			return s.Code
		}
	}
	return ""
}

func fencePattern(language string) *regexp.Regexp {
	return regexp.MustCompile("(?i)```(?:" + regexp.QuoteMeta(language) + `)?\s*([\s\S]*?)` + "```")
}

func fenced(response, language string) []domain.Snippet {
	matches := fencePattern(language).FindAllStringSubmatch(response, -1)
	snippets := make([]domain.Snippet, 0, len(matches))
	for _, m := range matches {
		snippets = append(snippets, domain.Snippet{Language: language, Code: strings.TrimSpace(m[1])})
	}
	return snippets
}

func inline(response string) []domain.Snippet {
	matches := inlinePattern.FindAllStringSubmatch(response, -1)
	snippets := make([]domain.Snippet, 0, len(matches))
	for _, m := range matches {
		code := strings.TrimSpace(m[1])
		if code == "" {
			continue
		}
		snippets = append(snippets, domain.Snippet{Language: domain.PlainTextLanguage, Code: code})
	}
	return snippets
}

func heuristic(response string) string {
	lowered := strings.ToLower(response)
	hit := false
	for _, kw := range codeKeywords {
		if strings.Contains(lowered, kw) {
			hit = true
			break
		}
	}
	if !hit {
		return ""
	}

	var kept []string
	for _, line := range strings.Split(response, "\n") {
		if isComment(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func isComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, p := range commentPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}
