package analysis

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var defaultTools = []string{"paint", "pyautogui", "win32gui", "pydantic"}

// Vocabulary is the ordered list of tool and library names used both to
// tag technical issues and to relate key points that mention the same tool.
type Vocabulary struct {
	terms []string
}

type vocabularyFile struct {
	Tools []string `yaml:"tools"`
}

func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(nil)
}

// NewVocabulary appends extra terms to the default list. Terms are
// lowercased; blanks and repeats are dropped.
func NewVocabulary(extra []string) *Vocabulary {
	v := &Vocabulary{}
	seen := make(map[string]bool)
	for _, t := range append(append([]string{}, defaultTools...), extra...) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		v.terms = append(v.terms, t)
	}
	return v
}

// LoadVocabulary reads a YAML file of the form `tools: [a, b]`.
// An empty path yields the default vocabulary.
func LoadVocabulary(path string) (*Vocabulary, error) {
	if path == "" {
		return DefaultVocabulary(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	var f vocabularyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}
	return NewVocabulary(f.Tools), nil
}

func (v *Vocabulary) Terms() []string {
	return append([]string(nil), v.terms...)
}

// First returns the first term contained in lower, or "".
func (v *Vocabulary) First(lower string) string {
	for _, t := range v.terms {
		if strings.Contains(lower, t) {
			return t
		}
	}
	return ""
}

// Shared reports whether both texts contain the same term.
func (v *Vocabulary) Shared(lowerA, lowerB string) bool {
	for _, t := range v.terms {
		if strings.Contains(lowerA, t) && strings.Contains(lowerB, t) {
			return true
		}
	}
	return false
}
