// Package skills maps resume text onto a canonical skill set using a
// configurable taxonomy of textual variants.
package skills

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yml
var defaultTaxonomy []byte

type taxonomyFile struct {
	Categories map[string][]string `yaml:"categories"`
}

// Taxonomy is the read-only mapping from canonical skill names to compiled
// whole-word variant matchers. It is loaded once per process and safe for
// concurrent use.
type Taxonomy struct {
	variants map[string][]string
	matchers map[string][]*regexp.Regexp
}

// Load reads a taxonomy from a YAML file, or the embedded default when path
// is empty.
func Load(path string) (*Taxonomy, error) {
	raw := defaultTaxonomy
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read taxonomy %s: %w", path, err)
		}
		raw = data
	}
	var file taxonomyFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("taxonomy has no categories")
	}
	return New(file.Categories)
}

// New builds a Taxonomy from canonical-name → variants. Variant matching is
// case-insensitive and whole-word.
func New(categories map[string][]string) (*Taxonomy, error) {
	t := &Taxonomy{
		variants: make(map[string][]string, len(categories)),
		matchers: make(map[string][]*regexp.Regexp, len(categories)),
	}
	for name, variants := range categories {
		canonical := strings.ToLower(strings.TrimSpace(name))
		if canonical == "" {
			continue
		}
		for _, v := range variants {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "" {
				continue
			}
			re, err := compileWordMatch(v)
			if err != nil {
				return nil, fmt.Errorf("variant %q of %q: %w", v, canonical, err)
			}
			t.variants[canonical] = append(t.variants[canonical], v)
			t.matchers[canonical] = append(t.matchers[canonical], re)
		}
	}
	return t, nil
}

// Extract returns the canonical names of every skill whose variants appear as
// a whole word in the text. The result is sorted and duplicate-free; running
// it twice on identical text yields an identical set.
func (t *Taxonomy) Extract(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var found []string
	for canonical, matchers := range t.matchers {
		for _, re := range matchers {
			if re.MatchString(lower) {
				found = append(found, canonical)
				break
			}
		}
	}
	sort.Strings(found)
	return found
}

// ContainsWord reports whether the keyword appears as a whole word in the
// lowercased text. Used by the criteria evaluator for excluded keywords.
func ContainsWord(text, keyword string) bool {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return false
	}
	re, err := compileWordMatch(keyword)
	if err != nil {
		return false
	}
	return re.MatchString(strings.ToLower(text))
}

// Categories exposes the canonical-name → variants view for the API surface.
func (t *Taxonomy) Categories() map[string][]string {
	out := make(map[string][]string, len(t.variants))
	for name, variants := range t.variants {
		out[name] = append([]string(nil), variants...)
	}
	return out
}

// Size returns the number of canonical skills.
func (t *Taxonomy) Size() int {
	return len(t.matchers)
}

// compileWordMatch anchors the quoted variant on word boundaries. Variants
// ending in non-word characters (like "node.js" or "ci/cd") get no trailing
// \b since there is no word boundary after punctuation.
func compileWordMatch(variant string) (*regexp.Regexp, error) {
	pattern := `\b` + regexp.QuoteMeta(variant)
	if isWordChar(variant[len(variant)-1]) {
		pattern += `\b`
	}
	return regexp.Compile(pattern)
}

func isWordChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
