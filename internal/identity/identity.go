// Package identity pulls email, phone, and name candidates out of extracted
// resume text via pattern matching. All functions are pure.
package identity

import (
	"regexp"
	"strings"
)

// Placeholder values substituted when no signal is found, so downstream
// consumers never see empty identity fields on committed records.
const (
	PlaceholderEmail = "unknown@example.com"
	PlaceholderPhone = "N/A"
)

// Identity is the set of optional signals extracted from one document.
type Identity struct {
	Email string
	Phone string
	Name  string
}

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// Phone patterns in priority order. OCR and text extraction sometimes
// substitute '?' for the conventional phone punctuation, so the corrupted
// forms are tried before the clean ones.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\?1\?\d{3}\?\d{3}\?\d{4}`),
	regexp.MustCompile(`[+?]1[-.\s?]\d{3}[-.\s?]\d{3}[-.\s?]\d{4}`),
	regexp.MustCompile(`[+?]94[-.\s?]\d{2}[-.\s?]\d{7}`),
	regexp.MustCompile(`[+?]94[-.\s?]\d{3}[-.\s?]\d{6}`),
	regexp.MustCompile(`\+1[-.\s]\d{3}[-.\s]\d{3}[-.\s]\d{4}`),
	regexp.MustCompile(`\d{3}[-.\s]\d{3}[-.\s]\d{4}`),
}

var (
	namePattern      = regexp.MustCompile(`^([A-Z][a-z]+ [A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)
	looseLinePattern = regexp.MustCompile(`^[A-Za-z\s]{3,50}$`)
	nonDigit         = regexp.MustCompile(`[^0-9]`)
	usNumber         = regexp.MustCompile(`^1\d{10}$`)
)

// Extract runs all three extractors over the text.
func Extract(text string) Identity {
	return Identity{
		Email: ExtractEmail(text),
		Phone: ExtractPhone(text),
		Name:  ExtractName(text),
	}
}

// ExtractEmail returns the first email-shaped substring, lowercased, or "".
func ExtractEmail(text string) string {
	if text == "" {
		return ""
	}
	match := emailPattern.FindString(text)
	return strings.ToLower(match)
}

// ExtractPhone returns the first phone number matched by the prioritized
// pattern list, normalized, or "".
func ExtractPhone(text string) string {
	if text == "" {
		return ""
	}
	for _, p := range phonePatterns {
		if match := p.FindString(text); match != "" {
			return NormalizePhone(match)
		}
	}
	return ""
}

// NormalizePhone strips every non-digit character and reformats
// country-code-prefixed US numbers as +1-XXX-XXX-XXXX. Normalizing an
// already-normalized number returns the same value.
func NormalizePhone(raw string) string {
	digits := nonDigit.ReplaceAllString(raw, "")
	if usNumber.MatchString(digits) {
		return "+" + digits[:1] + "-" + digits[1:4] + "-" + digits[4:7] + "-" + digits[7:]
	}
	return digits
}

// ExtractName scans the first five lines, skipping blanks and header lines
// ("resume", "curriculum", "cv"), and returns the first line matching the
// capitalized-words pattern, falling back to a looser alphabetic heuristic.
func ExtractName(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	limit := len(lines)
	if limit > 5 {
		limit = 5
	}
	for i := 0; i < limit; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "curriculum") || strings.Contains(lower, "resume") || strings.Contains(lower, "cv") {
			continue
		}
		if m := namePattern.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1])
		}
		if looseLinePattern.MatchString(line) && len(strings.Fields(line)) >= 2 {
			return line
		}
	}
	return ""
}

var extensionPattern = regexp.MustCompile(`\.[^.]+$`)

// Filename conventions tried in order: "First Last_...", "First_Last_...",
// "FirstLast-...", bare "First Last", "First_Last", "First-Last".
var filenamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`([A-Z][a-z]+\s+[A-Z][a-z]+)_.*`),
	regexp.MustCompile(`([A-Z][a-z]+)_([A-Z][a-z]+)_.*`),
	regexp.MustCompile(`([A-Z][a-z]+)([A-Z][a-z]+)-.*`),
	regexp.MustCompile(`([A-Z][a-z]+\s+[A-Z][a-z]+)`),
	regexp.MustCompile(`([A-Z][a-z]+_[A-Z][a-z]+)`),
	regexp.MustCompile(`([A-Z][a-z]+-[A-Z][a-z]+)`),
}

var separators = regexp.MustCompile(`[_\-\s]+`)

// NameFromFilename derives a candidate name from the filename when text
// extraction yields nothing usable.
func NameFromFilename(filename string) string {
	if strings.TrimSpace(filename) == "" {
		return ""
	}
	base := extensionPattern.ReplaceAllString(filename, "")
	for _, p := range filenamePatterns {
		m := p.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		name := m[1]
		if len(m) > 2 && m[2] != "" {
			name += " " + m[2]
		}
		return strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(name))
	}
	parts := separators.Split(base, -1)
	var tokens []string
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	if len(tokens) >= 2 {
		return tokens[0] + " " + tokens[1]
	}
	return FallbackNameFromFilename(filename)
}

// FallbackNameFromFilename is the last-resort name: the de-punctuated
// filename without its extension.
func FallbackNameFromFilename(filename string) string {
	base := extensionPattern.ReplaceAllString(filename, "")
	return strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(base))
}
