package cvs

import (
	"sort"
	"strings"
	"time"
)

// Status is the processing state of a CV record.
type Status string

const (
	StatusPending     Status = "PENDING"
	StatusProcessing  Status = "PROCESSING"
	StatusShortlisted Status = "SHORTLISTED"
	StatusDuplicate   Status = "DUPLICATE"
	StatusRejected    Status = "REJECTED"
	StatusError       Status = "ERROR"
)

// Terminal reports whether the status is final. Terminal records are never
// transitioned back to an in-flight state.
func (s Status) Terminal() bool {
	switch s {
	case StatusShortlisted, StatusDuplicate, StatusRejected, StatusError:
		return true
	}
	return false
}

// ParseStatus maps a raw string onto a known Status.
func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, true
	case StatusProcessing:
		return StatusProcessing, true
	case StatusShortlisted:
		return StatusShortlisted, true
	case StatusDuplicate:
		return StatusDuplicate, true
	case StatusRejected:
		return StatusRejected, true
	case StatusError:
		return StatusError, true
	}
	return "", false
}

// MaxContentBytes caps the extracted text persisted per record.
const MaxContentBytes = 1_000_000

const truncationMarker = "... [TRUNCATED]"

// CV is one ingested resume document. Identity fields are immutable once
// committed; Status is owned by the ingestion pipeline.
type CV struct {
	ID               string
	FullName         string
	Email            string
	PhoneNumber      string
	FileName         string
	FilePath         string
	FileSizeBytes    int64
	FileType         string
	Content          string
	Status           Status
	Skills           []string
	DuplicateOfID    string
	SimilarityScore  float64
	BatchID          string
	ProcessingTimeMs int64
	ErrorMessage     string
	ProcessedBy      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasSkill reports whether the record carries the canonical skill.
func (c *CV) HasSkill(skill string) bool {
	for _, s := range c.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// SetSkills stores a deduplicated, sorted copy of the skill set.
func (c *CV) SetSkills(skills []string) {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	c.Skills = out
}

// TruncateContent enforces MaxContentBytes before persistence.
func (c *CV) TruncateContent() {
	if len(c.Content) > MaxContentBytes {
		c.Content = c.Content[:MaxContentBytes] + truncationMarker
	}
}
