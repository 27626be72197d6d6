// Package dedupe decides whether a freshly extracted CV is a resubmission of
// an existing record, using exact email/phone signals and multi-metric fuzzy
// name matching.
package dedupe

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"cv-shortlisting-backend/internal/cvs"
	"cv-shortlisting-backend/internal/shared/telemetry"
)

// Corpus is the slice of persistence the detector reads and writes.
type Corpus interface {
	FindByEmail(ctx context.Context, email string) ([]cvs.CV, error)
	FindNonDuplicatesByCreation(ctx context.Context) ([]cvs.CV, error)
	FindAllByCreation(ctx context.Context) ([]cvs.CV, error)
	Update(ctx context.Context, cv *cvs.CV) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status cvs.Status) (int64, error)
}

// Thresholds tune the fuzzy name-match acceptance rules.
type Thresholds struct {
	Exact   int // weighted composite must reach this on its own
	Fuzzy   int // ratio and token-set must both reach this
	Partial int // partial and token-sort must both reach this
}

// DefaultThresholds mirrors the tuned production values.
func DefaultThresholds() Thresholds {
	return Thresholds{Exact: 95, Fuzzy: 85, Partial: 75}
}

// Composite weights for the blended name score.
const (
	weightRatio     = 0.30
	weightPartial   = 0.20
	weightTokenSort = 0.25
	weightTokenSet  = 0.25
)

// Names whose lengths differ by more than this are never compared.
const maxNameLengthGap = 10

const (
	cacheSize = 1024
	cacheTTL  = 5 * time.Second
)

type cachedMatch struct {
	id    string
	found bool
}

// Detector finds duplicate submissions in the corpus. The fuzzy-match cache
// is keyed by candidate name with a short TTL: the corpus grows during a
// batch, so stale hits are only acceptable for a few seconds.
type Detector struct {
	corpus     Corpus
	thresholds Thresholds
	cache      *expirable.LRU[string, cachedMatch]
}

// New constructs a Detector over the given corpus.
func New(corpus Corpus, thresholds Thresholds) *Detector {
	return &Detector{
		corpus:     corpus,
		thresholds: thresholds,
		cache:      expirable.NewLRU[string, cachedMatch](cacheSize, nil, cacheTTL),
	}
}

// FindDuplicate returns the earliest existing record the candidate
// duplicates, or nil. Signals are evaluated in strict precedence: exact
// email, exact normalized phone, then corroborated fuzzy name. Placeholder
// identity values are treated as absent.
func (d *Detector) FindDuplicate(ctx context.Context, candidate *cvs.CV) (*cvs.CV, error) {
	if candidate == nil {
		return nil, nil
	}

	if email := usableEmail(candidate.Email); email != "" {
		matches, err := d.corpus.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		for i := range matches {
			if matches[i].ID == candidate.ID {
				continue
			}
			telemetry.Info("dedupe.email_match", map[string]any{
				"candidate": candidate.FileName,
				"match_id":  matches[i].ID,
			})
			return &matches[i], nil
		}
	}

	if phone := usablePhone(candidate.PhoneNumber); phone != "" {
		match, err := d.findPhoneMatch(ctx, candidate, phone)
		if err != nil {
			return nil, err
		}
		if match != nil {
			telemetry.Info("dedupe.phone_match", map[string]any{
				"candidate": candidate.FileName,
				"match_id":  match.ID,
			})
			return match, nil
		}
	}

	if strings.TrimSpace(candidate.FullName) != "" {
		return d.findFuzzyNameMatch(ctx, candidate)
	}

	return nil, nil
}

func (d *Detector) findPhoneMatch(ctx context.Context, candidate *cvs.CV, phone string) (*cvs.CV, error) {
	normalized := ComparablePhone(phone)
	if normalized == "" {
		return nil, nil
	}
	existing, err := d.corpus.FindAllByCreation(ctx)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].ID == candidate.ID {
			continue
		}
		other := usablePhone(existing[i].PhoneNumber)
		if other == "" {
			continue
		}
		if ComparablePhone(other) == normalized {
			return &existing[i], nil
		}
	}
	return nil, nil
}

func (d *Detector) findFuzzyNameMatch(ctx context.Context, candidate *cvs.CV) (*cvs.CV, error) {
	name := strings.ToLower(strings.TrimSpace(candidate.FullName))

	if hit, ok := d.cache.Get(name); ok {
		if !hit.found {
			return nil, nil
		}
		existing, err := d.corpus.FindNonDuplicatesByCreation(ctx)
		if err != nil {
			return nil, err
		}
		for i := range existing {
			if existing[i].ID == hit.id {
				return &existing[i], nil
			}
		}
		// Cached original vanished; fall through to a full pass.
	}

	existing, err := d.corpus.FindNonDuplicatesByCreation(ctx)
	if err != nil {
		return nil, err
	}

	for i := range existing {
		other := &existing[i]
		otherName := strings.ToLower(strings.TrimSpace(other.FullName))
		if otherName == "" || other.ID == candidate.ID {
			continue
		}
		gap := len(name) - len(otherName)
		if gap > maxNameLengthGap || gap < -maxNameLengthGap {
			continue
		}

		scores := NameScores(name, otherName)
		if !d.nameMatches(scores) {
			continue
		}
		if !corroborated(candidate, other) {
			continue
		}

		telemetry.Info("dedupe.fuzzy_match", map[string]any{
			"candidate": candidate.FileName,
			"match_id":  other.ID,
			"composite": scores.Composite,
		})
		d.cache.Add(name, cachedMatch{id: other.ID, found: true})
		return other, nil
	}

	d.cache.Add(name, cachedMatch{})
	return nil, nil
}

// Scores holds the four textual similarity metrics and their weighted blend.
type Scores struct {
	Ratio     int
	Partial   int
	TokenSort int
	TokenSet  int
	Composite float64
}

// NameScores computes all similarity metrics for a case-folded name pair.
func NameScores(a, b string) Scores {
	s := Scores{
		Ratio:     fuzzy.Ratio(a, b),
		Partial:   fuzzy.PartialRatio(a, b),
		TokenSort: fuzzy.TokenSortRatio(a, b),
		TokenSet:  fuzzy.TokenSetRatio(a, b),
	}
	s.Composite = float64(s.Ratio)*weightRatio +
		float64(s.Partial)*weightPartial +
		float64(s.TokenSort)*weightTokenSort +
		float64(s.TokenSet)*weightTokenSet
	return s
}

func (d *Detector) nameMatches(s Scores) bool {
	if s.Composite >= float64(d.thresholds.Exact) {
		return true
	}
	if s.Ratio >= d.thresholds.Fuzzy && s.TokenSet >= d.thresholds.Fuzzy {
		return true
	}
	if s.Partial >= d.thresholds.Partial && s.TokenSort >= d.thresholds.Partial {
		return true
	}
	return false
}

// corroborated checks for a secondary signal backing a fuzzy name match:
// similar email local-parts, identical trailing phone digits, or the total
// absence of both signals on both records.
func corroborated(candidate, existing *cvs.CV) bool {
	candEmail := usableEmail(candidate.Email)
	exEmail := usableEmail(existing.Email)
	if candEmail != "" && exEmail != "" {
		if fuzzy.Ratio(localPart(candEmail), localPart(exEmail)) >= 80 {
			return true
		}
	}

	candPhone := ComparablePhone(usablePhone(candidate.PhoneNumber))
	exPhone := ComparablePhone(usablePhone(existing.PhoneNumber))
	if len(candPhone) >= 7 && len(exPhone) >= 7 {
		if candPhone[len(candPhone)-7:] == exPhone[len(exPhone)-7:] {
			return true
		}
	}

	return candEmail == "" && candPhone == "" && exEmail == "" && exPhone == ""
}

// SimilarityScore blends name, email, and phone similarity for a confirmed
// duplicate pair into a 0-100 score, weighting only the components both
// records actually carry.
func SimilarityScore(a, b *cvs.CV) float64 {
	if a == nil || b == nil {
		return 0
	}

	var total float64
	var weight float64

	if strings.TrimSpace(a.FullName) != "" && strings.TrimSpace(b.FullName) != "" {
		nameScore := fuzzy.TokenSetRatio(
			strings.ToLower(a.FullName),
			strings.ToLower(b.FullName),
		)
		total += float64(nameScore) * 0.4
		weight += 0.4
	}

	aEmail, bEmail := usableEmail(a.Email), usableEmail(b.Email)
	if aEmail != "" && bEmail != "" {
		if strings.EqualFold(aEmail, bEmail) {
			total += 100 * 0.35
		} else {
			total += float64(fuzzy.Ratio(aEmail, bEmail)) * 0.35
		}
		weight += 0.35
	}

	aPhone, bPhone := usablePhone(a.PhoneNumber), usablePhone(b.PhoneNumber)
	if aPhone != "" && bPhone != "" {
		na, nb := ComparablePhone(aPhone), ComparablePhone(bPhone)
		if na == nb {
			total += 100 * 0.25
		} else {
			total += float64(fuzzy.Ratio(na, nb)) * 0.25
		}
		weight += 0.25
	}

	if weight == 0 {
		return 0
	}
	return total / weight
}

var nonDigit = regexp.MustCompile(`[^0-9]`)

// ComparablePhone strips non-digits and a leading country code: 94 when the
// number has at least 11 digits, or 1 when it has exactly 11.
func ComparablePhone(phone string) string {
	digits := nonDigit.ReplaceAllString(phone, "")
	if strings.HasPrefix(digits, "94") && len(digits) >= 11 {
		return digits[2:]
	}
	if strings.HasPrefix(digits, "1") && len(digits) == 11 {
		return digits[1:]
	}
	return digits
}

func usableEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" || strings.EqualFold(email, "unknown@example.com") {
		return ""
	}
	return strings.ToLower(email)
}

func usablePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" || strings.EqualFold(phone, "N/A") {
		return ""
	}
	return phone
}

func localPart(email string) string {
	if at := strings.Index(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}
