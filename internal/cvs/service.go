package cvs

import (
	"context"
	"fmt"
	"strings"
)

const defaultPageSize = 50

// Service contains business logic for stored CV records.
type Service struct {
	Repo Repo
}

// ListShortlisted returns shortlisted CVs, optionally filtered to those
// carrying the given skill.
func (s *Service) ListShortlisted(ctx context.Context, skill string, limit, offset int) ([]CV, error) {
	limit, offset = normalizePage(limit, offset)
	records, err := s.Repo.FindByStatus(ctx, StatusShortlisted, limit, offset)
	if err != nil {
		return nil, err
	}
	skill = strings.ToLower(strings.TrimSpace(skill))
	if skill == "" {
		return records, nil
	}
	filtered := records[:0]
	for _, cv := range records {
		if cv.HasSkill(skill) {
			filtered = append(filtered, cv)
		}
	}
	return filtered, nil
}

// ListDuplicates returns CVs flagged as duplicates of earlier submissions.
func (s *Service) ListDuplicates(ctx context.Context, limit, offset int) ([]CV, error) {
	limit, offset = normalizePage(limit, offset)
	return s.Repo.FindByStatus(ctx, StatusDuplicate, limit, offset)
}

// ListByStatus returns CVs in the given state.
func (s *Service) ListByStatus(ctx context.Context, raw string, limit, offset int) ([]CV, error) {
	status, ok := ParseStatus(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	limit, offset = normalizePage(limit, offset)
	return s.Repo.FindByStatus(ctx, status, limit, offset)
}

// Search finds CVs whose name, email, or content contains the query,
// optionally narrowed to one status.
func (s *Service) Search(ctx context.Context, query, rawStatus string, limit, offset int) ([]CV, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	var status Status
	if strings.TrimSpace(rawStatus) != "" {
		parsed, ok := ParseStatus(rawStatus)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, rawStatus)
		}
		status = parsed
	}
	limit, offset = normalizePage(limit, offset)
	return s.Repo.Search(ctx, query, status, limit, offset)
}

// Get fetches one CV by id.
func (s *Service) Get(ctx context.Context, id string) (CV, error) {
	if strings.TrimSpace(id) == "" {
		return CV{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// ListByBatch returns every CV ingested under one batch id.
func (s *Service) ListByBatch(ctx context.Context, batchID string) ([]CV, error) {
	if strings.TrimSpace(batchID) == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.FindByBatchID(ctx, batchID)
}

// UpdateStatus moves a CV into a new state, typically a manual reviewer
// override of the automated verdict.
func (s *Service) UpdateStatus(ctx context.Context, id, raw string) (CV, error) {
	status, ok := ParseStatus(raw)
	if !ok {
		return CV{}, fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	cv, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return CV{}, err
	}
	cv.Status = status
	if status != StatusDuplicate {
		cv.DuplicateOfID = ""
		cv.SimilarityScore = 0
	}
	if err := s.Repo.Update(ctx, &cv); err != nil {
		return CV{}, err
	}
	return cv, nil
}

// Delete removes a CV record.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	return s.Repo.Delete(ctx, id)
}

// StatusCounts summarizes the stored corpus by state.
type StatusCounts struct {
	Total       int64 `json:"total"`
	Pending     int64 `json:"pending"`
	Processing  int64 `json:"processing"`
	Shortlisted int64 `json:"shortlisted"`
	Duplicates  int64 `json:"duplicates"`
	Rejected    int64 `json:"rejected"`
	Errors      int64 `json:"errors"`
}

// Counts tallies stored CVs per status.
func (s *Service) Counts(ctx context.Context) (StatusCounts, error) {
	var out StatusCounts
	var err error
	if out.Total, err = s.Repo.Count(ctx); err != nil {
		return StatusCounts{}, err
	}
	for _, pair := range []struct {
		status Status
		dst    *int64
	}{
		{StatusPending, &out.Pending},
		{StatusProcessing, &out.Processing},
		{StatusShortlisted, &out.Shortlisted},
		{StatusDuplicate, &out.Duplicates},
		{StatusRejected, &out.Rejected},
		{StatusError, &out.Errors},
	} {
		if *pair.dst, err = s.Repo.CountByStatus(ctx, pair.status); err != nil {
			return StatusCounts{}, err
		}
	}
	return out, nil
}

// BatchCounts tallies one batch's records per status.
func (s *Service) BatchCounts(ctx context.Context, batchID string) (StatusCounts, error) {
	records, err := s.Repo.FindByBatchID(ctx, batchID)
	if err != nil {
		return StatusCounts{}, err
	}
	var out StatusCounts
	out.Total = int64(len(records))
	for _, cv := range records {
		switch cv.Status {
		case StatusPending:
			out.Pending++
		case StatusProcessing:
			out.Processing++
		case StatusShortlisted:
			out.Shortlisted++
		case StatusDuplicate:
			out.Duplicates++
		case StatusRejected:
			out.Rejected++
		case StatusError:
			out.Errors++
		}
	}
	return out, nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
