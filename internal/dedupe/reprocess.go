package dedupe

import (
	"context"

	"cv-shortlisting-backend/internal/cvs"
	"cv-shortlisting-backend/internal/shared/telemetry"
)

// Stats summarizes duplicate detection across the corpus.
type Stats struct {
	TotalCVs            int64   `json:"totalCVs"`
	UniqueCVs           int64   `json:"uniqueCVs"`
	DuplicateCVs        int64   `json:"duplicateCVs"`
	DuplicatePercentage float64 `json:"duplicatePercentage"`
}

// CorpusStats reports duplicate counts over the whole corpus.
func (d *Detector) CorpusStats(ctx context.Context) (Stats, error) {
	total, err := d.corpus.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	duplicates, err := d.corpus.CountByStatus(ctx, cvs.StatusDuplicate)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{
		TotalCVs:     total,
		UniqueCVs:    total - duplicates,
		DuplicateCVs: duplicates,
	}
	if total > 0 {
		stats.DuplicatePercentage = float64(duplicates) / float64(total) * 100
	}
	return stats, nil
}

// ReprocessResult summarizes one bulk reprocessing pass.
type ReprocessResult struct {
	Processed       int `json:"processed"`
	DuplicatesFound int `json:"duplicatesFound"`
}

// Reprocess replays duplicate detection over the full corpus in creation
// order, skipping records already marked duplicate. Records found clean are
// restored to Shortlisted or Rejected based solely on whether they carry any
// skills, which is coarser than the original criteria evaluation.
func (d *Detector) Reprocess(ctx context.Context) (ReprocessResult, error) {
	telemetry.Info("dedupe.reprocess_start", nil)

	all, err := d.corpus.FindAllByCreation(ctx)
	if err != nil {
		return ReprocessResult{}, err
	}

	var result ReprocessResult
	for i := range all {
		cv := all[i]
		if cv.Status == cvs.StatusDuplicate {
			continue
		}

		cv.Status = cvs.StatusProcessing
		match, err := d.FindDuplicate(ctx, &cv)
		if err != nil {
			return result, err
		}

		// Only an earlier submission can serve as the original; without
		// this the first record of a pair would match its own later copy.
		if match != nil && match.ID != cv.ID && match.CreatedAt.Before(cv.CreatedAt) {
			cv.Status = cvs.StatusDuplicate
			cv.DuplicateOfID = match.ID
			cv.SimilarityScore = SimilarityScore(&cv, match)
			result.DuplicatesFound++
		} else if len(cv.Skills) > 0 {
			cv.Status = cvs.StatusShortlisted
		} else {
			cv.Status = cvs.StatusRejected
		}

		if err := d.corpus.Update(ctx, &cv); err != nil {
			return result, err
		}
		result.Processed++
	}

	telemetry.Info("dedupe.reprocess_done", map[string]any{
		"processed":  result.Processed,
		"duplicates": result.DuplicatesFound,
	})
	return result, nil
}
