package dedupe

import (
	"context"
	"testing"

	"cv-shortlisting-backend/internal/cvs"
)

func TestReprocessFlagsLaterCopyOnly(t *testing.T) {
	repo := cvs.NewMemoryRepo()
	seed(t, repo,
		&cvs.CV{
			ID:     "original",
			Email:  "jane@example.com",
			Status: cvs.StatusShortlisted,
			Skills: []string{"java"},
		},
		&cvs.CV{
			ID:     "copy",
			Email:  "jane@example.com",
			Status: cvs.StatusShortlisted,
			Skills: []string{"java"},
		},
	)

	d := New(repo, DefaultThresholds())
	result, err := d.Reprocess(context.Background())
	if err != nil {
		t.Fatalf("Reprocess: %v", err)
	}
	if result.Processed != 2 || result.DuplicatesFound != 1 {
		t.Fatalf("result = %+v, want processed 2, duplicates 1", result)
	}

	original, err := repo.GetByID(context.Background(), "original")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if original.Status != cvs.StatusShortlisted {
		t.Fatalf("original status = %s, want SHORTLISTED", original.Status)
	}

	copyCV, err := repo.GetByID(context.Background(), "copy")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if copyCV.Status != cvs.StatusDuplicate {
		t.Fatalf("copy status = %s, want DUPLICATE", copyCV.Status)
	}
	if copyCV.DuplicateOfID != "original" {
		t.Fatalf("copy DuplicateOfID = %q, want original", copyCV.DuplicateOfID)
	}
	if copyCV.SimilarityScore <= 0 {
		t.Fatalf("copy SimilarityScore = %v, want > 0", copyCV.SimilarityScore)
	}
}

func TestReprocessRestoresCleanRecordsBySkills(t *testing.T) {
	repo := cvs.NewMemoryRepo()
	seed(t, repo,
		&cvs.CV{
			ID:     "skilled",
			Email:  "a@example.com",
			Status: cvs.StatusRejected,
			Skills: []string{"java", "spring"},
		},
		&cvs.CV{
			ID:     "unskilled",
			Email:  "b@example.com",
			Status: cvs.StatusShortlisted,
		},
	)

	d := New(repo, DefaultThresholds())
	if _, err := d.Reprocess(context.Background()); err != nil {
		t.Fatalf("Reprocess: %v", err)
	}

	skilled, _ := repo.GetByID(context.Background(), "skilled")
	if skilled.Status != cvs.StatusShortlisted {
		t.Fatalf("skilled status = %s, want SHORTLISTED", skilled.Status)
	}
	unskilled, _ := repo.GetByID(context.Background(), "unskilled")
	if unskilled.Status != cvs.StatusRejected {
		t.Fatalf("unskilled status = %s, want REJECTED", unskilled.Status)
	}
}

func TestReprocessSkipsExistingDuplicates(t *testing.T) {
	repo := cvs.NewMemoryRepo()
	seed(t, repo,
		&cvs.CV{
			ID:            "dup",
			Email:         "c@example.com",
			Status:        cvs.StatusDuplicate,
			DuplicateOfID: "gone",
		},
	)

	d := New(repo, DefaultThresholds())
	result, err := d.Reprocess(context.Background())
	if err != nil {
		t.Fatalf("Reprocess: %v", err)
	}
	if result.Processed != 0 {
		t.Fatalf("processed = %d, want 0", result.Processed)
	}
}

func TestCorpusStats(t *testing.T) {
	repo := cvs.NewMemoryRepo()
	seed(t, repo,
		&cvs.CV{ID: "a", Status: cvs.StatusShortlisted},
		&cvs.CV{ID: "b", Status: cvs.StatusDuplicate},
		&cvs.CV{ID: "c", Status: cvs.StatusRejected},
		&cvs.CV{ID: "d", Status: cvs.StatusDuplicate},
	)

	d := New(repo, DefaultThresholds())
	stats, err := d.CorpusStats(context.Background())
	if err != nil {
		t.Fatalf("CorpusStats: %v", err)
	}
	if stats.TotalCVs != 4 || stats.UniqueCVs != 2 || stats.DuplicateCVs != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.DuplicatePercentage != 50 {
		t.Fatalf("percentage = %v, want 50", stats.DuplicatePercentage)
	}
}
