package cvs

import (
	"context"
	"errors"
	"testing"
)

func seedService(t *testing.T) (*Service, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	records := []*CV{
		{ID: "cv-1", FullName: "John Doe", Status: StatusShortlisted, Skills: []string{"java", "spring"}, BatchID: "batch-1"},
		{ID: "cv-2", FullName: "Jane Smith", Status: StatusShortlisted, Skills: []string{"python"}, BatchID: "batch-1"},
		{ID: "cv-3", FullName: "John Doe", Status: StatusDuplicate, DuplicateOfID: "cv-1", BatchID: "batch-2"},
		{ID: "cv-4", FullName: "No Skills", Status: StatusRejected, BatchID: "batch-2"},
	}
	for _, cv := range records {
		if err := repo.Create(context.Background(), cv); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return &Service{Repo: repo}, repo
}

func TestListShortlistedWithSkillFilter(t *testing.T) {
	svc, _ := seedService(t)

	all, err := svc.ListShortlisted(context.Background(), "", 0, 0)
	if err != nil {
		t.Fatalf("ListShortlisted: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d shortlisted, want 2", len(all))
	}

	javaOnly, err := svc.ListShortlisted(context.Background(), "Java", 0, 0)
	if err != nil {
		t.Fatalf("ListShortlisted: %v", err)
	}
	if len(javaOnly) != 1 || javaOnly[0].ID != "cv-1" {
		t.Fatalf("filtered = %v", javaOnly)
	}
}

func TestListDuplicates(t *testing.T) {
	svc, _ := seedService(t)
	dups, err := svc.ListDuplicates(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("ListDuplicates: %v", err)
	}
	if len(dups) != 1 || dups[0].ID != "cv-3" {
		t.Fatalf("duplicates = %v", dups)
	}
}

func TestListByStatusRejectsUnknown(t *testing.T) {
	svc, _ := seedService(t)
	if _, err := svc.ListByStatus(context.Background(), "NOT_A_STATUS", 0, 0); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestUpdateStatusClearsDuplicateFields(t *testing.T) {
	svc, repo := seedService(t)

	updated, err := svc.UpdateStatus(context.Background(), "cv-3", "shortlisted")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != StatusShortlisted {
		t.Fatalf("status = %s", updated.Status)
	}
	if updated.DuplicateOfID != "" || updated.SimilarityScore != 0 {
		t.Fatalf("duplicate fields not cleared: %+v", updated)
	}

	stored, err := repo.GetByID(context.Background(), "cv-3")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != StatusShortlisted {
		t.Fatalf("stored status = %s", stored.Status)
	}
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	svc, _ := seedService(t)
	if _, err := svc.UpdateStatus(context.Background(), "cv-1", "nope"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestDeleteMissing(t *testing.T) {
	svc, _ := seedService(t)
	if err := svc.Delete(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCounts(t *testing.T) {
	svc, _ := seedService(t)
	counts, err := svc.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts.Total != 4 || counts.Shortlisted != 2 || counts.Duplicates != 1 || counts.Rejected != 1 {
		t.Fatalf("counts = %+v", counts)
	}
}

func TestListByBatch(t *testing.T) {
	svc, _ := seedService(t)
	batch, err := svc.ListByBatch(context.Background(), "batch-2")
	if err != nil {
		t.Fatalf("ListByBatch: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("batch records = %d, want 2", len(batch))
	}
}

func TestBatchCounts(t *testing.T) {
	svc, _ := seedService(t)

	counts, err := svc.BatchCounts(context.Background(), "batch-2")
	if err != nil {
		t.Fatalf("BatchCounts: %v", err)
	}
	if counts.Total != 2 || counts.Duplicates != 1 || counts.Rejected != 1 {
		t.Fatalf("counts = %+v", counts)
	}

	empty, err := svc.BatchCounts(context.Background(), "batch-none")
	if err != nil {
		t.Fatalf("BatchCounts: %v", err)
	}
	if empty.Total != 0 {
		t.Fatalf("empty batch Total = %d", empty.Total)
	}
}

func TestSearch(t *testing.T) {
	svc, repo := seedService(t)
	content := &CV{ID: "cv-5", FullName: "Alan Kay", Email: "alan@example.com",
		Content: "Distributed systems in Java.", Status: StatusShortlisted, BatchID: "batch-3"}
	if err := repo.Create(context.Background(), content); err != nil {
		t.Fatalf("seed: %v", err)
	}

	byName, err := svc.Search(context.Background(), "john", "", 0, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(byName) != 2 {
		t.Fatalf("got %d matches for name, want 2", len(byName))
	}

	narrowed, err := svc.Search(context.Background(), "john", "SHORTLISTED", 0, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(narrowed) != 1 || narrowed[0].ID != "cv-1" {
		t.Fatalf("narrowed = %+v", narrowed)
	}

	byContent, err := svc.Search(context.Background(), "distributed", "", 0, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(byContent) != 1 || byContent[0].ID != "cv-5" {
		t.Fatalf("byContent = %+v", byContent)
	}

	byEmail, err := svc.Search(context.Background(), "alan@", "", 0, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(byEmail) != 1 {
		t.Fatalf("byEmail = %+v", byEmail)
	}
}

func TestSearchRejectsBadInput(t *testing.T) {
	svc, _ := seedService(t)

	if _, err := svc.Search(context.Background(), "  ", "", 0, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty query err = %v", err)
	}
	if _, err := svc.Search(context.Background(), "john", "BOGUS", 0, 0); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("bad status err = %v", err)
	}
}
