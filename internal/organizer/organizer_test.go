package organizer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cv-shortlisting-backend/internal/cvs"
)

func newTestOrganizer(t *testing.T) (*Organizer, string) {
	t.Helper()
	base := t.TempDir()
	org := New(Config{Enabled: true, BaseDir: base})
	org.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }
	if err := org.InitDirs(); err != nil {
		t.Fatalf("InitDirs: %v", err)
	}
	return org, base
}

func writeSource(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("content"), 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestOrganizeMovesByStatus(t *testing.T) {
	org, base := newTestOrganizer(t)
	src := t.TempDir()

	cases := []struct {
		status cvs.Status
		subdir string
	}{
		{cvs.StatusShortlisted, "shortlisted"},
		{cvs.StatusDuplicate, "duplicates"},
		{cvs.StatusRejected, "others"},
		{cvs.StatusError, "errors"},
	}
	for _, tc := range cases {
		name := string(tc.status) + ".txt"
		path := writeSource(t, src, name)
		cv := &cvs.CV{FileName: name, FilePath: path, Status: tc.status}
		if err := org.Organize(cv); err != nil {
			t.Fatalf("Organize(%s): %v", tc.status, err)
		}
		dest := filepath.Join(base, tc.subdir, name)
		if _, err := os.Stat(dest); err != nil {
			t.Fatalf("expected %s to exist: %v", dest, err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("source %s still present", path)
		}
	}
}

func TestOrganizeDateFolders(t *testing.T) {
	base := t.TempDir()
	org := New(Config{Enabled: true, BaseDir: base, DateFolders: true})
	org.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }
	if err := org.InitDirs(); err != nil {
		t.Fatalf("InitDirs: %v", err)
	}

	src := t.TempDir()
	path := writeSource(t, src, "cv.txt")
	cv := &cvs.CV{FileName: "cv.txt", FilePath: path, Status: cvs.StatusShortlisted}
	if err := org.Organize(cv); err != nil {
		t.Fatalf("Organize: %v", err)
	}
	dest := filepath.Join(base, "shortlisted", "2026-08-31", "cv.txt")
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("expected %s to exist: %v", dest, err)
	}
}

func TestOrganizeResolvesNameConflicts(t *testing.T) {
	org, base := newTestOrganizer(t)
	src := t.TempDir()

	for i := 0; i < 2; i++ {
		path := writeSource(t, src, "cv.txt")
		cv := &cvs.CV{FileName: "cv.txt", FilePath: path, Status: cvs.StatusShortlisted}
		if err := org.Organize(cv); err != nil {
			t.Fatalf("Organize #%d: %v", i, err)
		}
	}

	if _, err := os.Stat(filepath.Join(base, "shortlisted", "cv.txt")); err != nil {
		t.Fatalf("first copy missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "shortlisted", "cv_1.txt")); err != nil {
		t.Fatalf("conflict copy missing: %v", err)
	}
}

func TestOrganizeMissingSourceIsNotAnError(t *testing.T) {
	org, _ := newTestOrganizer(t)
	cv := &cvs.CV{FileName: "gone.txt", FilePath: "/nonexistent/gone.txt", Status: cvs.StatusShortlisted}
	if err := org.Organize(cv); err != nil {
		t.Fatalf("Organize: %v", err)
	}
}

func TestOrganizeDisabledIsNoOp(t *testing.T) {
	org := New(Config{Enabled: false, BaseDir: t.TempDir()})
	src := t.TempDir()
	path := writeSource(t, src, "cv.txt")
	cv := &cvs.CV{FileName: "cv.txt", FilePath: path, Status: cvs.StatusShortlisted}
	if err := org.Organize(cv); err != nil {
		t.Fatalf("Organize: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("disabled organizer moved the file: %v", err)
	}
}
