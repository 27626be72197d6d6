// Package organizer relocates processed resume files into per-status output
// directories. Failures here are logged by callers and never affect record
// status or batch outcome.
package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cv-shortlisting-backend/internal/cvs"
	"cv-shortlisting-backend/internal/shared/telemetry"
)

// Config controls where processed files are moved.
type Config struct {
	Enabled        bool
	BaseDir        string
	ShortlistedDir string
	DuplicatesDir  string
	OthersDir      string
	ErrorsDir      string
	DateFolders    bool
}

// Organizer moves source files into status directories after commit.
type Organizer struct {
	cfg Config
	now func() time.Time
}

// New constructs an Organizer, deriving per-status directories from BaseDir
// when not set explicitly.
func New(cfg Config) *Organizer {
	if cfg.BaseDir == "" {
		cfg.BaseDir = "./data/output"
	}
	if cfg.ShortlistedDir == "" {
		cfg.ShortlistedDir = filepath.Join(cfg.BaseDir, "shortlisted")
	}
	if cfg.DuplicatesDir == "" {
		cfg.DuplicatesDir = filepath.Join(cfg.BaseDir, "duplicates")
	}
	if cfg.OthersDir == "" {
		cfg.OthersDir = filepath.Join(cfg.BaseDir, "others")
	}
	if cfg.ErrorsDir == "" {
		cfg.ErrorsDir = filepath.Join(cfg.BaseDir, "errors")
	}
	return &Organizer{cfg: cfg, now: time.Now}
}

// InitDirs creates the output directory tree up front.
func (o *Organizer) InitDirs() error {
	for _, dir := range []string{o.cfg.BaseDir, o.cfg.ShortlistedDir, o.cfg.DuplicatesDir, o.cfg.OthersDir, o.cfg.ErrorsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("init organizer dir %s: %w", dir, err)
		}
	}
	return nil
}

// Organize moves the record's source file into the directory for its status.
// A missing source file is not an error; the record may have been organized
// already.
func (o *Organizer) Organize(cv *cvs.CV) error {
	if !o.cfg.Enabled {
		return nil
	}
	if cv.FilePath == "" {
		telemetry.Info("organizer.skip_no_path", map[string]any{"file": cv.FileName})
		return nil
	}
	if _, err := os.Stat(cv.FilePath); err != nil {
		telemetry.Info("organizer.skip_missing_source", map[string]any{"path": cv.FilePath})
		return nil
	}

	target := o.targetDir(cv.Status)
	if o.cfg.DateFolders {
		target = filepath.Join(target, o.now().Format("2006-01-02"))
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("organize %s: %w", cv.FileName, err)
	}

	dest := resolveConflict(filepath.Join(target, cv.FileName))
	if err := os.Rename(cv.FilePath, dest); err != nil {
		return fmt.Errorf("organize %s: %w", cv.FileName, err)
	}

	telemetry.Info("organizer.moved", map[string]any{"file": cv.FileName, "dest": dest})
	return nil
}

func (o *Organizer) targetDir(status cvs.Status) string {
	switch status {
	case cvs.StatusShortlisted:
		return o.cfg.ShortlistedDir
	case cvs.StatusDuplicate:
		return o.cfg.DuplicatesDir
	case cvs.StatusError:
		return o.cfg.ErrorsDir
	default:
		return o.cfg.OthersDir
	}
}

// resolveConflict appends _N before the extension until the path is free.
func resolveConflict(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; i < 1000; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
	return path
}
