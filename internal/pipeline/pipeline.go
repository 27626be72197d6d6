// Package pipeline drives batches of resume files through extraction,
// evaluation, duplicate detection, and chunked persistence with bounded
// concurrency and partial-failure tolerance.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"cv-shortlisting-backend/internal/cvs"
	"cv-shortlisting-backend/internal/dedupe"
	"cv-shortlisting-backend/internal/extract"
	"cv-shortlisting-backend/internal/identity"
	"cv-shortlisting-backend/internal/matching"
	"cv-shortlisting-backend/internal/organizer"
	"cv-shortlisting-backend/internal/shared/telemetry"
	"cv-shortlisting-backend/internal/skills"
)

var (
	// ErrInvalidDirectory is a configuration error: nothing is processed.
	ErrInvalidDirectory = errors.New("invalid input directory")
	// ErrSkipLimitExceeded aborts a batch after too many per-item failures.
	ErrSkipLimitExceeded = errors.New("skip limit exceeded")
	// ErrNoFiles indicates the directory held no supported documents.
	ErrNoFiles = errors.New("no supported files in directory")
)

const (
	defaultChunkSize = 10
	defaultSkipLimit = 50
	minWorkers       = 2
	maxWorkers       = 20
)

// Options tunes batch execution. Zero values select the defaults.
type Options struct {
	ChunkSize   int
	WorkerLimit int
	SkipLimit   int
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = defaultChunkSize
	}
	if o.WorkerLimit <= 0 {
		o.WorkerLimit = 2 * runtime.NumCPU()
	}
	if o.WorkerLimit < minWorkers {
		o.WorkerLimit = minWorkers
	}
	if o.WorkerLimit > maxWorkers {
		o.WorkerLimit = maxWorkers
	}
	if o.SkipLimit <= 0 {
		o.SkipLimit = defaultSkipLimit
	}
	return o
}

// Stats aggregates one ingestion run.
type Stats struct {
	BatchID                 string  `json:"batchId"`
	TotalCVs                int     `json:"totalCVs"`
	Shortlisted             int     `json:"shortlisted"`
	Duplicates              int     `json:"duplicates"`
	Rejected                int     `json:"rejected"`
	Errors                  int     `json:"errors"`
	AverageProcessingTimeMs float64 `json:"averageProcessingTimeMs"`
	ThroughputPerSecond     float64 `json:"throughputPerSecond"`
}

// Runner orchestrates the ingestion pipeline. The taxonomy and criteria are
// read-only for the duration of a batch and shared across workers without
// locking; the Runner is the sole writer of record status.
type Runner struct {
	repo      cvs.Repo
	taxonomy  *skills.Taxonomy
	criteria  matching.Config
	detector  *dedupe.Detector
	organizer *organizer.Organizer
	opts      Options
	processor string
}

// New constructs a Runner. The organizer may be nil when file organization
// is disabled.
func New(repo cvs.Repo, taxonomy *skills.Taxonomy, criteria matching.Config, detector *dedupe.Detector, org *organizer.Organizer, opts Options) *Runner {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "ingest"
	}
	return &Runner{
		repo:      repo,
		taxonomy:  taxonomy,
		criteria:  criteria,
		detector:  detector,
		organizer: org,
		opts:      opts.withDefaults(),
		processor: host,
	}
}

// ProcessDirectory runs one batch over every supported file in dir. Files
// are processed in chunks; within a chunk items run concurrently, chunks
// commit serially in enumeration order. Per-item failures are absorbed into
// Error records until the skip limit is exceeded.
func (r *Runner) ProcessDirectory(ctx context.Context, dir string) (Stats, error) {
	files, err := enumerateFiles(dir)
	if err != nil {
		return Stats{}, err
	}
	return r.run(ctx, dir, files, newBatchID())
}

// StartDirectory validates dir up front, then runs the batch in the
// background. Configuration errors surface to the caller before any work
// begins; the returned batch id identifies the run for later queries.
func (r *Runner) StartDirectory(dir string) (string, error) {
	files, err := enumerateFiles(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", ErrNoFiles
	}

	batchID := newBatchID()
	go func() {
		if _, err := r.run(context.Background(), dir, files, batchID); err != nil {
			telemetry.Error("pipeline.batch_failed", map[string]any{
				"batch_id": batchID,
				"error":    err.Error(),
			})
		}
	}()
	return batchID, nil
}

func (r *Runner) run(ctx context.Context, dir string, files []string, batchID string) (Stats, error) {
	telemetry.Info("pipeline.batch_start", map[string]any{
		"batch_id": batchID,
		"dir":      dir,
		"files":    len(files),
		"chunk":    r.opts.ChunkSize,
		"workers":  r.opts.WorkerLimit,
	})
	if len(files) == 0 {
		return Stats{BatchID: batchID}, ErrNoFiles
	}

	start := time.Now()
	var committed []*cvs.CV
	skipped := 0

	for chunkStart := 0; chunkStart < len(files); chunkStart += r.opts.ChunkSize {
		end := chunkStart + r.opts.ChunkSize
		if end > len(files) {
			end = len(files)
		}

		chunk, err := r.processChunk(ctx, files[chunkStart:end], batchID)
		if err != nil {
			return statsFrom(batchID, committed, time.Since(start)), err
		}

		for _, cv := range chunk {
			if cv.Status == cvs.StatusError {
				skipped++
			}
		}

		persisted, failed := r.commitChunk(ctx, chunk)
		committed = append(committed, persisted...)
		skipped += failed

		r.organizeChunk(persisted)

		if skipped > r.opts.SkipLimit {
			telemetry.Error("pipeline.batch_abort", map[string]any{
				"batch_id": batchID,
				"skipped":  skipped,
				"limit":    r.opts.SkipLimit,
			})
			return statsFrom(batchID, committed, time.Since(start)),
				fmt.Errorf("%w: %d items failed", ErrSkipLimitExceeded, skipped)
		}
	}

	stats := statsFrom(batchID, committed, time.Since(start))
	telemetry.Info("pipeline.batch_done", map[string]any{
		"batch_id":    stats.BatchID,
		"total":       stats.TotalCVs,
		"shortlisted": stats.Shortlisted,
		"duplicates":  stats.Duplicates,
		"rejected":    stats.Rejected,
		"errors":      stats.Errors,
		"throughput":  stats.ThroughputPerSecond,
	})
	return stats, nil
}

// ProcessSingleFile runs the per-item flow for one document and commits it
// immediately under a dedicated batch id.
func (r *Runner) ProcessSingleFile(ctx context.Context, path string) (cvs.CV, error) {
	if !extract.IsSupported(path) {
		return cvs.CV{}, fmt.Errorf("%w: %s", extract.ErrUnsupported, filepath.Ext(path))
	}
	batchID := fmt.Sprintf("single-%d", time.Now().UnixMilli())
	cv := r.processFile(ctx, path, batchID)
	cv.ID = uuid.NewString()
	cv.TruncateContent()
	if err := r.repo.Create(ctx, cv); err != nil {
		return cvs.CV{}, err
	}
	if r.organizer != nil {
		if err := r.organizer.Organize(cv); err != nil {
			telemetry.Warn("pipeline.organize_failed", map[string]any{"file": cv.FileName, "err": err.Error()})
		}
	}
	return *cv, nil
}

// processChunk extracts and evaluates one chunk with bounded concurrency.
// Item failures surface as Error records, never as a group error; only
// context cancellation aborts.
func (r *Runner) processChunk(ctx context.Context, paths []string, batchID string) ([]*cvs.CV, error) {
	records := make([]*cvs.CV, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.WorkerLimit)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = r.processFile(gctx, path, batchID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// processFile runs extraction, identity, skills, criteria, and duplicate
// detection for one document. It never returns an error: failures are
// absorbed into an Error record so operators can audit them.
func (r *Runner) processFile(ctx context.Context, path string, batchID string) *cvs.CV {
	start := time.Now()

	cv := &cvs.CV{
		FileName:    filepath.Base(path),
		FilePath:    path,
		FileType:    extract.FileType(path),
		BatchID:     batchID,
		Status:      cvs.StatusProcessing,
		ProcessedBy: r.processor,
	}
	if info, err := os.Stat(path); err == nil {
		cv.FileSizeBytes = info.Size()
	}

	content, err := extract.File(ctx, path)
	if err != nil {
		r.finishError(cv, err, start)
		return cv
	}
	cv.Content = content

	id := identity.Extract(content)
	cv.Email = id.Email
	cv.PhoneNumber = id.Phone
	cv.FullName = id.Name

	cv.SetSkills(r.taxonomy.Extract(content))

	if r.criteria.Matches(content, cv.Skills) {
		cv.Status = cvs.StatusShortlisted
	} else {
		cv.Status = cvs.StatusRejected
	}

	// Duplicate detection runs before placeholder backfill so sentinel
	// values never collide as exact matches.
	match, err := r.detector.FindDuplicate(ctx, cv)
	if err != nil {
		r.finishError(cv, err, start)
		return cv
	}
	if match != nil {
		cv.Status = cvs.StatusDuplicate
		cv.DuplicateOfID = match.ID
		cv.SimilarityScore = dedupe.SimilarityScore(cv, match)
	}

	backfillIdentity(cv)
	cv.ProcessingTimeMs = time.Since(start).Milliseconds()
	return cv
}

func (r *Runner) finishError(cv *cvs.CV, err error, start time.Time) {
	cv.Status = cvs.StatusError
	cv.ErrorMessage = err.Error()
	backfillIdentity(cv)
	cv.ProcessingTimeMs = time.Since(start).Milliseconds()
	telemetry.Warn("pipeline.item_error", map[string]any{"file": cv.FileName, "err": err.Error()})
}

// commitChunk persists the chunk as one unit. On failure every record is
// marked Error and commit is retried once per record; records that still
// fail are dropped. The failed count covers only records the caller has not
// already counted as skips pre-commit, so one item never contributes two.
func (r *Runner) commitChunk(ctx context.Context, chunk []*cvs.CV) (persisted []*cvs.CV, failed int) {
	preErrored := make([]bool, len(chunk))
	for i, cv := range chunk {
		cv.ID = uuid.NewString()
		cv.TruncateContent()
		preErrored[i] = cv.Status == cvs.StatusError
	}

	err := r.repo.CreateChunk(ctx, chunk)
	if err == nil {
		return chunk, 0
	}
	telemetry.Error("pipeline.chunk_commit_failed", map[string]any{
		"size": len(chunk),
		"err":  err.Error(),
	})
	for _, cv := range chunk {
		cv.Status = cvs.StatusError
		if cv.ErrorMessage == "" {
			cv.ErrorMessage = "chunk commit failed: " + err.Error()
		}
	}

	for i, cv := range chunk {
		if err := r.repo.Create(ctx, cv); err != nil {
			telemetry.Error("pipeline.record_commit_failed", map[string]any{
				"file": cv.FileName,
				"err":  err.Error(),
			})
			if !preErrored[i] {
				failed++
			}
			continue
		}
		persisted = append(persisted, cv)
	}
	return persisted, failed
}

// organizeChunk relocates source files post-commit. Failures are logged and
// never affect the batch.
func (r *Runner) organizeChunk(records []*cvs.CV) {
	if r.organizer == nil {
		return
	}
	for _, cv := range records {
		if err := r.organizer.Organize(cv); err != nil {
			telemetry.Warn("pipeline.organize_failed", map[string]any{"file": cv.FileName, "err": err.Error()})
		}
	}
}

// backfillIdentity guarantees non-empty identity fields before persistence:
// a name derived from the filename cascade and sentinel placeholders for
// email and phone.
func backfillIdentity(cv *cvs.CV) {
	name := strings.TrimSpace(cv.FullName)
	if name == "" {
		name = identity.NameFromFilename(cv.FileName)
	}
	if name == "" {
		name = identity.FallbackNameFromFilename(cv.FileName)
	}
	cv.FullName = name

	if cv.Email = strings.TrimSpace(cv.Email); cv.Email == "" {
		cv.Email = identity.PlaceholderEmail
	}
	if cv.PhoneNumber = strings.TrimSpace(cv.PhoneNumber); cv.PhoneNumber == "" {
		cv.PhoneNumber = identity.PlaceholderPhone
	}
}

// enumerateFiles lists supported files directly under dir, sorted by name
// for deterministic chunk ordering. Unsupported files are ignored.
func enumerateFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDirectory, dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidDirectory, dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDirectory, dir, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !extract.IsSupported(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func newBatchID() string {
	return "batch-" + time.Now().Format("2006-01-02-150405") + "-" + uuid.NewString()[:8]
}

// statsFrom aggregates committed records into batch statistics. Elapsed time
// is floored at one second so throughput never blows up on tiny batches.
func statsFrom(batchID string, records []*cvs.CV, elapsed time.Duration) Stats {
	stats := Stats{BatchID: batchID, TotalCVs: len(records)}
	var totalMs int64
	for _, cv := range records {
		switch cv.Status {
		case cvs.StatusShortlisted:
			stats.Shortlisted++
		case cvs.StatusDuplicate:
			stats.Duplicates++
		case cvs.StatusRejected:
			stats.Rejected++
		case cvs.StatusError:
			stats.Errors++
		}
		totalMs += cv.ProcessingTimeMs
	}
	if len(records) > 0 {
		stats.AverageProcessingTimeMs = float64(totalMs) / float64(len(records))
	}
	seconds := elapsed.Seconds()
	if seconds < 1 {
		seconds = 1
	}
	stats.ThroughputPerSecond = float64(len(records)) / seconds
	return stats
}
