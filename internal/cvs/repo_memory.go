package cvs

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo used for dev mode and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]CV
	seq  int64
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]CV)}
}

// Create stores one record.
func (r *MemoryRepo) Create(ctx context.Context, cv *CV) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertLocked(cv)
	return nil
}

// CreateChunk stores all records; the in-memory store has no partial failure mode.
func (r *MemoryRepo) CreateChunk(ctx context.Context, chunk []*CV) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cv := range chunk {
		r.insertLocked(cv)
	}
	return nil
}

// insertLocked stamps timestamps and stores a copy. The sequence number keeps
// creation order stable even when timestamps collide within a batch.
func (r *MemoryRepo) insertLocked(cv *CV) {
	now := time.Now().UTC()
	if cv.CreatedAt.IsZero() {
		cv.CreatedAt = now
	}
	cv.UpdatedAt = now
	r.seq++
	stored := *cv
	stored.CreatedAt = stored.CreatedAt.Add(time.Duration(r.seq) * time.Nanosecond)
	cv.CreatedAt = stored.CreatedAt
	r.data[stored.ID] = stored
}

// Update rewrites an existing record.
func (r *MemoryRepo) Update(ctx context.Context, cv *CV) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[cv.ID]
	if !ok {
		return ErrNotFound
	}
	cv.CreatedAt = existing.CreatedAt
	cv.UpdatedAt = time.Now().UTC()
	r.data[cv.ID] = *cv
	return nil
}

// GetByID fetches one record.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (CV, error) {
	if err := ctx.Err(); err != nil {
		return CV{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cv, ok := r.data[id]
	if !ok {
		return CV{}, ErrNotFound
	}
	return cv, nil
}

// Delete removes a record.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// FindByStatus lists records in a status, oldest first.
func (r *MemoryRepo) FindByStatus(ctx context.Context, status Status, limit, offset int) ([]CV, error) {
	all, err := r.snapshot(ctx, func(cv CV) bool { return cv.Status == status })
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []CV{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

// Search scans name, email, and content for the query, case-insensitively.
// An empty status matches every state.
func (r *MemoryRepo) Search(ctx context.Context, query string, status Status, limit, offset int) ([]CV, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	all, err := r.snapshot(ctx, func(cv CV) bool {
		if status != "" && cv.Status != status {
			return false
		}
		return strings.Contains(strings.ToLower(cv.FullName), needle) ||
			strings.Contains(strings.ToLower(cv.Email), needle) ||
			strings.Contains(strings.ToLower(cv.Content), needle)
	})
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []CV{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

// FindByBatchID lists every record in a batch in creation order.
func (r *MemoryRepo) FindByBatchID(ctx context.Context, batchID string) ([]CV, error) {
	return r.snapshot(ctx, func(cv CV) bool { return cv.BatchID == batchID })
}

// FindByEmail matches emails case-insensitively, oldest first.
func (r *MemoryRepo) FindByEmail(ctx context.Context, email string) ([]CV, error) {
	needle := strings.ToLower(strings.TrimSpace(email))
	return r.snapshot(ctx, func(cv CV) bool {
		return cv.Email != "" && strings.ToLower(cv.Email) == needle
	})
}

// FindNonDuplicatesByCreation returns non-duplicate records in creation order.
func (r *MemoryRepo) FindNonDuplicatesByCreation(ctx context.Context) ([]CV, error) {
	return r.snapshot(ctx, func(cv CV) bool { return cv.Status != StatusDuplicate })
}

// FindAllByCreation returns the full corpus in creation order.
func (r *MemoryRepo) FindAllByCreation(ctx context.Context) ([]CV, error) {
	return r.snapshot(ctx, func(cv CV) bool { return true })
}

// Count returns the total number of records.
func (r *MemoryRepo) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.data)), nil
}

// CountByStatus returns the number of records in a status.
func (r *MemoryRepo) CountByStatus(ctx context.Context, status Status) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, cv := range r.data {
		if cv.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) snapshot(ctx context.Context, keep func(CV) bool) ([]CV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]CV, 0, len(r.data))
	for _, cv := range r.data {
		if keep(cv) {
			out = append(out, cv)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
