package cvs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const cvColumns = `id, full_name, email, phone_number, file_name, file_path, file_size_bytes, file_type, content, status, skills, duplicate_of_id, similarity_score, batch_id, processing_time_ms, error_message, processed_by, created_at, updated_at`

const insertCVQuery = `
INSERT INTO cvs (
    id,
    full_name,
    email,
    phone_number,
    file_name,
    file_path,
    file_size_bytes,
    file_type,
    content,
    status,
    skills,
    duplicate_of_id,
    similarity_score,
    batch_id,
    processing_time_ms,
    error_message,
    processed_by,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

// Create inserts a single CV record.
func (r *PGRepo) Create(ctx context.Context, cv *CV) error {
	stampForInsert(cv)
	_, err := r.DB.ExecContext(ctx, insertCVQuery, insertArgs(cv)...)
	return err
}

// CreateChunk inserts all records inside one transaction.
func (r *PGRepo) CreateChunk(ctx context.Context, chunk []*CV) error {
	if len(chunk) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin chunk tx: %w", err)
	}
	for _, cv := range chunk {
		stampForInsert(cv)
		if _, err := tx.ExecContext(ctx, insertCVQuery, insertArgs(cv)...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert chunk record %s: %w", cv.FileName, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit chunk: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of an existing record.
func (r *PGRepo) Update(ctx context.Context, cv *CV) error {
	const query = `
UPDATE cvs
SET status = $1,
    skills = $2,
    duplicate_of_id = $3,
    similarity_score = $4,
    processing_time_ms = $5,
    error_message = $6,
    updated_at = $7
WHERE id = $8`
	cv.UpdatedAt = time.Now().UTC()
	res, err := r.DB.ExecContext(
		ctx,
		query,
		string(cv.Status),
		strings.Join(cv.Skills, ","),
		nullString(cv.DuplicateOfID),
		cv.SimilarityScore,
		cv.ProcessingTimeMs,
		nullString(cv.ErrorMessage),
		cv.UpdatedAt,
		cv.ID,
	)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID fetches one record.
func (r *PGRepo) GetByID(ctx context.Context, id string) (CV, error) {
	query := `SELECT ` + cvColumns + ` FROM cvs WHERE id = $1 LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, id)
	cv, err := scanCV(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CV{}, ErrNotFound
		}
		return CV{}, err
	}
	return cv, nil
}

// Delete removes a record by id.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM cvs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByStatus lists records in a given status, oldest first.
func (r *PGRepo) FindByStatus(ctx context.Context, status Status, limit, offset int) ([]CV, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + cvColumns + ` FROM cvs WHERE status = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCVs(rows)
}

// Search matches the query against name, email, and extracted content,
// case-insensitively. An empty status matches every state.
func (r *PGRepo) Search(ctx context.Context, query string, status Status, limit, offset int) ([]CV, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	q := `SELECT ` + cvColumns + ` FROM cvs
WHERE (full_name ILIKE $1 OR email ILIKE $1 OR content ILIKE $1)
  AND ($2 = '' OR status = $2)
ORDER BY created_at ASC LIMIT $3 OFFSET $4`
	pattern := "%" + strings.TrimSpace(query) + "%"
	rows, err := r.DB.QueryContext(ctx, q, pattern, string(status), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCVs(rows)
}

// FindByBatchID lists every record committed under a batch.
func (r *PGRepo) FindByBatchID(ctx context.Context, batchID string) ([]CV, error) {
	query := `SELECT ` + cvColumns + ` FROM cvs WHERE batch_id = $1 ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCVs(rows)
}

// FindByEmail matches stored emails case-insensitively, oldest first.
func (r *PGRepo) FindByEmail(ctx context.Context, email string) ([]CV, error) {
	query := `SELECT ` + cvColumns + ` FROM cvs WHERE LOWER(email) = LOWER($1) ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCVs(rows)
}

// FindNonDuplicatesByCreation returns every non-duplicate record in creation order.
func (r *PGRepo) FindNonDuplicatesByCreation(ctx context.Context) ([]CV, error) {
	query := `SELECT ` + cvColumns + ` FROM cvs WHERE status != 'DUPLICATE' ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCVs(rows)
}

// FindAllByCreation returns the full corpus in creation order.
func (r *PGRepo) FindAllByCreation(ctx context.Context) ([]CV, error) {
	query := `SELECT ` + cvColumns + ` FROM cvs ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCVs(rows)
}

// Count returns the total number of records.
func (r *PGRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM cvs`).Scan(&n)
	return n, err
}

// CountByStatus returns the number of records in a status.
func (r *PGRepo) CountByStatus(ctx context.Context, status Status) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM cvs WHERE status = $1`, string(status)).Scan(&n)
	return n, err
}

func stampForInsert(cv *CV) {
	now := time.Now().UTC()
	if cv.CreatedAt.IsZero() {
		cv.CreatedAt = now
	}
	cv.UpdatedAt = now
}

func insertArgs(cv *CV) []any {
	return []any{
		cv.ID,
		cv.FullName,
		nullString(cv.Email),
		nullString(cv.PhoneNumber),
		cv.FileName,
		cv.FilePath,
		cv.FileSizeBytes,
		cv.FileType,
		cv.Content,
		string(cv.Status),
		strings.Join(cv.Skills, ","),
		nullString(cv.DuplicateOfID),
		cv.SimilarityScore,
		cv.BatchID,
		cv.ProcessingTimeMs,
		nullString(cv.ErrorMessage),
		nullString(cv.ProcessedBy),
		cv.CreatedAt,
		cv.UpdatedAt,
	}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCV(row rowScanner) (CV, error) {
	var cv CV
	var email, phone, dupOf, errMsg, processedBy sql.NullString
	var status, skills string
	if err := row.Scan(
		&cv.ID,
		&cv.FullName,
		&email,
		&phone,
		&cv.FileName,
		&cv.FilePath,
		&cv.FileSizeBytes,
		&cv.FileType,
		&cv.Content,
		&status,
		&skills,
		&dupOf,
		&cv.SimilarityScore,
		&cv.BatchID,
		&cv.ProcessingTimeMs,
		&errMsg,
		&processedBy,
		&cv.CreatedAt,
		&cv.UpdatedAt,
	); err != nil {
		return CV{}, err
	}
	cv.Status = Status(status)
	if skills != "" {
		cv.Skills = strings.Split(skills, ",")
	}
	if email.Valid {
		cv.Email = email.String
	}
	if phone.Valid {
		cv.PhoneNumber = phone.String
	}
	if dupOf.Valid {
		cv.DuplicateOfID = dupOf.String
	}
	if errMsg.Valid {
		cv.ErrorMessage = errMsg.String
	}
	if processedBy.Valid {
		cv.ProcessedBy = processedBy.String
	}
	return cv, nil
}

func collectCVs(rows *sql.Rows) ([]CV, error) {
	var out []CV
	for rows.Next() {
		cv, err := scanCV(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cv)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
