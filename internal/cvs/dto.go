package cvs

import "time"

// CVResponse is the outward-facing representation of a CV record. Extracted
// content is omitted; clients fetch it per record when they need it.
type CVResponse struct {
	ID               string    `json:"id"`
	FullName         string    `json:"fullName"`
	Email            string    `json:"email"`
	PhoneNumber      string    `json:"phoneNumber"`
	FileName         string    `json:"fileName"`
	FileType         string    `json:"fileType"`
	FileSizeBytes    int64     `json:"fileSizeBytes"`
	Status           Status    `json:"status"`
	Skills           []string  `json:"skills"`
	DuplicateOfID    string    `json:"duplicateOfId,omitempty"`
	SimilarityScore  float64   `json:"similarityScore,omitempty"`
	BatchID          string    `json:"batchId"`
	ProcessingTimeMs int64     `json:"processingTimeMs"`
	ErrorMessage     string    `json:"errorMessage,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ListResponse wraps a page of CV records.
type ListResponse struct {
	Items []CVResponse `json:"items"`
	Count int          `json:"count"`
}

func toResponse(cv CV) CVResponse {
	return CVResponse{
		ID:               cv.ID,
		FullName:         cv.FullName,
		Email:            cv.Email,
		PhoneNumber:      cv.PhoneNumber,
		FileName:         cv.FileName,
		FileType:         cv.FileType,
		FileSizeBytes:    cv.FileSizeBytes,
		Status:           cv.Status,
		Skills:           cv.Skills,
		DuplicateOfID:    cv.DuplicateOfID,
		SimilarityScore:  cv.SimilarityScore,
		BatchID:          cv.BatchID,
		ProcessingTimeMs: cv.ProcessingTimeMs,
		ErrorMessage:     cv.ErrorMessage,
		CreatedAt:        cv.CreatedAt,
		UpdatedAt:        cv.UpdatedAt,
	}
}

func toListResponse(records []CV) ListResponse {
	items := make([]CVResponse, 0, len(records))
	for _, cv := range records {
		items = append(items, toResponse(cv))
	}
	return ListResponse{Items: items, Count: len(items)}
}
