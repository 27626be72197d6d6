package cvs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) (*gin.Engine, *MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewMemoryRepo()
	handler := NewHandler(&Service{Repo: repo})

	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)
	return router, repo
}

func TestShortlistedEndpoint(t *testing.T) {
	router, repo := newTestRouter(t)
	seed := []*CV{
		{ID: "cv-1", FullName: "John Doe", Status: StatusShortlisted, Skills: []string{"java"}},
		{ID: "cv-2", FullName: "Jane Smith", Status: StatusRejected},
	}
	for _, cv := range seed {
		if err := repo.Create(context.Background(), cv); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cvs/shortlisted", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}

	var body ListResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Count != 1 || body.Items[0].ID != "cv-1" {
		t.Fatalf("body = %+v", body)
	}
}

func TestGetEndpointNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cvs/ghost", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.Code)
	}
}

func TestUpdateStatusEndpoint(t *testing.T) {
	router, repo := newTestRouter(t)
	if err := repo.Create(context.Background(), &CV{ID: "cv-1", Status: StatusRejected}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/cvs/cv-1/status",
		strings.NewReader(`{"status":"SHORTLISTED"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}

	stored, err := repo.GetByID(context.Background(), "cv-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != StatusShortlisted {
		t.Fatalf("stored status = %s", stored.Status)
	}
}

func TestUpdateStatusEndpointRejectsUnknown(t *testing.T) {
	router, repo := newTestRouter(t)
	if err := repo.Create(context.Background(), &CV{ID: "cv-1", Status: StatusRejected}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/cvs/cv-1/status",
		strings.NewReader(`{"status":"WONDERFUL"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestDeleteEndpoint(t *testing.T) {
	router, repo := newTestRouter(t)
	if err := repo.Create(context.Background(), &CV{ID: "cv-1", Status: StatusRejected}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cvs/cv-1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.Code)
	}
	if _, err := repo.GetByID(context.Background(), "cv-1"); err == nil {
		t.Fatal("record still present after delete")
	}
}

func TestStatsEndpoint(t *testing.T) {
	router, repo := newTestRouter(t)
	for _, cv := range []*CV{
		{ID: "a", Status: StatusShortlisted},
		{ID: "b", Status: StatusDuplicate},
	} {
		if err := repo.Create(context.Background(), cv); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cvs/stats", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}

	var counts StatusCounts
	if err := json.Unmarshal(resp.Body.Bytes(), &counts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if counts.Total != 2 || counts.Shortlisted != 1 || counts.Duplicates != 1 {
		t.Fatalf("counts = %+v", counts)
	}
}

func TestSearchEndpoint(t *testing.T) {
	router, repo := newTestRouter(t)
	seed := []*CV{
		{ID: "cv-1", FullName: "John Doe", Status: StatusShortlisted},
		{ID: "cv-2", FullName: "Jane Smith", Email: "jane@example.com", Status: StatusRejected},
	}
	for _, cv := range seed {
		if err := repo.Create(context.Background(), cv); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cvs/search?query=jane", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
	var body ListResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Count != 1 || body.Items[0].ID != "cv-2" {
		t.Fatalf("body = %+v", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cvs/search?query=jane&status=SHORTLISTED", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	body = ListResponse{}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Count != 0 {
		t.Fatalf("narrowed body = %+v", body)
	}
}

func TestSearchEndpointRequiresQuery(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cvs/search", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.Code)
	}
}
