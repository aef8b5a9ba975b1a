package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"exam-session-service/internal/domain"
)

func TestProviderFetchesRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("examId"); got != "exam-1" {
			t.Errorf("expected examId query param, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"questions": []map[string]interface{}{
				{"Question": "What is 2 + 2?", "Option A": "3", "Option B": "4", "Answer": "B"},
			},
		})
	}))
	defer server.Close()

	records, err := NewProvider(server.URL).FetchRecords(context.Background(), "exam-1")
	if err != nil {
		t.Fatalf("fetch records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0]["Question"] != "What is 2 + 2?" {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestProviderRejectsFailureResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "sheet missing"})
	}))
	defer server.Close()

	if _, err := NewProvider(server.URL).FetchRecords(context.Background(), "exam-1"); err == nil {
		t.Fatalf("expected error on success=false")
	}
}

func TestProviderRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := NewProvider(server.URL).FetchRecords(context.Background(), "exam-1"); err == nil {
		t.Fatalf("expected error on 500")
	}
}

func TestReporterPostsResult(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer server.Close()

	result := domain.Result{TestID: "EXM-00000001", ExamID: "exam-1", NetMarks: 0.75}
	if err := NewReporter(server.URL).Report(context.Background(), result); err != nil {
		t.Fatalf("report: %v", err)
	}

	if gotContentType != "text/plain;charset=utf-8" {
		t.Fatalf("expected text/plain content type, got %q", gotContentType)
	}
	var decoded domain.Result
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("decode posted body: %v", err)
	}
	if decoded.TestID != "EXM-00000001" || decoded.NetMarks != 0.75 {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}

func TestReporterSurfacesBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	if err := NewReporter(server.URL).Report(context.Background(), domain.Result{}); err == nil {
		t.Fatalf("expected error on 502")
	}
}
