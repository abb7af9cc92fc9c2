package meshapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJobStatusParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status/J1" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "completed",
			"result": {
				"mesh_url": "https://cdn.example/tmp/abc.glb",
				"processed_image_url": "https://cdn.example/tmp/abc.png",
				"prompt": "a ceramic teapot"
			}
		}`))
	}))
	defer srv.Close()

	client, err := NewClient(Options{BaseURL: srv.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	st, err := client.JobStatus(context.Background(), "J1")
	if err != nil {
		t.Fatalf("JobStatus: %v", err)
	}
	if st.Status != "completed" {
		t.Fatalf("Status = %q", st.Status)
	}
	if st.Result == nil || st.Result.MeshCandidate() != "https://cdn.example/tmp/abc.glb" {
		t.Fatalf("mesh candidate = %v", st.Result)
	}
	if st.Result.Prompt != "a ceramic teapot" {
		t.Fatalf("Prompt = %q", st.Result.Prompt)
	}
}

func TestJobStatusNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client, err := NewClient(Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.JobStatus(context.Background(), "ghost")
	if !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("err = %v, want ErrJobNotFound", err)
	}
}

func TestJobStatusServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.JobStatus(context.Background(), "J1")
	if err == nil || errors.Is(err, ErrJobNotFound) {
		t.Fatalf("err = %v, want non-404 failure", err)
	}
}

func TestJobStatusMalformedFieldsDegrade(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "processing", "unexpected": {"nested": true}}`))
	}))
	defer srv.Close()

	client, err := NewClient(Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	st, err := client.JobStatus(context.Background(), "J1")
	if err != nil {
		t.Fatalf("JobStatus: %v", err)
	}
	if st.Result != nil || st.Error != "" {
		t.Fatalf("missing fields did not degrade to zero values: %+v", st)
	}
}

func TestJobStatusHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client, err := NewClient(Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.JobStatus(ctx, "J1"); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
