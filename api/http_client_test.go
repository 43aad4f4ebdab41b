package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/spynter/hub360/tour"
)

func demoTour() *tour.Tour {
	return &tour.Tour{
		ID:   "t1",
		Name: "demo",
		Scenes: []tour.Scene{
			{ID: "s0", Name: "lobby", Image: "/uploads/lobby.jpg", Hotspots: []tour.Hotspot{}},
			{ID: "s1", Name: "hall", Image: "/uploads/hall.jpg", Hotspots: []tour.Hotspot{}},
		},
	}
}

func TestFetchTour(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/tours/t1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(demoTour())
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	got, err := c.FetchTour(context.Background(), "t1")
	if err != nil {
		t.Fatalf("FetchTour: %v", err)
	}
	if got.ID != "t1" || len(got.Scenes) != 2 {
		t.Errorf("fetched tour = %+v, want t1 with 2 scenes", got)
	}
}

func TestFetchTourServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.FetchTour(context.Background(), "t1")
	var perr *tour.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *tour.PersistenceError", err)
	}
}

func TestReplaceTourSendsDocument(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/tours/t1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write(gotBody)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	stored, err := c.ReplaceTour(context.Background(), "t1", demoTour())
	if err != nil {
		t.Fatalf("ReplaceTour: %v", err)
	}
	if stored.Name != "demo" {
		t.Errorf("stored tour name = %s, want demo", stored.Name)
	}

	var sent tour.Tour
	if err := json.Unmarshal(gotBody, &sent); err != nil {
		t.Fatalf("request body not a tour: %v", err)
	}
	if len(sent.Scenes) != 2 {
		t.Errorf("sent %d scenes, want 2", len(sent.Scenes))
	}
}

func TestAppendHotspot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/tours/t1/scenes/s0/hotspots" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var h tour.Hotspot
		_ = json.NewDecoder(r.Body).Decode(&h)
		h.ID = "server-assigned"
		_ = json.NewEncoder(w).Encode(h)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	stored, err := c.AppendHotspot(context.Background(), "t1", "s0", tour.Hotspot{
		Type:  tour.HotspotLocation,
		Title: "desk",
		Pitch: 5,
		Yaw:   10,
	})
	if err != nil {
		t.Fatalf("AppendHotspot: %v", err)
	}
	if stored.ID != "server-assigned" || stored.Title != "desk" {
		t.Errorf("stored = %+v, want server-assigned id and title desk", stored)
	}
}

func TestResolveTourByAccessKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/embed/good-key":
			_ = json.NewEncoder(w).Encode(demoTour())
		default:
			http.Error(w, "unknown key", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)

	got, err := c.ResolveTourByAccessKey(context.Background(), "good-key")
	if err != nil {
		t.Fatalf("ResolveTourByAccessKey: %v", err)
	}
	if got.ID != "t1" {
		t.Errorf("resolved tour = %s, want t1", got.ID)
	}

	_, err = c.ResolveTourByAccessKey(context.Background(), "bad-key")
	var perm *tour.PermissionError
	if !errors.As(err, &perm) {
		t.Fatalf("err = %v, want *tour.PermissionError", err)
	}
	if perm.Reason != "tour not available" {
		t.Errorf("reason = %q, want user-facing message without detail", perm.Reason)
	}
}

func TestUploadImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		f, hdr, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "pano.jpg" {
			t.Errorf("filename = %s, want pano.jpg", hdr.Filename)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "/uploads/pano.jpg"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	url, err := c.UploadImage(context.Background(), "pano.jpg", []byte{0xff, 0xd8})
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if url != "/uploads/pano.jpg" {
		t.Errorf("url = %s, want /uploads/pano.jpg", url)
	}
}
