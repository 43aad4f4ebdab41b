package loader

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spynter/hub360/tour"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestFetchDecodesAndCaches(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(pngBytes(t, 8, 4))
	}))
	defer srv.Close()

	l := NewLoader()
	data, err := l.Fetch(context.Background(), srv.URL+"/pano.png")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if data.Width != 8 || data.Height != 4 {
		t.Errorf("decoded size = %dx%d, want 8x4", data.Width, data.Height)
	}
	if len(data.Pixels) != 8*4*4 {
		t.Errorf("pixel buffer length = %d, want %d", len(data.Pixels), 8*4*4)
	}

	if _, err := l.Fetch(context.Background(), srv.URL+"/pano.png"); err != nil {
		t.Fatalf("second Fetch() error: %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1 (second fetch should be cached)", got)
	}
	if !l.Cached(srv.URL + "/pano.png") {
		t.Error("Cached() = false after successful fetch")
	}
}

func TestFetchHTTPErrorWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	l := NewLoader()
	_, err := l.Fetch(context.Background(), srv.URL+"/missing.jpg")
	if err == nil {
		t.Fatal("Fetch() of 404 should fail")
	}
	var loadErr *tour.ResourceLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error %T is not a ResourceLoadError", err)
	}
	if loadErr.URL != srv.URL+"/missing.jpg" {
		t.Errorf("error URL = %q", loadErr.URL)
	}
	if l.Cached(srv.URL + "/missing.jpg") {
		t.Error("failed fetch must not populate the cache")
	}
}

func TestFetchDecodeErrorWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not an image"))
	}))
	defer srv.Close()

	l := NewLoader()
	_, err := l.Fetch(context.Background(), srv.URL+"/garbage.jpg")
	var loadErr *tour.ResourceLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error %T is not a ResourceLoadError", err)
	}
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	l := NewLoader(WithFetchTimeout(50 * time.Millisecond))
	start := time.Now()
	_, err := l.Fetch(context.Background(), srv.URL+"/slow.jpg")
	if err == nil {
		t.Fatal("Fetch() should time out")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}
	var loadErr *tour.ResourceLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error %T is not a ResourceLoadError", err)
	}
}

func TestPrefetchWarmsCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes(t, 4, 2))
	}))
	defer srv.Close()

	l := NewLoader(WithPrefetchWorkers(2))
	urls := []string{srv.URL + "/a.png", srv.URL + "/b.png", ""}
	l.Prefetch(urls)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if l.Cached(urls[0]) && l.Cached(urls[1]) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("prefetch did not warm the cache in time")
}

func TestEvictAndClear(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes(t, 2, 2))
	}))
	defer srv.Close()

	l := NewLoader()
	a := srv.URL + "/a.png"
	b := srv.URL + "/b.png"
	for _, url := range []string{a, b} {
		if _, err := l.Fetch(context.Background(), url); err != nil {
			t.Fatalf("Fetch(%q) error: %v", url, err)
		}
	}

	l.Evict(a)
	if l.Cached(a) {
		t.Error("Evict() left the entry in the cache")
	}
	if !l.Cached(b) {
		t.Error("Evict() removed an unrelated entry")
	}

	l.Clear()
	if l.Cached(b) {
		t.Error("Clear() left an entry in the cache")
	}
}
