package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GoArmGo/TravelAlbum/internal/usecase"
	"github.com/go-chi/chi/v5"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakePublicAlbum struct {
	usecase.AlbumUseCase
	locations []usecase.PublicLocation
}

func (f *fakePublicAlbum) PublicLocations(ctx context.Context) ([]usecase.PublicLocation, error) {
	return f.locations, nil
}

func (f *fakePublicAlbum) PublicLocation(ctx context.Context, index int) (*usecase.PublicLocation, error) {
	if index < 0 || index >= len(f.locations) {
		return nil, usecase.ErrLocationNotFound
	}
	loc := f.locations[index]
	return &loc, nil
}

func publicRouterForTest(album usecase.AlbumUseCase) http.Handler {
	h := NewPublicHandler(album, testLogger())
	r := chi.NewRouter()
	r.Get("/api/locations", h.GetLocations)
	r.Get("/api/locations/{index}", h.GetLocation)
	return r
}

func TestGetLocationsCaching(t *testing.T) {
	album := &fakePublicAlbum{locations: []usecase.PublicLocation{
		{Src: "http://files.local/a.jpg", Title: "Alps", Details: []usecase.PublicPhoto{}},
	}}
	router := publicRouterForTest(album)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/locations", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=60" {
		t.Errorf("Cache-Control = %q", cc)
	}
	etag := rec.Header().Get("ETag")
	if etag == "" || !strings.HasPrefix(etag, `"`) {
		t.Fatalf("missing or unquoted ETag: %q", etag)
	}
	if !strings.Contains(rec.Body.String(), `"title":"Alps"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}

	// повторный запрос с тем же ETag должен дать 304 без тела
	req := httptest.NewRequest(http.MethodGet, "/api/locations", nil)
	req.Header.Set("If-None-Match", etag)
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req)

	if rec2.Code != http.StatusNotModified {
		t.Fatalf("status %d, want 304", rec2.Code)
	}
	if rec2.Body.Len() != 0 {
		t.Errorf("304 response must have an empty body, got %q", rec2.Body.String())
	}
}

func TestGetLocationByIndex(t *testing.T) {
	album := &fakePublicAlbum{locations: []usecase.PublicLocation{
		{Src: "a.jpg", Title: "Alps", Details: []usecase.PublicPhoto{}},
		{Src: "b.jpg", Title: "Coast", Details: []usecase.PublicPhoto{}},
	}}
	router := publicRouterForTest(album)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/locations/1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"title":"Coast"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/locations/5", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("out of range index: status %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/locations/abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric index: status %d, want 400", rec.Code)
	}
}
