package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/GoArmGo/TravelAlbum/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAlbumStorage — хранилище в памяти, порядок строк задается порядком вставки.
type fakeAlbumStorage struct {
	locations []domain.Location
	photos    map[int64][]domain.Photo
	nextID    int64

	reorderedLocations [][]int64
	reorderedPhotos    [][]int64
}

func newFakeAlbumStorage() *fakeAlbumStorage {
	return &fakeAlbumStorage{photos: map[int64][]domain.Photo{}, nextID: 1}
}

func (f *fakeAlbumStorage) addLocation(title, cover string) int64 {
	id := f.nextID
	f.nextID++
	f.locations = append(f.locations, domain.Location{
		ID: id, Title: title, Cover: cover, SortOrder: len(f.locations),
	})
	return id
}

func (f *fakeAlbumStorage) addPhoto(locationID int64, url, title, description string) int64 {
	id := f.nextID
	f.nextID++
	f.photos[locationID] = append(f.photos[locationID], domain.Photo{
		ID: id, LocationID: locationID, URL: url,
		Title: title, Description: description,
		SortOrder: len(f.photos[locationID]),
	})
	return id
}

func (f *fakeAlbumStorage) ListLocations(ctx context.Context) ([]domain.LocationWithCount, error) {
	out := make([]domain.LocationWithCount, 0, len(f.locations))
	for _, loc := range f.locations {
		out = append(out, domain.LocationWithCount{
			Location:   loc,
			PhotoCount: len(f.photos[loc.ID]),
		})
	}
	return out, nil
}

func (f *fakeAlbumStorage) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	for i := range f.locations {
		if f.locations[i].ID == id {
			loc := f.locations[i]
			return &loc, nil
		}
	}
	return nil, nil
}

func (f *fakeAlbumStorage) CreateLocation(ctx context.Context, title, cover string) (int64, error) {
	return f.addLocation(title, cover), nil
}

func (f *fakeAlbumStorage) UpdateLocation(ctx context.Context, id int64, fields domain.LocationUpdate) error {
	for i := range f.locations {
		if f.locations[i].ID != id {
			continue
		}
		if fields.Title != nil {
			f.locations[i].Title = *fields.Title
		}
		if fields.Cover != nil {
			f.locations[i].Cover = *fields.Cover
		}
		if fields.SortOrder != nil {
			f.locations[i].SortOrder = *fields.SortOrder
		}
		return nil
	}
	return errors.New("no such location")
}

func (f *fakeAlbumStorage) DeleteLocation(ctx context.Context, id int64) error {
	for i := range f.locations {
		if f.locations[i].ID == id {
			f.locations = append(f.locations[:i], f.locations[i+1:]...)
			delete(f.photos, id)
			return nil
		}
	}
	return errors.New("no such location")
}

func (f *fakeAlbumStorage) ListPhotos(ctx context.Context, locationID int64) ([]domain.Photo, error) {
	return f.photos[locationID], nil
}

func (f *fakeAlbumStorage) GetPhoto(ctx context.Context, id int64) (*domain.Photo, error) {
	for _, photos := range f.photos {
		for i := range photos {
			if photos[i].ID == id {
				p := photos[i]
				return &p, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeAlbumStorage) CreatePhoto(ctx context.Context, locationID int64, url, title, description string) (int64, error) {
	return f.addPhoto(locationID, url, title, description), nil
}

func (f *fakeAlbumStorage) UpdatePhoto(ctx context.Context, id int64, fields domain.PhotoUpdate) error {
	for locID, photos := range f.photos {
		for i := range photos {
			if photos[i].ID != id {
				continue
			}
			if fields.Title != nil {
				f.photos[locID][i].Title = *fields.Title
			}
			if fields.Description != nil {
				f.photos[locID][i].Description = *fields.Description
			}
			return nil
		}
	}
	return errors.New("no such photo")
}

func (f *fakeAlbumStorage) DeletePhoto(ctx context.Context, id int64) error {
	for locID, photos := range f.photos {
		for i := range photos {
			if photos[i].ID == id {
				f.photos[locID] = append(photos[:i], photos[i+1:]...)
				return nil
			}
		}
	}
	return errors.New("no such photo")
}

func (f *fakeAlbumStorage) ReorderLocations(ctx context.Context, orderedIDs []int64) error {
	f.reorderedLocations = append(f.reorderedLocations, orderedIDs)
	return nil
}

func (f *fakeAlbumStorage) ReorderPhotos(ctx context.Context, orderedIDs []int64) error {
	f.reorderedPhotos = append(f.reorderedPhotos, orderedIDs)
	return nil
}

func (f *fakeAlbumStorage) CountLocations(ctx context.Context) (int, error) {
	return len(f.locations), nil
}

// fakeFileStorage записывает загрузки и шлет удаленные URL в канал,
// потому что зачистка выполняется в отдельной горутине.
type fakeFileStorage struct {
	uploads    []string
	deleted    chan string
	failUpload bool
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{deleted: make(chan string, 16)}
}

func (f *fakeFileStorage) ObjectKey(kind, originalName string) string {
	return fmt.Sprintf("album/%s/%s", kind, originalName)
}

func (f *fakeFileStorage) UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if f.failUpload {
		return "", errors.New("upload failed")
	}
	f.uploads = append(f.uploads, key)
	return "http://files.local/bucket/" + key, nil
}

func (f *fakeFileStorage) DeleteFileByURL(ctx context.Context, fileURL string) error {
	f.deleted <- fileURL
	return nil
}

func (f *fakeFileStorage) waitDeleted(t *testing.T, n int) []string {
	t.Helper()
	urls := make([]string, 0, n)
	for len(urls) < n {
		select {
		case url := <-f.deleted:
			urls = append(urls, url)
		case <-time.After(2 * time.Second):
			t.Fatalf("expected %d remote deletes, got %d", n, len(urls))
		}
	}
	return urls
}

func TestPublicLocationsProjection(t *testing.T) {
	storage := newFakeAlbumStorage()
	alpsID := storage.addLocation("Alps", "http://files.local/bucket/alps.jpg")
	storage.addPhoto(alpsID, "http://files.local/bucket/p1.jpg", "Peak", "Morning light")
	storage.addPhoto(alpsID, "http://files.local/bucket/p2.jpg", "", "")
	storage.addLocation("Coast", "http://files.local/bucket/coast.jpg")

	uc := NewAlbumUseCase(storage, newFakeFileStorage(), testLogger())

	result, err := uc.PublicLocations(context.Background())
	if err != nil {
		t.Fatalf("PublicLocations: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(result))
	}
	if result[0].Title != "Alps" || result[1].Title != "Coast" {
		t.Errorf("wrong order: %q, %q", result[0].Title, result[1].Title)
	}
	if result[1].Details == nil {
		t.Error("details must be an empty array, not null")
	}

	body, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	js := string(body)
	if !strings.Contains(js, `"details":[]`) {
		t.Errorf("location without photos must serialize details as []: %s", js)
	}
	if !strings.Contains(js, `{"src":"http://files.local/bucket/p2.jpg"}`) {
		t.Errorf("empty title and desc must be omitted from JSON: %s", js)
	}
	if !strings.Contains(js, `"title":"Peak"`) || !strings.Contains(js, `"desc":"Morning light"`) {
		t.Errorf("photo title and desc lost in projection: %s", js)
	}
}

func TestPublicLocationByIndex(t *testing.T) {
	storage := newFakeAlbumStorage()
	storage.addLocation("Alps", "cover-a")
	storage.addLocation("Coast", "cover-b")

	uc := NewAlbumUseCase(storage, newFakeFileStorage(), testLogger())

	loc, err := uc.PublicLocation(context.Background(), 1)
	if err != nil {
		t.Fatalf("PublicLocation: %v", err)
	}
	if loc.Title != "Coast" {
		t.Errorf("expected Coast at index 1, got %q", loc.Title)
	}

	for _, index := range []int{-1, 2} {
		if _, err := uc.PublicLocation(context.Background(), index); !errors.Is(err, ErrLocationNotFound) {
			t.Errorf("index %d: expected ErrLocationNotFound, got %v", index, err)
		}
	}
}

func TestCreateLocationUploadFailure(t *testing.T) {
	storage := newFakeAlbumStorage()
	files := newFakeFileStorage()
	files.failUpload = true

	uc := NewAlbumUseCase(storage, files, testLogger())

	cover := &ImageUpload{Reader: strings.NewReader("img"), Filename: "cover.jpg"}
	if _, err := uc.CreateLocation(context.Background(), "Alps", cover); err == nil {
		t.Fatal("expected error when cover upload fails")
	}
	if len(storage.locations) != 0 {
		t.Error("no row must be created when the upload fails")
	}
}

func TestAddPhotosKeepsOrder(t *testing.T) {
	storage := newFakeAlbumStorage()
	locID := storage.addLocation("Alps", "")
	uc := NewAlbumUseCase(storage, newFakeFileStorage(), testLogger())

	uploads := []ImageUpload{
		{Reader: strings.NewReader("a"), Filename: "a.jpg", ContentType: "image/jpeg"},
		{Reader: strings.NewReader("b"), Filename: "b.png", ContentType: "image/png"},
		{Reader: strings.NewReader("c"), Filename: "c.jpg"},
	}

	created, err := uc.AddPhotos(context.Background(), locID, uploads)
	if err != nil {
		t.Fatalf("AddPhotos: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("expected 3 created photos, got %d", len(created))
	}

	photos := storage.photos[locID]
	for i, p := range photos {
		if p.SortOrder != i {
			t.Errorf("photo %d: sort order %d, want %d", i, p.SortOrder, i)
		}
		if p.URL != created[i].URL {
			t.Errorf("photo %d: url %q does not match created %q", i, p.URL, created[i].URL)
		}
	}
	if !strings.Contains(created[1].URL, "b.png") {
		t.Errorf("upload order not preserved: %q", created[1].URL)
	}
}

func TestAddPhotosUnknownLocation(t *testing.T) {
	uc := NewAlbumUseCase(newFakeAlbumStorage(), newFakeFileStorage(), testLogger())

	_, err := uc.AddPhotos(context.Background(), 42, []ImageUpload{
		{Reader: strings.NewReader("a"), Filename: "a.jpg"},
	})
	if !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestDeleteLocationCleansUpRemoteFiles(t *testing.T) {
	storage := newFakeAlbumStorage()
	files := newFakeFileStorage()
	locID := storage.addLocation("Alps", "http://files.local/bucket/cover.jpg")
	storage.addPhoto(locID, "http://files.local/bucket/p1.jpg", "", "")
	storage.addPhoto(locID, "http://files.local/bucket/p2.jpg", "", "")

	uc := NewAlbumUseCase(storage, files, testLogger())

	if err := uc.DeleteLocation(context.Background(), locID); err != nil {
		t.Fatalf("DeleteLocation: %v", err)
	}
	if len(storage.locations) != 0 {
		t.Error("location row must be deleted")
	}

	deleted := files.waitDeleted(t, 3)
	want := map[string]bool{
		"http://files.local/bucket/cover.jpg": true,
		"http://files.local/bucket/p1.jpg":    true,
		"http://files.local/bucket/p2.jpg":    true,
	}
	for _, url := range deleted {
		if !want[url] {
			t.Errorf("unexpected remote delete: %q", url)
		}
		delete(want, url)
	}
}

func TestDeletePhotoSkipsLocalURL(t *testing.T) {
	storage := newFakeAlbumStorage()
	files := newFakeFileStorage()
	locID := storage.addLocation("Alps", "")
	photoID := storage.addPhoto(locID, "/static/legacy.jpg", "", "")

	uc := NewAlbumUseCase(storage, files, testLogger())

	if err := uc.DeletePhoto(context.Background(), photoID); err != nil {
		t.Fatalf("DeletePhoto: %v", err)
	}

	select {
	case url := <-files.deleted:
		t.Errorf("local URL must not be deleted remotely: %q", url)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUpdateLocationReplacesCover(t *testing.T) {
	storage := newFakeAlbumStorage()
	files := newFakeFileStorage()
	locID := storage.addLocation("Alps", "http://files.local/bucket/old.jpg")

	uc := NewAlbumUseCase(storage, files, testLogger())

	title := "Swiss Alps"
	cover := &ImageUpload{Reader: strings.NewReader("img"), Filename: "new.jpg", ContentType: "image/jpeg"}
	if err := uc.UpdateLocation(context.Background(), locID, &title, cover); err != nil {
		t.Fatalf("UpdateLocation: %v", err)
	}

	loc := storage.locations[0]
	if loc.Title != "Swiss Alps" {
		t.Errorf("title not updated: %q", loc.Title)
	}
	if !strings.Contains(loc.Cover, "new.jpg") {
		t.Errorf("cover not replaced: %q", loc.Cover)
	}

	deleted := files.waitDeleted(t, 1)
	if deleted[0] != "http://files.local/bucket/old.jpg" {
		t.Errorf("old cover must be cleaned up, got %q", deleted[0])
	}
}

func TestUpdatePhotoNotFound(t *testing.T) {
	uc := NewAlbumUseCase(newFakeAlbumStorage(), newFakeFileStorage(), testLogger())

	title := "x"
	if err := uc.UpdatePhoto(context.Background(), 7, &title, nil); !errors.Is(err, ErrPhotoNotFound) {
		t.Errorf("expected ErrPhotoNotFound, got %v", err)
	}
}

func TestReorderPassthrough(t *testing.T) {
	storage := newFakeAlbumStorage()
	uc := NewAlbumUseCase(storage, newFakeFileStorage(), testLogger())

	ids := []int64{3, 1, 2}
	if err := uc.ReorderLocations(context.Background(), ids); err != nil {
		t.Fatalf("ReorderLocations: %v", err)
	}
	if err := uc.ReorderPhotos(context.Background(), ids); err != nil {
		t.Fatalf("ReorderPhotos: %v", err)
	}

	if len(storage.reorderedLocations) != 1 || len(storage.reorderedLocations[0]) != 3 {
		t.Errorf("reorder not passed to storage: %v", storage.reorderedLocations)
	}
	if len(storage.reorderedPhotos) != 1 {
		t.Errorf("photo reorder not passed to storage: %v", storage.reorderedPhotos)
	}
}
