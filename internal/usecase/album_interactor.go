package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/TravelAlbum/internal/core/ports"
	"github.com/GoArmGo/TravelAlbum/internal/domain"
)

// Виды объектов в файловом хранилище.
const (
	coverKind  = "locations"
	detailKind = "details"
)

const cleanupTimeout = 30 * time.Second

// albumUseCase implements AlbumUseCase
type albumUseCase struct {
	albumStorage ports.AlbumStorage
	fileStorage  FileStorage
	logger       *slog.Logger
}

// NewAlbumUseCase создает новый экземпляр AlbumUseCase
func NewAlbumUseCase(
	albumStorage ports.AlbumStorage,
	fileStorage FileStorage,
	logger *slog.Logger,
) AlbumUseCase {
	return &albumUseCase{
		albumStorage: albumStorage,
		fileStorage:  fileStorage,
		logger:       logger,
	}
}

func (uc *albumUseCase) ListLocations(ctx context.Context) ([]domain.LocationWithCount, error) {
	return uc.albumStorage.ListLocations(ctx)
}

// CreateLocation сначала загружает обложку, затем создает строку:
// при ошибке загрузки записи в бд не появляется.
func (uc *albumUseCase) CreateLocation(ctx context.Context, title string, cover *ImageUpload) (int64, error) {
	coverURL := ""
	if cover != nil {
		url, err := uc.upload(ctx, coverKind, cover)
		if err != nil {
			return 0, fmt.Errorf("usecase: ошибка загрузки обложки: %w", err)
		}
		coverURL = url
	}

	id, err := uc.albumStorage.CreateLocation(ctx, title, coverURL)
	if err != nil {
		return 0, fmt.Errorf("usecase: ошибка создания локации: %w", err)
	}
	return id, nil
}

// UpdateLocation обновляет переданные поля; новая обложка загружается до записи,
// старая удаляется best-effort после неё.
func (uc *albumUseCase) UpdateLocation(ctx context.Context, id int64, title *string, cover *ImageUpload) error {
	loc, err := uc.albumStorage.GetLocation(ctx, id)
	if err != nil {
		return fmt.Errorf("usecase: ошибка поиска локации: %w", err)
	}
	if loc == nil {
		return ErrLocationNotFound
	}

	fields := domain.LocationUpdate{Title: title}
	if cover != nil {
		url, err := uc.upload(ctx, coverKind, cover)
		if err != nil {
			return fmt.Errorf("usecase: ошибка загрузки обложки: %w", err)
		}
		fields.Cover = &url
	}

	if err := uc.albumStorage.UpdateLocation(ctx, id, fields); err != nil {
		return fmt.Errorf("usecase: ошибка обновления локации: %w", err)
	}

	if cover != nil {
		uc.cleanupRemote(loc.Cover)
	}
	return nil
}

// DeleteLocation удаляет строку (фото каскадом) и best-effort зачищает
// обложку и все объекты фотографий в хранилище.
func (uc *albumUseCase) DeleteLocation(ctx context.Context, id int64) error {
	loc, err := uc.albumStorage.GetLocation(ctx, id)
	if err != nil {
		return fmt.Errorf("usecase: ошибка поиска локации: %w", err)
	}
	if loc == nil {
		return ErrLocationNotFound
	}

	photos, err := uc.albumStorage.ListPhotos(ctx, id)
	if err != nil {
		return fmt.Errorf("usecase: ошибка получения фото локации: %w", err)
	}

	if err := uc.albumStorage.DeleteLocation(ctx, id); err != nil {
		return fmt.Errorf("usecase: ошибка удаления локации: %w", err)
	}

	for _, p := range photos {
		uc.cleanupRemote(p.URL)
	}
	uc.cleanupRemote(loc.Cover)
	return nil
}

func (uc *albumUseCase) ListPhotos(ctx context.Context, locationID int64) ([]domain.Photo, error) {
	loc, err := uc.albumStorage.GetLocation(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка поиска локации: %w", err)
	}
	if loc == nil {
		return nil, ErrLocationNotFound
	}
	return uc.albumStorage.ListPhotos(ctx, locationID)
}

// AddPhotos загружает файлы по одному и создает записи в порядке загрузки,
// так что sort_order повторяет порядок файлов в запросе.
func (uc *albumUseCase) AddPhotos(ctx context.Context, locationID int64, uploads []ImageUpload) ([]CreatedPhoto, error) {
	loc, err := uc.albumStorage.GetLocation(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка поиска локации: %w", err)
	}
	if loc == nil {
		return nil, ErrLocationNotFound
	}

	created := make([]CreatedPhoto, 0, len(uploads))
	for i := range uploads {
		url, err := uc.upload(ctx, detailKind, &uploads[i])
		if err != nil {
			return nil, fmt.Errorf("usecase: ошибка загрузки фото %q: %w", uploads[i].Filename, err)
		}

		id, err := uc.albumStorage.CreatePhoto(ctx, locationID, url, "", "")
		if err != nil {
			return nil, fmt.Errorf("usecase: ошибка создания фото: %w", err)
		}
		created = append(created, CreatedPhoto{ID: id, URL: url})
	}

	uc.logger.Info("photos added", "location_id", locationID, "count", len(created))
	return created, nil
}

func (uc *albumUseCase) UpdatePhoto(ctx context.Context, id int64, title, desc *string) error {
	photo, err := uc.albumStorage.GetPhoto(ctx, id)
	if err != nil {
		return fmt.Errorf("usecase: ошибка поиска фото: %w", err)
	}
	if photo == nil {
		return ErrPhotoNotFound
	}

	fields := domain.PhotoUpdate{Title: title, Description: desc}
	if err := uc.albumStorage.UpdatePhoto(ctx, id, fields); err != nil {
		return fmt.Errorf("usecase: ошибка обновления фото: %w", err)
	}
	return nil
}

func (uc *albumUseCase) DeletePhoto(ctx context.Context, id int64) error {
	photo, err := uc.albumStorage.GetPhoto(ctx, id)
	if err != nil {
		return fmt.Errorf("usecase: ошибка поиска фото: %w", err)
	}
	if photo == nil {
		return ErrPhotoNotFound
	}

	if err := uc.albumStorage.DeletePhoto(ctx, id); err != nil {
		return fmt.Errorf("usecase: ошибка удаления фото: %w", err)
	}

	uc.cleanupRemote(photo.URL)
	return nil
}

func (uc *albumUseCase) ReorderLocations(ctx context.Context, orderedIDs []int64) error {
	return uc.albumStorage.ReorderLocations(ctx, orderedIDs)
}

func (uc *albumUseCase) ReorderPhotos(ctx context.Context, orderedIDs []int64) error {
	return uc.albumStorage.ReorderPhotos(ctx, orderedIDs)
}

// PublicLocations собирает данные в формате старого locations.json.
func (uc *albumUseCase) PublicLocations(ctx context.Context) ([]PublicLocation, error) {
	locations, err := uc.albumStorage.ListLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка получения локаций: %w", err)
	}

	result := make([]PublicLocation, 0, len(locations))
	for _, loc := range locations {
		photos, err := uc.albumStorage.ListPhotos(ctx, loc.ID)
		if err != nil {
			return nil, fmt.Errorf("usecase: ошибка получения фото локации %d: %w", loc.ID, err)
		}
		result = append(result, projectLocation(loc.Location, photos))
	}
	return result, nil
}

// PublicLocation возвращает локацию по индексу в порядке показа.
func (uc *albumUseCase) PublicLocation(ctx context.Context, index int) (*PublicLocation, error) {
	locations, err := uc.albumStorage.ListLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка получения локаций: %w", err)
	}
	if index < 0 || index >= len(locations) {
		return nil, ErrLocationNotFound
	}

	loc := locations[index]
	photos, err := uc.albumStorage.ListPhotos(ctx, loc.ID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка получения фото локации %d: %w", loc.ID, err)
	}

	projected := projectLocation(loc.Location, photos)
	return &projected, nil
}

// projectLocation переводит локацию и её фото в публичный формат.
// Пустые title/desc не попадают в JSON (omitempty), details всегда массив.
func projectLocation(loc domain.Location, photos []domain.Photo) PublicLocation {
	details := make([]PublicPhoto, 0, len(photos))
	for _, p := range photos {
		details = append(details, PublicPhoto{
			Src:   p.URL,
			Title: p.Title,
			Desc:  p.Description,
		})
	}
	return PublicLocation{
		Src:     loc.Cover,
		Title:   loc.Title,
		Details: details,
	}
}

func (uc *albumUseCase) upload(ctx context.Context, kind string, img *ImageUpload) (string, error) {
	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := uc.fileStorage.ObjectKey(kind, img.Filename)
	return uc.fileStorage.UploadFile(ctx, key, img.Reader, contentType)
}

// cleanupRemote удаляет объект в хранилище по принципу best-effort:
// запрос клиента не ждет результата, ошибка только логируется.
func (uc *albumUseCase) cleanupRemote(fileURL string) {
	if fileURL == "" || !strings.HasPrefix(fileURL, "http") {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()

		if err := uc.fileStorage.DeleteFileByURL(ctx, fileURL); err != nil {
			uc.logger.Warn("best-effort remote delete failed", "url", fileURL, "error", err)
		}
	}()
}
